package config

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	stageNormalize = "normalize"
	stageValidate  = "validate"

	codeNormalizerError = "normalizer_error"
	codeValidatorError  = "validator_error"
	codeBaseValidate    = "base_validate"
)

// ValidationIssue is one failure reported by the validation pipeline.
type ValidationIssue struct {
	Stage string
	Code  string
	Err   error
}

// ValidationReport collects the issues of one Load. With fail fast enabled it
// holds the first issue only.
type ValidationReport struct {
	Issues []ValidationIssue
}

func (r *ValidationReport) Error() string {
	parts := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		parts = append(parts, issue.Stage+": "+issue.Err.Error())
	}
	return "config: validation failed: " + strings.Join(parts, "; ")
}

func (r *ValidationReport) Unwrap() []error {
	errs := make([]error, 0, len(r.Issues))
	for _, issue := range r.Issues {
		errs = append(errs, issue.Err)
	}
	return errs
}

// runValidation runs normalizers, the base Validate and the validators in that
// order.
func (c *Container[C]) runValidation() error {
	if c.validationMode == ValidationNone {
		return nil
	}

	report := &ValidationReport{}
	// record reports whether the pipeline must stop.
	record := func(stage, code string, err error) bool {
		report.Issues = append(report.Issues, ValidationIssue{Stage: stage, Code: code, Err: err})
		return c.failFast
	}

	stopped := false
	for _, normalize := range c.normalizers {
		if err := normalize(c.base); err != nil && record(stageNormalize, codeNormalizerError, err) {
			stopped = true
			break
		}
	}

	if !stopped && c.baseValidate {
		if err := c.base.Validate(); err != nil && record(stageValidate, codeBaseValidate, err) {
			stopped = true
		}
	}

	if !stopped {
		for _, validate := range c.validators {
			if err := validate(c.base); err != nil && record(stageValidate, codeValidatorError, err) {
				break
			}
		}
	}

	if len(report.Issues) == 0 {
		return nil
	}
	c.log().Debug("configuration validation failed", "issues", len(report.Issues))
	return errors.Wrap(report, errors.CategoryValidation, "configuration validation failed").
		WithTextCode("CONFIG_VALIDATION_FAILED").
		WithMetadata(map[string]any{
			"issues":    len(report.Issues),
			"fail_fast": c.failFast,
		})
}
