package solvers

import (
	"fmt"
	"strings"

	opts "github.com/goliatone/go-options"

	"github.com/goliatone/go-taskconfig/logger"
	"github.com/goliatone/go-taskconfig/value"
)

const (
	defaultExpressionStart = "{{"
	defaultExpressionEnd   = "}}"
)

// EvalErrorHandler handles a failed expression at path. Return true to mark the
// error as handled. Handlers run after the walk, so they may edit root freely.
type EvalErrorHandler func(path string, expr string, err error, root *value.Value) bool

// Evaluator evaluates one expression against a snapshot of the tree. The
// go-options expr evaluator is the default.
type Evaluator interface {
	Evaluate(ctx opts.RuleContext, expr string) (any, error)
}

type expression struct {
	delimiters *delimiters
	evaluator  Evaluator
	onError    EvalErrorHandler
}

type evalFailure struct {
	path string
	expr string
	err  error
}

// NewExpressionSolver evaluates strings wrapped by delimiters (default {{ }})
// with the expr evaluator. The whole tree is visible to the expression, so
// {{ stage.retries * 2 }} reads stage.retries from the same document.
func NewExpressionSolver(start, end string) Solver {
	return NewExpressionSolverWithEvaluator(start, end, nil, nil)
}

// NewExpressionSolverWithEvaluator allows a custom evaluator and error handler.
func NewExpressionSolverWithEvaluator(start, end string, eval Evaluator, onErr EvalErrorHandler) Solver {
	if eval == nil {
		eval = opts.NewExprEvaluator()
	}
	if onErr == nil {
		onErr = OnEvalLeaveUnchanged()
	}
	start, end = normalizeExpressionDelimiters(start, end)

	return &expression{
		delimiters: &delimiters{Start: start, End: end},
		evaluator:  eval,
		onError:    onErr,
	}
}

// Solve rewrites root in place. Every expression sees the tree as it was before
// the pass started.
func (s expression) Solve(root *value.Value) {
	if root == nil {
		return
	}
	snapshot, _ := root.ToNative().(map[string]any)

	var failures []evalFailure
	eachString(root, func(path, val string, node *value.Value) {
		expr, ok := s.fullMatch(val)
		if !ok {
			return
		}
		expr = strings.TrimSpace(expr)
		result, err := s.evaluator.Evaluate(opts.RuleContext{Snapshot: snapshot}, expr)
		if err == nil {
			var next value.Value
			next, err = value.FromNative(result)
			if err == nil {
				*node = next
				return
			}
		}
		failures = append(failures, evalFailure{path: path, expr: expr, err: err})
	})

	for i := len(failures) - 1; i >= 0; i-- {
		f := failures[i]
		s.onError(f.path, f.expr, f.err, root)
	}
}

func (s expression) fullMatch(input string) (string, bool) {
	if s.delimiters == nil {
		return "", false
	}
	if !strings.HasPrefix(input, s.delimiters.Start) || !strings.HasSuffix(input, s.delimiters.End) {
		return "", false
	}

	start := len(s.delimiters.Start)
	end := len(input) - len(s.delimiters.End)
	if end < start {
		return "", false
	}
	return input[start:end], true
}

func normalizeExpressionDelimiters(start, end string) (string, string) {
	if start == "" {
		start = defaultExpressionStart
	}
	if end == "" {
		end = defaultExpressionEnd
	}
	return start, end
}

// OnEvalLogAndPanic logs the error then panics.
func OnEvalLogAndPanic(lgr logger.Logger) EvalErrorHandler {
	return func(path string, expr string, err error, _ *value.Value) bool {
		if lgr == nil {
			lgr = logger.NewDefaultLogger("solvers")
		}
		lgr.Error("expression evaluation failed", "path", path, "expr", expr, "error", err)
		panic(fmt.Errorf("solvers: evaluate %q at %s: %w", expr, path, err))
	}
}

// OnEvalLeaveUnchanged keeps the original string.
func OnEvalLeaveUnchanged() EvalErrorHandler {
	return func(string, string, error, *value.Value) bool {
		return true
	}
}

// OnEvalNull replaces the failed expression with null.
func OnEvalNull() EvalErrorHandler {
	return func(path string, _ string, _ error, root *value.Value) bool {
		if root == nil {
			return false
		}
		_ = root.Walk(func(p string, node *value.Value) error {
			if p == path {
				*node = value.Null()
				return value.SkipChildren
			}
			return nil
		})
		return true
	}
}

// OnEvalRemove deletes the key holding the failed expression. Array items
// cannot be removed and are left unchanged.
func OnEvalRemove() EvalErrorHandler {
	return func(path string, _ string, _ error, root *value.Value) bool {
		if root == nil {
			return false
		}
		return root.Remove(path)
	}
}
