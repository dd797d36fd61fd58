package config

import (
	"errors"
	"io/fs"
	"syscall"
	"testing"
)

func TestDefaultErrorFilter_IgnoresNotExistByDefault(t *testing.T) {
	filter := DefaultErrorFilter()

	if !filter(fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist to be ignored by default")
	}

	pathErr := &fs.PathError{Err: syscall.ENOENT}
	if !filter(pathErr) {
		t.Fatalf("expected PathError wrapping ENOENT to be ignored")
	}
}

func TestDefaultErrorFilter_DoesNotIgnoreOtherErrorsByDefault(t *testing.T) {
	filter := DefaultErrorFilter()

	if filter(errors.New("boom")) {
		t.Fatalf("expected arbitrary errors to propagate when no allowlist provided")
	}
}

func TestDefaultErrorFilter_AllowsCustomErrors(t *testing.T) {
	customErr := errors.New("custom")
	filter := DefaultErrorFilter(customErr)

	if !filter(customErr) {
		t.Fatalf("expected custom error to be allowed when provided")
	}

	if filter(errors.New("other")) {
		t.Fatalf("expected unmatched errors to propagate even with custom allowlist")
	}
}

func TestProviderTypeValidate(t *testing.T) {
	for _, p := range []ProviderType{
		ProviderTypeDefault, ProviderTypeLocalFile, ProviderTypeProfile,
		ProviderTypeEnv, ProviderTypeFlag, ProviderTypeStruct, ProviderTypeValue,
	} {
		if err := p.validate(); err != nil {
			t.Errorf("expected %s to be valid, got %v", p, err)
		}
	}

	if err := ProviderType("remote").validate(); err == nil {
		t.Fatalf("expected unknown provider type to fail")
	}
}

func TestPriorityWithOffset(t *testing.T) {
	if got := PriorityConfig.WithOffset(-10); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := getOrder(PriorityEnv); got != 30 {
		t.Fatalf("expected default order 30, got %d", got)
	}
	if got := getOrder(PriorityEnv, 7); got != 7 {
		t.Fatalf("expected explicit order 7, got %d", got)
	}
}
