package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	t.Parallel()

	err := New(CodeValidation, "bad input")
	if err.Code() != CodeValidation {
		t.Fatalf("unexpected code %q", err.Code())
	}
	if err.Message() != "bad input" {
		t.Fatalf("unexpected message %q", err.Message())
	}
	if err.Error() != "VALIDATION_ERROR: bad input" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "redis write")
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected cause to survive unwrapping")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %q", err.Code())
	}
}

func TestWrapNilCause(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeInternal, nil, "no cause")
	if err.Unwrap() != nil {
		t.Fatal("expected nil cause")
	}
}

func TestAsThroughWrappedChain(t *testing.T) {
	t.Parallel()

	inner := New(CodeNotFound, "missing")
	outer := fmt.Errorf("loading doc: %w", inner)

	typed := As(outer)
	if typed == nil || typed.Code() != CodeNotFound {
		t.Fatalf("expected typed not-found error, got %v", typed)
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
	if As(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestIsCode(t *testing.T) {
	t.Parallel()

	err := New(CodeConflict, "already registered")
	if !IsCode(err, CodeConflict) {
		t.Fatal("expected conflict code match")
	}
	if IsCode(err, CodeNotFound) {
		t.Fatal("unexpected code match")
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	details := map[string]string{"email": "is required"}
	err := New(CodeValidation, "validation failed").WithDetails(details)
	got, ok := err.Details().(map[string]string)
	if !ok || got["email"] != "is required" {
		t.Fatalf("unexpected details %v", err.Details())
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
	if MetadataFor(CodeValidation).HTTPStatus != http.StatusBadRequest {
		t.Fatal("validation metadata mismatch")
	}
	if !MetadataFor(CodeDependency).Retryable {
		t.Fatal("dependency errors should be retryable")
	}
}
