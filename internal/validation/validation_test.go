package validation

import "testing"

func TestError_Error(t *testing.T) {
	t.Parallel()

	var err *Error
	if err.Error() != "" {
		t.Fatalf("expected empty string for nil error, got %q", err.Error())
	}

	empty := &Error{}
	if got := empty.Error(); got != "validation failed" {
		t.Fatalf("expected generic message for empty error, got %q", got)
	}

	withFields := &Error{FieldErrors: map[string]string{"field": "invalid"}}
	if got := withFields.Error(); got != "validation failed" {
		t.Fatalf("expected consistent message for populated error, got %q", got)
	}
}

func TestError_HasErrors(t *testing.T) {
	t.Parallel()

	if (&Error{}).HasErrors() {
		t.Fatalf("expected HasErrors to report false for empty error")
	}

	if !(&Error{FieldErrors: map[string]string{"field": "bad"}}).HasErrors() {
		t.Fatalf("expected HasErrors to report true when fields are present")
	}
}

func TestError_AddAndMerge(t *testing.T) {
	t.Parallel()

	base := &Error{}
	base.Add("first", "value")
	if got := base.FieldErrors["first"]; got != "value" {
		t.Fatalf("expected Add to populate map, got %q", got)
	}

	other := &Error{FieldErrors: map[string]string{"second": "another"}}
	base.Merge(other)
	if got := base.FieldErrors["second"]; got != "another" {
		t.Fatalf("expected Merge to copy field, got %q", got)
	}

	base.Merge(nil)
	if len(base.FieldErrors) != 2 {
		t.Fatalf("expected Merge with nil to leave fields unchanged")
	}
}
