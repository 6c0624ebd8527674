// Package validation carries structural validation failures from the domain
// and application layers to transport, keyed by the offending field path.
package validation

// Error captures field level validation issues that callers can surface to
// users. The zero value is ready to use.
type Error struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (e *Error) HasErrors() bool {
	return e != nil && len(e.FieldErrors) > 0
}

// Add records a field level validation error.
func (e *Error) Add(field, message string) {
	if e.FieldErrors == nil {
		e.FieldErrors = make(map[string]string)
	}
	e.FieldErrors[field] = message
}

// Merge copies entries from another validation error into the receiver.
func (e *Error) Merge(other *Error) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		e.Add(field, msg)
	}
}
