package serrors

import "fmt"

// BaseError is a machine-readable error carrying a stable code and, for
// validation failures, the offending field. API layers map Code to a JSON
// envelope; callers match with errors.Is/errors.As.
type BaseError struct {
	Code    string
	Message string
	Field   string
}

func NewError(code, message string) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
	}
}

func NewFieldError(code, field, message string) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Field:   field,
	}
}

func NewFieldRequiredError(field string) *BaseError {
	return NewFieldError("FIELD_REQUIRED", field, fmt.Sprintf("%s is required", field))
}

func (e *BaseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches two BaseErrors by code, so wrapped sentinel errors survive
// fmt.Errorf("%w", ...) chains.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

// WithField returns a copy of the error annotated with the offending field.
func (e *BaseError) WithField(field string) *BaseError {
	return &BaseError{
		Code:    e.Code,
		Message: e.Message,
		Field:   field,
	}
}

// ValidationErrors maps field names to their validation failures.
type ValidationErrors map[string]*BaseError

func (v ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(v))
}
