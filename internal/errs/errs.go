package errs

import "errors"

// Kind classifies an error so the HTTP boundary can map it to a status
// code without inspecting messages.
type Kind int

const (
	// KindInternal covers unexpected failures. Details never reach the caller.
	KindInternal Kind = iota
	// KindValidation indicates caller input or card state violates a business rule.
	KindValidation
	// KindNotFound indicates the referenced entity is absent or not visible
	// to the requester.
	KindNotFound
)

// Details carries the structured payload attached to validation failures.
type Details struct {
	Field    string            `json:"field,omitempty"`
	Expected string            `json:"expected,omitempty"`
	Received string            `json:"received,omitempty"`
	Context  map[string]string `json:"context,omitempty"`
}

// Error is the closed error type used across the service layer.
type Error struct {
	Kind    Kind
	Message string
	Details *Details
}

func (e *Error) Error() string { return e.Message }

// Validation builds a business-rule violation. details may be nil.
func Validation(message string, details *Details) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// NotFound builds a missing-or-invisible entity error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// KindOf reports the kind of err, treating anything outside the closed
// enumeration as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As unwraps err into *Error when possible.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
