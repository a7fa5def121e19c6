// Package fault defines the failure value returned across the forecast
// boundary. Every failure carries exactly one Kind so callers can tell a
// user-fixable input problem from a provider-side one without matching on
// message text.
package fault

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindProvider
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindProvider:
		return "provider_error"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

const (
	providerPrefix   = "Failed to get prediction from AI"
	malformedMessage = "Failed to get prediction from AI. The model may have returned an invalid response."
)

// Error is the single failure type. Message is safe to show to the user;
// Err keeps the original cause for logs and errors.As/Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindMalformedResponse {
		return e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidInput reports a problem the user can fix, e.g. a missing image.
func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func InvalidInputf(format string, args ...any) *Error {
	return InvalidInput(fmt.Sprintf(format, args...))
}

// Provider wraps a failed outbound call.
func Provider(err error) *Error {
	msg := providerPrefix + "."
	if err != nil {
		msg = providerPrefix + ": " + err.Error()
	}
	return &Error{Kind: KindProvider, Message: msg, Err: err}
}

// Malformed wraps a reply that could not be turned into a Prediction.
func Malformed(err error) *Error {
	return &Error{Kind: KindMalformedResponse, Message: malformedMessage, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

func Is(err error, k Kind) bool { return err != nil && KindOf(err) == k }

// UserMessage is what the view shows for err.
func UserMessage(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	if err == nil {
		return ""
	}
	return "An unknown error occurred."
}
