package upstream

import (
	"errors"
	"fmt"
)

// RejectedError is a structured status 0 answer from a collaborator.
type RejectedError struct {
	Service string
	Msg     string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Service, e.Msg)
}

func (e *RejectedError) Kind() string { return "rejected" }

// UnavailableError means the collaborator could not be reached or did not
// answer with a readable envelope in time.
type UnavailableError struct {
	Service string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s service unavailable: %v", e.Service, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Kind() string { return "unavailable" }

// Msg is the caller-facing message for the envelope.
func (e *UnavailableError) Msg() string {
	return e.Service + " service unavailable"
}

// Message returns the envelope message an error should surface as.
func Message(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.Msg
	}
	var unavailable *UnavailableError
	if errors.As(err, &unavailable) {
		return unavailable.Msg()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func IsUnavailable(err error) bool {
	var unavailable *UnavailableError
	return errors.As(err, &unavailable)
}
