package advisor

import (
	"errors"
	"fmt"
)

// Kind classifies why advice could not be produced.
type Kind string

const (
	// KindInvalidInput means the request was rejected before reaching the service.
	KindInvalidInput Kind = "invalid_input"
	// KindUnavailable means the service could not be reached or returned an error.
	KindUnavailable Kind = "unavailable"
	// KindEmptyResponse means the service answered without usable text.
	KindEmptyResponse Kind = "empty_response"
)

// Failure is the only error type returned by Client methods.
type Failure struct {
	Kind Kind
	Op   string
	Err  error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("advisor %s: %s: %v", f.Op, f.Kind, f.Err)
	}
	return fmt.Sprintf("advisor %s: %s", f.Op, f.Kind)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// KindOf extracts the failure kind from err.
func KindOf(err error) (Kind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}
