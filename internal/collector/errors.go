package collector

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork covers rejected requests, non-2xx responses and upstream
	// bodies that report a failed status.
	ErrNetwork = errors.New("network failure")

	// ErrMalformed means the body did not match the expected schema.
	ErrMalformed = errors.New("malformed response")
)

// FetchError is returned by every fetch. It matches ErrNetwork or
// ErrMalformed with errors.Is.
type FetchError struct {
	Source string
	Kind   error
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v: %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func networkErr(source string, err error) error {
	return &FetchError{Source: source, Kind: ErrNetwork, Err: err}
}

func malformedErr(source string, err error) error {
	return &FetchError{Source: source, Kind: ErrMalformed, Err: err}
}
