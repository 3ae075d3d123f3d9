package upstream

import (
	"errors"
	"fmt"
)

// NetworkError is a rejected request or a non-2xx response.
type NetworkError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: request failed", e.Method, e.URL)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NotFoundError is a 404 on a detail endpoint.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// DecodeError is a response body that could not be understood.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func IsNetwork(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsDecode(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}
