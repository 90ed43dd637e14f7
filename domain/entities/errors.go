package entities

import (
	"errors"
	"fmt"
)

// ErrElementNotFound matches any error caused by a selector resolving to no element
var ErrElementNotFound = errors.New("element not found")

// ElementNotFoundError is returned when a selector matches no element in the
// current page, either on lookup or after a bounded wait. Err keeps the
// driver's original error.
type ElementNotFoundError struct {
	Selector Selector
	Err      error
}

func (e *ElementNotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("element not found: %s", e.Selector)
	}
	return fmt.Sprintf("element not found: %s: %v", e.Selector, e.Err)
}

func (e *ElementNotFoundError) Unwrap() error {
	return e.Err
}

func (e *ElementNotFoundError) Is(target error) bool {
	return target == ErrElementNotFound
}

// NewElementNotFoundError wraps a driver error for the given selector
func NewElementNotFoundError(selector Selector, err error) error {
	return &ElementNotFoundError{Selector: selector, Err: err}
}

// IsElementNotFound reports whether err is an ElementNotFound error
func IsElementNotFound(err error) bool {
	return errors.Is(err, ErrElementNotFound)
}
