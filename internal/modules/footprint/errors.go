package footprint

import (
	"errors"
	"fmt"
)

var ErrStoreUnreachable = errors.New("reference store unreachable")

// StoreError is the only error Calculate and AvailableItems return.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, ErrStoreUnreachable)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStoreUnreachable, e.Err)
}

func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStoreUnreachable}
	}
	return []error{ErrStoreUnreachable, e.Err}
}
