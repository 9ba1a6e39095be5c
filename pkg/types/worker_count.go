// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
)

// ErrInvalidWorkerCount is the sentinel error wrapped by InvalidWorkerCountError.
var ErrInvalidWorkerCount = errors.New("invalid worker count")

type (
	// WorkerCount bounds how many families are generated concurrently.
	// The zero value means one worker per CPU.
	WorkerCount int

	// InvalidWorkerCountError is returned for negative worker counts.
	InvalidWorkerCountError struct {
		Value WorkerCount
	}
)

// Validate returns an error if the WorkerCount is negative.
func (w WorkerCount) Validate() error {
	if w < 0 {
		return &InvalidWorkerCountError{Value: w}
	}
	return nil
}

// Effective returns the number of workers to start.
func (w WorkerCount) Effective() int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return int(w)
}

// String returns the decimal representation of the WorkerCount.
func (w WorkerCount) String() string { return strconv.Itoa(int(w)) }

// Error implements the error interface.
func (e *InvalidWorkerCountError) Error() string {
	return fmt.Sprintf("invalid worker count %d (must be >= 0)", e.Value)
}

// Unwrap returns ErrInvalidWorkerCount for errors.Is() compatibility.
func (e *InvalidWorkerCountError) Unwrap() error { return ErrInvalidWorkerCount }
