// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import "fmt"

// BackendExecuteError wraps any error the back-end raises while
// executing a serialized function - a failed REQ, an out-of-range
// argument, or an internal back-end fault. It never reaches the
// ledger: the call aborts before a transaction is ever built.
type BackendExecuteError struct {
	Cause error
}

func newBackendExecuteError(cause error) *BackendExecuteError {
	return &BackendExecuteError{Cause: cause}
}

func (e *BackendExecuteError) Error() string {
	return fmt.Sprintf("runtime: error while executing instructions: %s", e.Cause)
}

func (e *BackendExecuteError) Unwrap() error { return e.Cause }
