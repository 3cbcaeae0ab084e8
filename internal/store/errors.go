package store

import "fmt"

// StoreUnavailableError is returned when the monitoring database file is
// missing, cannot be opened, or the lock wait was exceeded. It is fatal for
// the invocation; there are no retries.
type StoreUnavailableError struct {
	Path string
	Err  error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("monitoring store unavailable: %s: %v", e.Path, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// QueryError is returned when a composed query is malformed or references a
// missing table or view. A missing-view cause triggers one-time view
// provisioning at startup and should not recur.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("monitoring store query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
