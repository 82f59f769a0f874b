package pipeline

import "fmt"

// PersistenceError reports a failed write to one of the two stores.
type PersistenceError struct {
	Store string // "keyed" or "archive"
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s store write failed: %v", e.Store, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DispatchError reports a failed alert notification send.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("alert dispatch failed: %v", e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
