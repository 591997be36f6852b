package domain

import (
	"errors"
	"fmt"
)

// sentinel errors shared by the engine, storage and callers
var (
	ErrFetchFailed       = errors.New("fetch failed")
	ErrMalformedDocument = errors.New("malformed document")
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidURL        = errors.New("invalid feed url")
	ErrNotSubscribed     = errors.New("not subscribed")
	ErrCategoryNotOwned  = errors.New("category not owned by user")
)

// SyncError is returned by a sync pass failed on fetch or parse.
// errors.Is matches both Kind and the underlying error.
type SyncError struct {
	FeedID int64
	Kind   error // ErrFetchFailed or ErrMalformedDocument
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync feed %d: %v: %v", e.FeedID, e.Kind, e.Err)
}

// Unwrap returns kind and cause
func (e *SyncError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
