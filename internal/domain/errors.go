package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrCapacityExceeded indicates the saved list is already full
	ErrCapacityExceeded = errors.New("saved video limit reached")

	// ErrInvalidVideoID indicates an empty or blank video id
	ErrInvalidVideoID = errors.New("invalid video id")

	// ErrVideoNotFound indicates the video is not in the saved list
	ErrVideoNotFound = errors.New("video is not saved")

	// ErrSourceUnavailable indicates the search or lookup endpoint failed
	ErrSourceUnavailable = errors.New("video source is unreachable")

	// ErrStaleResponse indicates a page arrived after a newer query started
	ErrStaleResponse = errors.New("response belongs to a superseded query")
)

// CacheError reports a failed saved-list mutation.
type CacheError struct {
	Op  string // "save", "toggle", "remove", "clear"
	ID  string
	Err error
}

func (e *CacheError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}
