package store

import "errors"

var (
	// ErrNoSuchRecord is returned by Update, Remove and Select when no
	// record with the given id exists. The collection is left unchanged;
	// callers may treat it as "nothing to do" rather than a failure.
	ErrNoSuchRecord = errors.New("no record with that id")

	// ErrStaleScope is returned by ReplaceForScope when the result being
	// merged was fetched for a scope that is no longer the collection's
	// current scope. The stale result is discarded.
	ErrStaleScope = errors.New("result is for a stale scope")
)
