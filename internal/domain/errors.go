package domain

import "errors"

var (
	ErrFetchFailed  = errors.New("fetch failed")
	ErrInvalidQuery = errors.New("invalid query")
	ErrNoResults    = errors.New("no results")
	ErrEmptyQuery   = errors.New("empty query")
)
