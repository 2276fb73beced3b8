// Package catalog verifies generated candidates against external media
// catalogs and turns them into playable songs.
package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind classifies catalog backend failures. The distinction matters to
// callers: a quota failure becomes a "come back later" response instead of
// a generic error.
type ErrorKind int

const (
	KindUpstream ErrorKind = iota
	KindQuota
)

func (k ErrorKind) String() string {
	if k == KindQuota {
		return "quota"
	}
	return "upstream"
}

// Error is a classified catalog backend failure. Finding nothing is not an
// Error; that is a nil result.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s failure: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsQuota reports whether err wraps a quota-classified catalog failure.
func IsQuota(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Kind == KindQuota
}
