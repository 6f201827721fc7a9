// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package yedit

import (
	"errors"
	"fmt"

	"yset.io/pkg/ypath"
)

var (
	// ErrTypeMismatch means a segment requires a different container kind than the node found at its position.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrIndexOutOfRange means a non-negative index is beyond the bounds of a sequence.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotFound means a key or identifier doesn't match any node (only reported when reading or deleting).
	ErrNotFound = errors.New("not found")
	// ErrMalformedValue means a value literal cannot be parsed.
	ErrMalformedValue = errors.New("malformed value")
)

// A PathError records the path prefix at which a walk failed.
type PathError struct {
	Path ypath.Path
	Err  error
}

func (e *PathError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *PathError) Unwrap() error { return e.Err }

func pathErrorf(p ypath.Path, format string, args ...interface{}) error {
	return &PathError{Path: p, Err: fmt.Errorf(format, args...)}
}
