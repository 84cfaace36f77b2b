// Package dberr holds the error kinds shared by every tinyrel layer.
//
// Packages declare their own sentinels on top of a kind, e.g.
//
//	var ErrDuplicateKey = fmt.Errorf("%w: duplicate key", dberr.ErrValidation)
//
// so callers can match either the precise sentinel or the broad kind with errors.Is.
// Absent rows and keys are not errors: lookups report them with an ok flag.
package dberr

import "errors"

var (
	// ErrSchema: empty table name, no columns, duplicate or empty column names, unknown types.
	ErrSchema = errors.New("tinyrel: schema error")

	// ErrValidation: bad table/column references, mismatched inserts, constraint violations.
	ErrValidation = errors.New("tinyrel: validation error")

	// ErrAccess: reading a record that has been removed.
	ErrAccess = errors.New("tinyrel: access error")

	// ErrNotImplemented: a query shape the planner does not support.
	ErrNotImplemented = errors.New("tinyrel: not implemented")
)
