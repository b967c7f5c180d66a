// Package repository is the remote document store: gorm repositories for
// products, dietary profiles, saved recipes and users, each scoped to the
// owning user.
package repository

import "errors"

var (
	// ErrNotFound is returned when a document is absent or belongs to another user.
	ErrNotFound = errors.New("document not found")
	// ErrRevisionConflict is returned when a profile write was based on a
	// revision that is no longer current.
	ErrRevisionConflict = errors.New("document revision conflict")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("duplicate document")
)

// AnyRevision disables the revision check on profile upserts.
const AnyRevision int64 = -1
