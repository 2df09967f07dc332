// Package errs defines the typed error taxonomy used across bpio and a
// process-wide "last error" accessor mirroring the original adios_errno /
// adios_get_last_errmsg convention.
//
// Open, Inquire/InquireByID, Read/ReadByID and GetAttribute/GetAttributeByID
// clear the slot on entry; OpenGroup and OpenGroupByID do not. A failure is
// recorded in the slot only when its error passes through Wrap or Wrapf;
// unknown group/variable/attribute names or ids and closed-handle errors are
// returned without being recorded. The returned error remains the
// authoritative signal; the slot is a convenience for callers coming from
// that convention.
package errs

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNoMemory = errors.New("bpio: allocation failed")

	ErrFileOpen           = errors.New("bpio: failed to open file")
	ErrCorruptedFooter    = errors.New("bpio: corrupted footer")
	ErrCorruptedVariable  = errors.New("bpio: corrupted variable index")
	ErrCorruptedAttribute = errors.New("bpio: corrupted attribute index")

	ErrInvalidGroup       = errors.New("bpio: invalid group name")
	ErrInvalidGroupStruct = errors.New("bpio: invalid group handle")
	ErrInvalidVarName     = errors.New("bpio: invalid variable name")
	ErrInvalidVarID       = errors.New("bpio: invalid variable id")
	ErrInvalidAttrName    = errors.New("bpio: invalid attribute name")
	ErrInvalidAttrID      = errors.New("bpio: invalid attribute id")

	ErrInvalidAttributeReference = errors.New("bpio: attribute references a nonexistent or unsupported variable")
	ErrNoDataAtTimestep          = errors.New("bpio: variable has no block at requested time step")
	ErrOutOfBound                = errors.New("bpio: requested slab exceeds global bounds")

	ErrInvalidMinifooter  = errors.New("bpio: invalid minifooter")
	ErrInvalidIndexLength = errors.New("bpio: invalid index section length")
	ErrUnknownTypeTag     = errors.New("bpio: unknown type tag")
	ErrClosed             = errors.New("bpio: handle already closed")
	ErrTruncatedRecord    = errors.New("bpio: truncated record")
)

var (
	mu        sync.Mutex
	lastError error
)

// SetLast records err as the process-wide last error. A nil err clears the slot.
func SetLast(err error) {
	mu.Lock()
	lastError = err
	mu.Unlock()
}

// ClearLast clears the process-wide last error. Called on entry by Open,
// Inquire/InquireByID, Read/ReadByID and GetAttribute/GetAttributeByID.
func ClearLast() {
	SetLast(nil)
}

// LastError returns the most recently recorded error, or nil if none (or if
// cleared since). This is a convenience accessor; callers should prefer the
// error value returned directly from the call that failed.
func LastError() error {
	mu.Lock()
	defer mu.Unlock()

	return lastError
}

// Wrap records err as the last error (if non-nil) and returns it unchanged,
// so call sites can do `return errs.Wrap(err)` at a failure point.
func Wrap(err error) error {
	if err != nil {
		SetLast(err)
	}

	return err
}

// Wrapf records and returns a wrapped error built from format and args, with
// the final arg conventionally the underlying cause for %w.
func Wrapf(kind error, format string, args ...any) error {
	err := fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
	SetLast(err)

	return err
}
