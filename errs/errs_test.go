package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLastErrorRoundTrip(t *testing.T) {
	ClearLast()
	require.NoError(t, LastError())

	SetLast(ErrFileOpen)
	require.ErrorIs(t, LastError(), ErrFileOpen)

	ClearLast()
	require.NoError(t, LastError())
}

func TestWrapRecordsAndReturns(t *testing.T) {
	ClearLast()

	got := Wrap(ErrClosed)
	require.ErrorIs(t, got, ErrClosed)
	require.ErrorIs(t, LastError(), ErrClosed)
}

func TestWrapNilDoesNotTouchLastError(t *testing.T) {
	ClearLast()
	SetLast(ErrClosed)

	require.NoError(t, Wrap(nil))
	require.ErrorIs(t, LastError(), ErrClosed)
}

func TestWrapfFormatsAndWraps(t *testing.T) {
	ClearLast()

	err := Wrapf(ErrCorruptedFooter, "section %d at offset %d", 2, 128)
	require.ErrorIs(t, err, ErrCorruptedFooter)
	require.Contains(t, err.Error(), "section 2 at offset 128")
	require.ErrorIs(t, LastError(), err)
}

func TestWrapfUnwrapsToKind(t *testing.T) {
	err := Wrapf(ErrInvalidVarID, "id %d", 7)
	require.True(t, errors.Is(err, ErrInvalidVarID))
}
