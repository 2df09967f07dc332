// Package buffer implements the growable, aligned byte window with a read
// cursor described in §4.2: a contiguous region that supports absolute and
// relative seeks and a realloc that preserves no content (only the active
// window after a seek matters), 8-byte aligned so 64-bit offsets can be
// read directly without copying.
//
// Grounded on the teacher's internal/pool.ByteBuffer (a thin []byte wrapper
// with Grow/Reset/Slice), extended here with the read-cursor semantics
// (Seek/Advance/Remaining) that mebo's write-only buffer never needed,
// since bpio is a reader.
package buffer

import "fmt"

// Alignment is the byte alignment every reallocation rounds up to, so
// 64-bit fields can be read directly off the buffer without a copy.
const Alignment = 8

// Buffer is a contiguous byte region with a read cursor.
type Buffer struct {
	data []byte
	pos  int
}

// New creates an empty Buffer with capacity for at least size bytes.
func New(size int) *Buffer {
	return &Buffer{data: make([]byte, 0, alignUp(size))}
}

// Wrap creates a Buffer backed directly by data, with the cursor at 0.
// The caller must not mutate data concurrently with use of the Buffer.
func Wrap(data []byte) *Buffer {
	return &Buffer{data: data}
}

func alignUp(n int) int {
	if n%Alignment == 0 {
		return n
	}

	return n + (Alignment - n%Alignment)
}

// ReallocAligned grows the backing store to at least n bytes, rounded up to
// Alignment. It does not preserve existing content — only the active window
// set by a subsequent Seek matters, matching §4.2's "preserves no content"
// contract, which lets a File reuse one Buffer as read scratch across many
// positioned reads instead of allocating per read.
func (b *Buffer) ReallocAligned(n int) {
	aligned := alignUp(n)
	if cap(b.data) >= aligned {
		b.data = b.data[:aligned]
		b.pos = 0

		return
	}

	b.data = make([]byte, aligned)
	b.pos = 0
}

// Bytes returns the full backing slice (length set by the last
// ReallocAligned or Wrap call).
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the total length of the active window.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Pos returns the current cursor position.
func (b *Buffer) Pos() int {
	return b.pos
}

// Seek moves the cursor to an absolute offset.
func (b *Buffer) Seek(absolute int) error {
	if absolute < 0 || absolute > len(b.data) {
		return fmt.Errorf("buffer: seek %d out of range [0,%d]", absolute, len(b.data))
	}

	b.pos = absolute

	return nil
}

// Advance moves the cursor forward by n bytes (n may be negative).
func (b *Buffer) Advance(n int) error {
	return b.Seek(b.pos + n)
}

// Remaining returns the number of bytes between the cursor and the end of
// the active window.
func (b *Buffer) Remaining() int {
	return len(b.data) - b.pos
}

// Peek returns the n bytes starting at the cursor without moving it.
func (b *Buffer) Peek(n int) ([]byte, error) {
	if n < 0 || b.pos+n > len(b.data) {
		return nil, fmt.Errorf("buffer: peek %d bytes at pos %d exceeds length %d", n, b.pos, len(b.data))
	}

	return b.data[b.pos : b.pos+n], nil
}

// Take returns the n bytes starting at the cursor and advances past them.
func (b *Buffer) Take(n int) ([]byte, error) {
	s, err := b.Peek(n)
	if err != nil {
		return nil, err
	}

	b.pos += n

	return s, nil
}
