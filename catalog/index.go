package catalog

import (
	"strings"

	"github.com/bpio-project/bpio/internal/collision"
	"github.com/bpio-project/bpio/internal/hash"
)

// NameIndex holds hash-indexed and, on collision, exact-name lookups for a
// set of records keyed by path, generic over the record type (variable or
// attribute records). Adapted from the teacher's blob.indexMaps[T]: the
// common case (no hash collision) resolves a lookup with one hash and one
// map read; a genuine collision (vanishingly rare for real paths) falls
// back to an exact map, exactly as mebo does for metric names.
type NameIndex[T any] struct {
	byHash map[uint64]T
	byName map[string]T // nil unless a collision was observed while building
	byID   map[uint32]T
	order  []string // normalized names, insertion order
}

// NewNameIndex creates an empty NameIndex.
func NewNameIndex[T any]() *NameIndex[T] {
	return &NameIndex[T]{
		byHash: make(map[uint64]T),
		byID:   make(map[uint32]T),
	}
}

// normalizeName implements the §3 "names stored with a leading /, lookups
// accept either form" invariant and the reference reader's vstartpos/
// fstartpos-style prefix tolerance (common_read_find_var): the canonical,
// hashed form always carries a leading slash.
func normalizeName(name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}

	return "/" + name
}

// Add registers a record under id and name. Collisions in the path hash
// (distinct names hashing identically) are tracked via internal/collision
// and degrade the index to an exact map for every entry added so far and
// hereafter, matching the teacher's degrade-on-collision strategy.
func (idx *NameIndex[T]) Add(id uint32, name string, record T, tracker *collision.Tracker) error {
	norm := normalizeName(name)
	h := hash.ID(norm)

	if err := tracker.Track(norm, h); err != nil {
		return err
	}

	if tracker.HasCollision() && idx.byName == nil {
		idx.byName = make(map[string]T, len(idx.byHash))
		for _, n := range idx.order {
			idx.byName[n] = idx.byHash[hash.ID(n)]
		}
	}

	idx.byHash[h] = record
	idx.byID[id] = record
	idx.order = append(idx.order, norm)

	if idx.byName != nil {
		idx.byName[norm] = record
	}

	return nil
}

// Find looks up a record by name, tolerant of a missing or present leading
// slash, matching the §3 name-normalization invariant.
func (idx *NameIndex[T]) Find(name string) (T, bool) {
	norm := normalizeName(name)

	if idx.byName != nil {
		record, ok := idx.byName[norm]
		return record, ok
	}

	record, ok := idx.byHash[hash.ID(norm)]

	return record, ok
}

// FindByID looks up a record by its numeric id.
func (idx *NameIndex[T]) FindByID(id uint32) (T, bool) {
	record, ok := idx.byID[id]
	return record, ok
}

// Names returns the normalized names of every record, in insertion order.
func (idx *NameIndex[T]) Names() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)

	return out
}

// Len returns the number of records in the index.
func (idx *NameIndex[T]) Len() int {
	return len(idx.order)
}
