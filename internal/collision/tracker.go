// Package collision detects hash collisions while building a name index,
// adapted from the teacher's internal/collision.Tracker (used there while
// encoding metric names into a blob). bpio uses it while parsing the
// footer's variable/attribute index sections: group/variable/attribute
// paths are hashed for O(1) lookup (internal/hash.ID), and this tracker
// flags the rare case of two distinct paths sharing a hash so
// catalog.NameIndex knows to fall back to an exact-name map instead of
// trusting the hash alone.
package collision

import "github.com/bpio-project/bpio/errs"

// Tracker tracks names and detects hash collisions while an index section
// is being parsed.
type Tracker struct {
	names        map[uint64]string // hash -> name, for collision detection
	namesList    []string          // ordered list, parse order
	hasCollision bool
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		names:     make(map[uint64]string),
		namesList: make([]string, 0),
	}
}

// Track records name under hash. Returns an error only for an empty name or
// for an exact duplicate (same name, same hash) seen twice, which signals a
// corrupted index; a genuine collision (different names, same hash) sets the
// collision flag but is not itself an error.
func (t *Tracker) Track(name string, hash uint64) error {
	if name == "" {
		return errs.ErrInvalidVarName
	}

	if existing, exists := t.names[hash]; exists {
		if existing == name {
			return errs.ErrCorruptedVariable
		}

		t.hasCollision = true
	}

	t.names[hash] = name
	t.namesList = append(t.namesList, name)

	return nil
}

// HasCollision reports whether a hash collision was observed.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the ordered list of tracked names.
func (t *Tracker) Names() []string {
	return t.namesList
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.namesList)
}
