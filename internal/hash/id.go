package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string. Used as the fast-path key
// in catalog.NameIndex for group/variable/attribute path lookups, before
// falling back to an exact-name map on collision.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}
