// Package attr resolves attribute values (§4.7): either copying an inline
// value straight out, or dereferencing a variable-reference attribute,
// including the 1-D byte-array-to-string conversion with language-ordering
// awareness recovered from original_source/src/common_read.c's
// common_read_get_attr.
package attr

import (
	"bytes"
	"fmt"

	"github.com/bpio-project/bpio/catalog"
	"github.com/bpio-project/bpio/errs"
	"github.com/bpio-project/bpio/wire"
)

// VariableLookup finds the variable a reference attribute points at: by
// (id, path) first, falling back to id alone, matching the reference
// reader's common_read_get_attr_byid lookup order.
type VariableLookup interface {
	FindVariableByIDAndPath(id uint32, path string) (catalog.VariableIndexRecord, bool)
	FindVariableByID(id uint32) (catalog.VariableIndexRecord, bool)
}

// Resolve returns (type, size, bytes) for attr, per §4.7.
func Resolve(attr catalog.AttributeIndexRecord, lookup VariableLookup, columnMajor bool) (wire.TypeTag, int, []byte, error) {
	if attr.Inline {
		out := append([]byte(nil), attr.Value...)
		return attr.Type, len(out), out, nil
	}

	v, ok := lookup.FindVariableByIDAndPath(attr.RefVarID, attr.RefVarPath)
	if !ok {
		v, ok = lookup.FindVariableByID(attr.RefVarID)
	}
	if !ok || len(v.Characteristics) == 0 {
		return wire.TypeUnknown, 0, nil, fmt.Errorf("%w: attribute %q references variable id %d", errs.ErrInvalidAttributeReference, attr.AttrPath, attr.RefVarID)
	}

	ch := v.Characteristics[0]

	// Rule 1: a 1-D byte array referenced as a string/unknown attribute is
	// reinterpreted as text (§4.7 rule 1).
	if len(ch.Dims) == 1 && v.Type.IsByteType() && (attr.Type == wire.TypeString || attr.Type == wire.TypeUnknown) {
		s := resolveByteArrayAsString(ch.Value, columnMajor)
		return wire.TypeString, len(s), s, nil
	}

	// Rule 2: any other shape inherits the variable's type and copies the
	// scalar value. A multi-dimensional non-byte variable referenced as an
	// attribute is rejected (§4.7 final paragraph).
	if len(ch.Dims) > 1 {
		return wire.TypeUnknown, 0, nil, fmt.Errorf("%w: attribute %q references multi-dimensional variable %q", errs.ErrInvalidAttributeReference, attr.AttrPath, v.VarPath)
	}

	out := append([]byte(nil), ch.Value...)

	return v.Type, len(out), out, nil
}

// resolveByteArrayAsString implements the Fortran-vs-C conversion rule from
// common_read_get_attr: column-major (Fortran) writers pad byte arrays with
// trailing spaces instead of a null terminator, so a column-major source
// has its trailing spaces trimmed and a terminator appended; a row-major
// source already carries (or is given) a terminator.
func resolveByteArrayAsString(value []byte, columnMajor bool) []byte {
	if columnMajor {
		trimmed := bytes.TrimRight(value, " ")
		out := make([]byte, len(trimmed)+1)
		copy(out, trimmed)

		return out
	}

	if i := bytes.IndexByte(value, 0); i >= 0 {
		return append([]byte(nil), value[:i+1]...)
	}

	out := make([]byte, len(value)+1)
	copy(out, value)

	return out
}
