package scheme

import (
	"fmt"

	"github.com/arloliu/recfmt/errs"
	"github.com/arloliu/recfmt/format"
)

// Field describes one named, typed slot of a record layout.
//
// A field is created with NewField, configured through an options string, and
// becomes part of the layout when the owning scheme is validated. The options
// string is kept verbatim; it is tokenized during Scheme.Validate, so a
// malformed string surfaces as a validation error, not a construction error.
type Field struct {
	// Name is the unique, non-empty field identifier within a scheme.
	Name string
	// Options is the raw comma or space separated options string, e.g.
	// "u32,key(0)" or "string". It is parsed during scheme validation.
	Options string

	// Type is the storage type assigned by the options tokenizer.
	Type format.FieldType

	// Position is the 0-based ordinal in the scheme's field list.
	Position int
	// PositionRef is the ordinal among fixed-width fields for fixed fields,
	// or among variable-width fields for variable fields. It indexes the
	// per-record layout: fixed fields by offset, variable fields by the
	// offset-table slot.
	PositionRef int
	// PositionKey is the 0-based ordinal within the key vector, or -1 for
	// non-key fields.
	PositionKey int

	// FixedSize is the storage width in bytes, 0 for variable-width fields.
	FixedSize int
	// FixedOffset is the byte offset from the start of the fixed region.
	// Meaningful for fixed-width fields only.
	FixedOffset int

	// Role bits. At most one may be set.
	Key       bool
	LSN       bool
	Flags     bool
	Timestamp bool
	Expire    bool

	cmp CompareFunc
}

// NewField creates a field descriptor with the given name and options string.
// The options are validated later, by Scheme.Validate.
func NewField(name, options string) *Field {
	return &Field{
		Name:        name,
		Options:     options,
		PositionKey: -1,
	}
}

// Compare invokes the field's comparator on two field byte images.
// Only valid after the owning scheme has been validated.
func (f *Field) Compare(a, b []byte) int {
	return f.cmp(a, b)
}

// applyOption applies a single options-string token to the field.
func (f *Field) applyOption(token string) error {
	switch token {
	case "string":
		return f.setType(format.TypeString)
	case "string_rev":
		return f.setType(format.TypeStringRev)
	case "u8":
		return f.setType(format.TypeU8)
	case "u8_rev":
		return f.setType(format.TypeU8Rev)
	case "u16":
		return f.setType(format.TypeU16)
	case "u16_rev":
		return f.setType(format.TypeU16Rev)
	case "u32":
		return f.setType(format.TypeU32)
	case "u32_rev":
		return f.setType(format.TypeU32Rev)
	case "u64":
		return f.setType(format.TypeU64)
	case "u64_rev":
		return f.setType(format.TypeU64Rev)
	case "lsn":
		f.LSN = true
		return nil
	case "flags":
		f.Flags = true
		return nil
	case "timestamp":
		f.Timestamp = true
		return nil
	case "expire":
		f.Expire = true
		return nil
	}

	if len(token) >= 3 && token[:3] == "key" {
		pos, err := parseKeyOption(token[3:])
		if err != nil {
			return err
		}
		f.Key = true
		f.PositionKey = pos

		return nil
	}

	return fmt.Errorf("%w: field '%s' option '%s'", errs.ErrUnknownOption, f.Name, token)
}

func (f *Field) setType(t format.FieldType) error {
	if f.Type != format.TypeUndef {
		return fmt.Errorf("%w: field '%s' declares more than one type", errs.ErrRoleConflict, f.Name)
	}
	f.Type = t
	f.FixedSize = t.FixedSize()
	f.cmp = compareFor(t)

	return nil
}

// parseKeyOption parses the "(N)" tail of a key(N) token.
func parseKeyOption(tail string) (int, error) {
	if len(tail) < 3 || tail[0] != '(' {
		return 0, errs.ErrBadKeyOption
	}

	pos := 0
	i := 1
	for ; i < len(tail) && tail[i] >= '0' && tail[i] <= '9'; i++ {
		pos = pos*10 + int(tail[i]-'0')
	}
	if i == 1 || i != len(tail)-1 || tail[i] != ')' {
		return 0, errs.ErrBadKeyOption
	}

	return pos, nil
}

// roleCount returns the number of role bits set on the field.
func (f *Field) roleCount() int {
	n := 0
	for _, set := range []bool{f.Key, f.LSN, f.Flags, f.Timestamp, f.Expire} {
		if set {
			n++
		}
	}

	return n
}
