package format

// FieldType enumerates the storage types a field may declare.
//
// Every type exists in a natural and a reverse-ordered variant. The reverse
// variants are byte-identical in storage; only the comparison result is
// negated.
type FieldType uint8

const (
	TypeUndef     FieldType = 0    // TypeUndef marks an unconfigured field.
	TypeString    FieldType = 0x10 // TypeString is a variable-length opaque byte string.
	TypeStringRev FieldType = 0x11 // TypeStringRev is TypeString with reversed ordering.
	TypeU8        FieldType = 0x20 // TypeU8 is an unsigned 8-bit integer.
	TypeU8Rev     FieldType = 0x21 // TypeU8Rev is TypeU8 with reversed ordering.
	TypeU16       FieldType = 0x30 // TypeU16 is an unsigned 16-bit integer.
	TypeU16Rev    FieldType = 0x31 // TypeU16Rev is TypeU16 with reversed ordering.
	TypeU32       FieldType = 0x40 // TypeU32 is an unsigned 32-bit integer.
	TypeU32Rev    FieldType = 0x41 // TypeU32Rev is TypeU32 with reversed ordering.
	TypeU64       FieldType = 0x50 // TypeU64 is an unsigned 64-bit integer.
	TypeU64Rev    FieldType = 0x51 // TypeU64Rev is TypeU64 with reversed ordering.
)

// FixedSize returns the storage width in bytes for fixed-width types,
// or 0 for variable-length types.
func (t FieldType) FixedSize() int {
	switch t {
	case TypeU8, TypeU8Rev:
		return 1
	case TypeU16, TypeU16Rev:
		return 2
	case TypeU32, TypeU32Rev:
		return 4
	case TypeU64, TypeU64Rev:
		return 8
	default:
		return 0
	}
}

// IsString reports whether the type is a string type, natural or reversed.
func (t FieldType) IsString() bool {
	return t == TypeString || t == TypeStringRev
}

// IsNumeric reports whether the type is a fixed-width integer type.
func (t FieldType) IsNumeric() bool {
	return t.FixedSize() > 0
}

// IsReverse reports whether the type is a reverse-ordered variant.
func (t FieldType) IsReverse() bool {
	return t != TypeUndef && t&0x01 != 0
}

func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeStringRev:
		return "string_rev"
	case TypeU8:
		return "u8"
	case TypeU8Rev:
		return "u8_rev"
	case TypeU16:
		return "u16"
	case TypeU16Rev:
		return "u16_rev"
	case TypeU32:
		return "u32"
	case TypeU32Rev:
		return "u32_rev"
	case TypeU64:
		return "u64"
	case TypeU64Rev:
		return "u64_rev"
	default:
		return "undef"
	}
}

// Order is the requested iteration direction or equality mode of a document.
type Order uint8

const (
	OrderLT     Order = iota // OrderLT iterates strictly before the key.
	OrderLTE                 // OrderLTE iterates from the key backwards, inclusive.
	OrderGT                  // OrderGT iterates strictly after the key.
	OrderGTE                 // OrderGTE iterates from the key forwards, inclusive.
	OrderEQ                  // OrderEQ is an exact match. Default for documents.
	OrderRandom              // OrderRandom picks a pseudo-random record.
	OrderStop                // OrderStop marks an unparseable order name.
)

// ParseOrder resolves an ordering name. Both the symbolic ("<", "<=", ">",
// ">=") and the word ("lt", "lte", "gt", "gte", "eq", "random") spellings are
// accepted. OrderStop is returned for anything else.
func ParseOrder(name string) Order {
	switch name {
	case "<", "lt":
		return OrderLT
	case "<=", "lte":
		return OrderLTE
	case ">", "gt":
		return OrderGT
	case ">=", "gte":
		return OrderGTE
	case "eq":
		return OrderEQ
	case "random":
		return OrderRandom
	default:
		return OrderStop
	}
}

// Backward reports whether the order iterates towards smaller keys.
func (o Order) Backward() bool {
	return o == OrderLT || o == OrderLTE
}

// String returns the canonical order name, the symbolic form where one exists.
func (o Order) String() string {
	switch o {
	case OrderLT:
		return "<"
	case OrderLTE:
		return "<="
	case OrderGT:
		return ">"
	case OrderGTE:
		return ">="
	case OrderEQ:
		return "eq"
	case OrderRandom:
		return "random"
	default:
		return "stop"
	}
}

// Flags is the record state byte stored in the packed value's flags field.
type Flags uint8

const (
	FlagNone   Flags = 0x00 // FlagNone marks a plain replace record.
	FlagDelete Flags = 0x01 // FlagDelete marks a tombstone.
	FlagUpsert Flags = 0x02 // FlagUpsert marks an upsert record.
	FlagGet    Flags = 0x04 // FlagGet marks a search key built for reads and cursors.
	FlagDup    Flags = 0x08 // FlagDup marks a duplicate within a write batch.
)

// Has reports whether all bits of mask are set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}
