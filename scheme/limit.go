package scheme

import (
	"math"

	"github.com/arloliu/recfmt/format"
)

// Default field size bounds.
const (
	// DefaultStringMaxSize bounds variable-width key fields.
	DefaultStringMaxSize = 1024
	// DefaultFieldMaxSize bounds variable-width non-key fields.
	DefaultFieldMaxSize = 2 * 1024 * 1024
)

// Limit bounds field sizes and supplies the min/max sentinel values used to
// complete partially-specified search keys.
type Limit struct {
	// StringMaxSize is the size bound for variable-width key fields.
	StringMaxSize int
	// FieldMaxSize is the size bound for variable-width non-key fields.
	FieldMaxSize int

	u16Min, u16Max       []byte
	u32Min, u32Max       []byte
	u64Min, u64Max       []byte
	u8Min, u8Max         []byte
	stringMin, stringMax []byte
}

// NewLimit creates a Limit with the given bounds. The string sentinels are
// sized by stringMaxSize: the maximum string key is stringMaxSize bytes of
// 0xff, the minimum is empty.
func NewLimit(stringMaxSize, fieldMaxSize int) *Limit {
	l := &Limit{
		StringMaxSize: stringMaxSize,
		FieldMaxSize:  fieldMaxSize,
		u8Min:         []byte{0},
		u8Max:         []byte{math.MaxUint8},
		u16Min:        make([]byte, 2),
		u32Min:        make([]byte, 4),
		u64Min:        make([]byte, 8),
		stringMin:     []byte{},
	}
	l.u16Max = native.AppendUint16(nil, math.MaxUint16)
	l.u32Max = native.AppendUint32(nil, math.MaxUint32)
	l.u64Max = native.AppendUint64(nil, math.MaxUint64)

	l.stringMax = make([]byte, stringMaxSize)
	for i := range l.stringMax {
		l.stringMax[i] = 0xff
	}

	return l
}

// DefaultLimit creates a Limit with the default bounds.
func DefaultLimit() *Limit {
	return NewLimit(DefaultStringMaxSize, DefaultFieldMaxSize)
}

// MaxSizeOf returns the size bound for a field: its fixed width when it has
// one, otherwise the key or non-key variable bound.
func (l *Limit) MaxSizeOf(f *Field) int {
	if f.FixedSize > 0 {
		return f.FixedSize
	}
	if f.Key {
		return l.StringMaxSize
	}

	return l.FieldMaxSize
}

// Apply fills every unset slot of a fields table with the min or max sentinel
// for its type, chosen by the requested iteration order: backward orders take
// the maximum, all others the minimum. Reverse-ordered types take the
// opposite sentinel, so the fill always lands on the order's extreme end.
func (l *Limit) Apply(s *Scheme, fields []FieldValue, order format.Order) {
	useMax := order.Backward()
	for _, f := range s.Fields {
		fv := &fields[f.Position]
		if fv.IsSet() {
			continue
		}
		fv.Set(l.sentinel(f.Type, useMax != f.Type.IsReverse()))
	}
}

// sentinel returns the min or max byte image for a field type.
func (l *Limit) sentinel(t format.FieldType, useMax bool) []byte {
	switch t {
	case format.TypeU8, format.TypeU8Rev:
		return pick(useMax, l.u8Max, l.u8Min)
	case format.TypeU16, format.TypeU16Rev:
		return pick(useMax, l.u16Max, l.u16Min)
	case format.TypeU32, format.TypeU32Rev:
		return pick(useMax, l.u32Max, l.u32Min)
	case format.TypeU64, format.TypeU64Rev:
		return pick(useMax, l.u64Max, l.u64Min)
	default:
		return pick(useMax, l.stringMax, l.stringMin)
	}
}

func pick(useMax bool, maxv, minv []byte) []byte {
	if useMax {
		return maxv
	}

	return minv
}
