package scheme

import (
	"github.com/arloliu/recfmt/errs"
	"github.com/arloliu/recfmt/format"
)

// FieldValue is one pending-assignment slot of a document's fields table.
//
// A slot either borrows caller-supplied bytes or stores a small integer
// inline; either way Bytes() yields the field image the packed-value builder
// copies. The zero value is an unset slot.
type FieldValue struct {
	data []byte
	num  [8]byte
}

// IsSet reports whether the slot holds a value.
func (fv *FieldValue) IsSet() bool {
	return fv.data != nil
}

// Set borrows the given bytes as the slot's value. The bytes must stay valid
// until the document is committed; the packed value carries a fresh copy.
func (fv *FieldValue) Set(data []byte) {
	fv.data = data
}

// SetNumeric stores an integer inline, sized by the field type's width.
// The slot's byte view aliases the inline storage, so the packed-value build
// handles numeric and borrowed slots uniformly.
func (fv *FieldValue) SetNumeric(t format.FieldType, num uint64) {
	size := t.FixedSize()
	switch size {
	case 1:
		fv.num[0] = byte(num)
	case 2:
		native.PutUint16(fv.num[:2], uint16(num))
	case 4:
		native.PutUint32(fv.num[:4], uint32(num))
	default:
		native.PutUint64(fv.num[:8], num)
	}
	fv.data = fv.num[:size]
}

// Bytes returns the slot's field image, nil when unset.
func (fv *FieldValue) Bytes() []byte {
	return fv.data
}

// Size returns the byte length of the slot's value.
func (fv *FieldValue) Size() int {
	return len(fv.data)
}

// Reset clears the slot.
func (fv *FieldValue) Reset() {
	fv.data = nil
}

// varSlotSize is the width of one (offset, size) entry in a packed value's
// variable-region table.
const varSlotSize = 8

// ValueSize returns the packed size of a record built from the fields table.
func (s *Scheme) ValueSize(fields []FieldValue) int {
	size := s.VarOffset + s.VarCount*varSlotSize
	for _, f := range s.Fields {
		if f.FixedSize == 0 {
			size += fields[f.Position].Size()
		}
	}

	return size
}

// BuildValue assembles the packed byte representation of a record from a
// fields table: the fixed region at the scheme's precomputed offsets, then
// the variable-region offset table, then the variable payloads in field
// declaration order. Unset fixed slots stay zero; unset variable slots get a
// zero-length entry.
//
// The returned buffer is freshly allocated; borrowed slot bytes may be
// invalidated afterwards.
func (s *Scheme) BuildValue(fields []FieldValue) ([]byte, error) {
	if !s.validated {
		return nil, errs.ErrSchemeNotValidated
	}
	if len(fields) < len(s.Fields) {
		return nil, errs.ErrFieldPosition
	}

	data := make([]byte, s.ValueSize(fields))
	varOffset := s.VarOffset + s.VarCount*varSlotSize
	for _, f := range s.Fields {
		fv := &fields[f.Position]
		if f.FixedSize > 0 {
			copy(data[f.FixedOffset:f.FixedOffset+f.FixedSize], fv.Bytes())
			continue
		}

		slot := s.VarOffset + f.PositionRef*varSlotSize
		native.PutUint32(data[slot:], uint32(varOffset))
		native.PutUint32(data[slot+4:], uint32(fv.Size()))
		copy(data[varOffset:], fv.Bytes())
		varOffset += fv.Size()
	}

	return data, nil
}

// BuildRawValue adopts a prebuilt packed blob by copying it. The blob is only
// checked for the minimum structural length; its content is trusted.
func (s *Scheme) BuildRawValue(raw []byte) ([]byte, error) {
	if !s.validated {
		return nil, errs.ErrSchemeNotValidated
	}
	if len(raw) < s.VarOffset+s.VarCount*varSlotSize {
		return nil, errs.ErrCorruptValue
	}

	data := make([]byte, len(raw))
	copy(data, raw)

	return data, nil
}

// FieldBytes returns the byte image of field f within a packed value:
// fixed-width fields at their fixed offset, variable fields through the
// offset-table slot at their reference position.
func (s *Scheme) FieldBytes(f *Field, data []byte) []byte {
	if f.FixedSize > 0 {
		return data[f.FixedOffset : f.FixedOffset+f.FixedSize]
	}

	slot := s.VarOffset + f.PositionRef*varSlotSize
	offset := native.Uint32(data[slot:])
	size := native.Uint32(data[slot+4:])

	return data[offset : offset+size]
}

// FieldBytesAt is FieldBytes by field position.
func (s *Scheme) FieldBytesAt(pos int, data []byte) ([]byte, error) {
	f := s.FieldAt(pos)
	if f == nil {
		return nil, errs.ErrFieldPosition
	}

	return s.FieldBytes(f, data), nil
}

// AutoSet writes the engine-assigned timestamp into the timestamp slot of a
// fields table. It reports whether the slot was previously unset, so callers
// can maintain their populated-slot counters.
func (s *Scheme) AutoSet(fields []FieldValue, timestamp uint32) bool {
	if s.timestampPos < 0 {
		return false
	}

	fv := &fields[s.timestampPos]
	wasSet := fv.IsSet()
	fv.SetNumeric(format.TypeU32, uint64(timestamp))

	return !wasSet
}
