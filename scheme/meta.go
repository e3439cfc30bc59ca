package scheme

import "github.com/arloliu/recfmt/format"

// Meta-field accessors over a packed value. All of them index the fixed
// region at offsets precomputed by Validate, so they are O(1). TimestampOf
// takes its offset from the timestamp field's descriptor; the others use the
// scheme's Offset fields.

// FlagsOf reads the record state byte of a packed value.
func (s *Scheme) FlagsOf(data []byte) format.Flags {
	return format.Flags(data[s.OffsetFlags])
}

// SetFlags writes the record state byte of a packed value in place.
func (s *Scheme) SetFlags(data []byte, flags format.Flags) {
	data[s.OffsetFlags] = byte(flags)
}

// LSNOf reads the log sequence number of a packed value.
func (s *Scheme) LSNOf(data []byte) uint64 {
	return native.Uint64(data[s.OffsetLSN:])
}

// SetLSN writes the log sequence number of a packed value in place.
func (s *Scheme) SetLSN(data []byte, lsn uint64) {
	native.PutUint64(data[s.OffsetLSN:], lsn)
}

// TimestampOf reads the write timestamp of a packed value. The second result
// is false when the scheme declares no timestamp field.
func (s *Scheme) TimestampOf(data []byte) (uint32, bool) {
	if !s.HasTimestamp {
		return 0, false
	}
	f := s.Fields[s.timestampPos]

	return native.Uint32(data[f.FixedOffset:]), true
}

// ExpireOf reads the expiry timestamp of a packed value. The second result is
// false when the scheme declares no expire field.
func (s *Scheme) ExpireOf(data []byte) (uint32, bool) {
	if !s.HasExpire {
		return 0, false
	}

	return native.Uint32(data[s.OffsetExpire:]), true
}
