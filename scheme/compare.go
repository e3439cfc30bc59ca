package scheme

import (
	"bytes"

	"github.com/arloliu/recfmt/endian"
	"github.com/arloliu/recfmt/format"
)

// native is the byte order the record format stores integers in. The format
// makes no cross-endian portability promise, so comparators decode with the
// producing host's own order.
var native = endian.GetNativeEngine()

// CompareFunc is a total-order comparison over two field byte images.
// It returns -1, 0 or +1.
type CompareFunc func(a, b []byte) int

// CompareString orders opaque byte strings: memcmp over the common length,
// shorter-is-less on a tie.
func CompareString(a, b []byte) int {
	size := min(len(a), len(b))
	rc := bytes.Compare(a[:size], b[:size])
	if rc == 0 {
		if len(a) == len(b) {
			return 0
		}
		if len(a) < len(b) {
			return -1
		}

		return 1
	}

	return rc
}

// CompareStringRev is the reversed string order. The length tie-break is
// inverted together with the byte comparison; existing on-disk indexes depend
// on exactly this order, so it must not be normalized.
func CompareStringRev(a, b []byte) int {
	size := min(len(a), len(b))
	rc := bytes.Compare(a[:size], b[:size])
	if rc == 0 {
		if len(a) == len(b) {
			return 0
		}
		if len(a) < len(b) {
			return 1
		}

		return -1
	}

	return -rc
}

// CompareU8 orders unsigned 8-bit integer fields numerically.
func CompareU8(a, b []byte) int {
	return compareUint(uint64(a[0]), uint64(b[0]))
}

// CompareU16 orders unsigned 16-bit integer fields numerically.
func CompareU16(a, b []byte) int {
	return compareUint(uint64(native.Uint16(a)), uint64(native.Uint16(b)))
}

// CompareU32 orders unsigned 32-bit integer fields numerically.
func CompareU32(a, b []byte) int {
	return compareUint(uint64(native.Uint32(a)), uint64(native.Uint32(b)))
}

// CompareU64 orders unsigned 64-bit integer fields numerically.
func CompareU64(a, b []byte) int {
	return compareUint(native.Uint64(a), native.Uint64(b))
}

func compareUint(av, bv uint64) int {
	switch {
	case av == bv:
		return 0
	case av > bv:
		return 1
	default:
		return -1
	}
}

// Reverse wraps a comparator, negating every non-zero result.
func Reverse(cmp CompareFunc) CompareFunc {
	return func(a, b []byte) int {
		return -cmp(a, b)
	}
}

// compareFor returns the comparator assigned to a field type.
func compareFor(t format.FieldType) CompareFunc {
	switch t {
	case format.TypeString:
		return CompareString
	case format.TypeStringRev:
		return CompareStringRev
	case format.TypeU8:
		return CompareU8
	case format.TypeU8Rev:
		return Reverse(CompareU8)
	case format.TypeU16:
		return CompareU16
	case format.TypeU16Rev:
		return Reverse(CompareU16)
	case format.TypeU32:
		return CompareU32
	case format.TypeU32Rev:
		return Reverse(CompareU32)
	case format.TypeU64:
		return CompareU64
	case format.TypeU64Rev:
		return Reverse(CompareU64)
	default:
		return nil
	}
}

// Compare orders two packed values by the scheme's key vector. Key fields are
// compared in key-position order; the first non-zero comparison decides.
func (s *Scheme) Compare(a, b []byte) int {
	for _, key := range s.Keys {
		rc := key.cmp(s.FieldBytes(key, a), s.FieldBytes(key, b))
		if rc != 0 {
			return rc
		}
	}

	return 0
}

// ComparePrefix reports whether the leading bytes of field 0 in the packed
// value key match prefix. A stored key shorter than the prefix never matches.
//
// Prefix matching is meaningful only when field 0 is a string type; callers
// enforce that before building the search key.
func (s *Scheme) ComparePrefix(prefix, key []byte) bool {
	kf := s.FieldBytes(s.Fields[0], key)
	if len(kf) < len(prefix) {
		return false
	}

	return bytes.Equal(kf[:len(prefix)], prefix)
}
