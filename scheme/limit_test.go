package scheme

import (
	"math"
	"testing"

	"github.com/arloliu/recfmt/format"
	"github.com/stretchr/testify/require"
)

func TestLimitMaxSizeOf(t *testing.T) {
	l := NewLimit(64, 256)

	s := newTestScheme(t,
		NewField("k", "string,key(0)"),
		NewField("v", "string"),
		NewField("n", "u32"),
	)

	require.Equal(t, 64, l.MaxSizeOf(s.Find("k")))  // variable key
	require.Equal(t, 256, l.MaxSizeOf(s.Find("v"))) // variable non-key
	require.Equal(t, 4, l.MaxSizeOf(s.Find("n")))   // fixed width wins
}

func TestLimitApplyForward(t *testing.T) {
	l := DefaultLimit()
	s := newTestScheme(t,
		NewField("a", "u32,key(0)"),
		NewField("b", "string,key(1)"),
	)

	// Forward orders fill unset slots with minimums.
	for _, order := range []format.Order{format.OrderGT, format.OrderGTE, format.OrderEQ, format.OrderRandom} {
		fields := make([]FieldValue, s.FieldsCount())
		l.Apply(s, fields, order)

		require.Equal(t, uint32(0), native.Uint32(fields[0].Bytes()), "order %v", order)
		require.Empty(t, fields[1].Bytes(), "order %v", order)
		for i := range fields {
			require.True(t, fields[i].IsSet(), "order %v field %d", order, i)
		}
	}
}

func TestLimitApplyBackward(t *testing.T) {
	l := DefaultLimit()
	s := newTestScheme(t,
		NewField("a", "u32,key(0)"),
		NewField("b", "string,key(1)"),
	)

	// Backward orders fill unset slots with maximums.
	for _, order := range []format.Order{format.OrderLT, format.OrderLTE} {
		fields := make([]FieldValue, s.FieldsCount())
		l.Apply(s, fields, order)

		require.Equal(t, uint32(math.MaxUint32), native.Uint32(fields[0].Bytes()), "order %v", order)
		require.Len(t, fields[1].Bytes(), DefaultStringMaxSize, "order %v", order)
		require.Equal(t, byte(0xff), fields[1].Bytes()[0], "order %v", order)
	}
}

func TestLimitApplyReverseTypeSwapsSentinel(t *testing.T) {
	l := DefaultLimit()
	s := newTestScheme(t, NewField("a", "u32_rev,key(0)"))

	// For a reverse-ordered type the extreme ends swap: a forward scan
	// starts at the numeric maximum.
	fields := make([]FieldValue, s.FieldsCount())
	l.Apply(s, fields, format.OrderGTE)
	require.Equal(t, uint32(math.MaxUint32), native.Uint32(fields[0].Bytes()))

	fields = make([]FieldValue, s.FieldsCount())
	l.Apply(s, fields, format.OrderLTE)
	require.Equal(t, uint32(0), native.Uint32(fields[0].Bytes()))
}

func TestLimitApplyKeepsAssignedSlots(t *testing.T) {
	l := DefaultLimit()
	s := newTestScheme(t,
		NewField("a", "u32,key(0)"),
		NewField("b", "u32,key(1)"),
	)

	fields := make([]FieldValue, s.FieldsCount())
	fields[0].SetNumeric(format.TypeU32, 42)
	l.Apply(s, fields, format.OrderGTE)

	require.Equal(t, uint32(42), native.Uint32(fields[0].Bytes()))
	require.Equal(t, uint32(0), native.Uint32(fields[1].Bytes()))
}
