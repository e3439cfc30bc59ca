package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldTypeFixedSize(t *testing.T) {
	require.Equal(t, 0, TypeString.FixedSize())
	require.Equal(t, 0, TypeStringRev.FixedSize())
	require.Equal(t, 1, TypeU8.FixedSize())
	require.Equal(t, 2, TypeU16Rev.FixedSize())
	require.Equal(t, 4, TypeU32.FixedSize())
	require.Equal(t, 8, TypeU64Rev.FixedSize())
	require.Equal(t, 0, TypeUndef.FixedSize())
}

func TestFieldTypePredicates(t *testing.T) {
	require.True(t, TypeString.IsString())
	require.True(t, TypeStringRev.IsString())
	require.False(t, TypeU8.IsString())

	require.True(t, TypeU64.IsNumeric())
	require.False(t, TypeString.IsNumeric())
	require.False(t, TypeUndef.IsNumeric())

	require.True(t, TypeU32Rev.IsReverse())
	require.True(t, TypeStringRev.IsReverse())
	require.False(t, TypeU32.IsReverse())
	require.False(t, TypeUndef.IsReverse())
}

func TestParseOrder(t *testing.T) {
	// Symbolic and word spellings resolve identically.
	require.Equal(t, OrderLT, ParseOrder("<"))
	require.Equal(t, OrderLT, ParseOrder("lt"))
	require.Equal(t, OrderLTE, ParseOrder("<="))
	require.Equal(t, OrderLTE, ParseOrder("lte"))
	require.Equal(t, OrderGT, ParseOrder(">"))
	require.Equal(t, OrderGT, ParseOrder("gt"))
	require.Equal(t, OrderGTE, ParseOrder(">="))
	require.Equal(t, OrderGTE, ParseOrder("gte"))
	require.Equal(t, OrderEQ, ParseOrder("eq"))
	require.Equal(t, OrderRandom, ParseOrder("random"))

	require.Equal(t, OrderStop, ParseOrder(""))
	require.Equal(t, OrderStop, ParseOrder("=>"))
	require.Equal(t, OrderStop, ParseOrder("GTE"))
}

func TestOrderRoundTrip(t *testing.T) {
	for _, o := range []Order{OrderLT, OrderLTE, OrderGT, OrderGTE, OrderEQ, OrderRandom} {
		require.Equal(t, o, ParseOrder(o.String()), "order %v", o)
	}
}

func TestOrderBackward(t *testing.T) {
	require.True(t, OrderLT.Backward())
	require.True(t, OrderLTE.Backward())
	require.False(t, OrderGT.Backward())
	require.False(t, OrderGTE.Backward())
	require.False(t, OrderEQ.Backward())
	require.False(t, OrderRandom.Backward())
}

func TestFlagsHas(t *testing.T) {
	f := FlagUpsert | FlagDup
	require.True(t, f.Has(FlagUpsert))
	require.True(t, f.Has(FlagDup))
	require.True(t, f.Has(FlagUpsert|FlagDup))
	require.False(t, f.Has(FlagDelete))
	require.False(t, f.Has(FlagGet))
}
