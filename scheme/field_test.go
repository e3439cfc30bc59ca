package scheme

import (
	"testing"

	"github.com/arloliu/recfmt/errs"
	"github.com/arloliu/recfmt/format"
	"github.com/stretchr/testify/require"
)

func TestFieldApplyOptionTypes(t *testing.T) {
	tests := []struct {
		token string
		typ   format.FieldType
		fixed int
	}{
		{"string", format.TypeString, 0},
		{"string_rev", format.TypeStringRev, 0},
		{"u8", format.TypeU8, 1},
		{"u8_rev", format.TypeU8Rev, 1},
		{"u16", format.TypeU16, 2},
		{"u16_rev", format.TypeU16Rev, 2},
		{"u32", format.TypeU32, 4},
		{"u32_rev", format.TypeU32Rev, 4},
		{"u64", format.TypeU64, 8},
		{"u64_rev", format.TypeU64Rev, 8},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			f := NewField("f", tt.token)
			require.NoError(t, f.applyOption(tt.token))
			require.Equal(t, tt.typ, f.Type)
			require.Equal(t, tt.fixed, f.FixedSize)
			require.NotNil(t, f.cmp)
		})
	}
}

func TestFieldApplyOptionKey(t *testing.T) {
	f := NewField("f", "")
	require.NoError(t, f.applyOption("key(3)"))
	require.True(t, f.Key)
	require.Equal(t, 3, f.PositionKey)

	// Multi-digit positions
	f = NewField("f", "")
	require.NoError(t, f.applyOption("key(12)"))
	require.Equal(t, 12, f.PositionKey)
}

func TestFieldApplyOptionKeyMalformed(t *testing.T) {
	malformed := []string{"key", "key(", "key)", "key()", "key(x)", "key(1", "key(1)x", "key(-1)"}
	for _, token := range malformed {
		f := NewField("f", "")
		err := f.applyOption(token)
		require.ErrorIs(t, err, errs.ErrBadKeyOption, "token %q", token)
		require.False(t, f.Key, "token %q", token)
	}
}

func TestFieldApplyOptionRoles(t *testing.T) {
	for _, role := range []string{"lsn", "flags", "timestamp", "expire"} {
		f := NewField("f", "")
		require.NoError(t, f.applyOption(role))
		require.Equal(t, 1, f.roleCount(), "role %q", role)
	}
}

func TestFieldApplyOptionUnknown(t *testing.T) {
	f := NewField("f", "")
	require.ErrorIs(t, f.applyOption("float"), errs.ErrUnknownOption)
	require.ErrorIs(t, f.applyOption("STRING"), errs.ErrUnknownOption)
	require.ErrorIs(t, f.applyOption("u128"), errs.ErrUnknownOption)
}

func TestFieldDuplicateType(t *testing.T) {
	f := NewField("f", "")
	require.NoError(t, f.applyOption("u32"))
	require.ErrorIs(t, f.applyOption("string"), errs.ErrRoleConflict)
}

func TestTokens(t *testing.T) {
	collect := func(options string) []string {
		var out []string
		for token := range tokens(options) {
			out = append(out, token)
		}

		return out
	}

	require.Equal(t, []string{"u32", "key(0)"}, collect("u32,key(0)"))
	require.Equal(t, []string{"u32", "key(0)"}, collect("u32 key(0)"))
	require.Equal(t, []string{"u32", "key(0)"}, collect(" u32,  key(0) "))
	require.Equal(t, []string{"string"}, collect("string"))
	require.Empty(t, collect(""))
	require.Empty(t, collect(" ,, "))
}
