package scheme

import (
	"testing"

	"github.com/arloliu/recfmt/errs"
	"github.com/arloliu/recfmt/internal/pool"
	"github.com/stretchr/testify/require"
)

func TestSchemeSaveFormat(t *testing.T) {
	s := newTestScheme(t,
		NewField("id", "u32,key(0)"),
		NewField("name", "string"),
	)

	data, err := s.SaveBytes()
	require.NoError(t, err)

	// u32 count, then per field: u32 name length incl. NUL, name bytes with
	// trailing NUL, u32 options length incl. NUL, options bytes with
	// trailing NUL. Always little-endian; meta fields suppressed.
	want := []byte{
		0x02, 0x00, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00, 'i', 'd', 0x00,
		0x0a, 0x00, 0x00, 0x00, 'u', '3', '2', ',', 'k', 'e', 'y', '(', '0', ')', 0x00,
		0x05, 0x00, 0x00, 0x00, 'n', 'a', 'm', 'e', 0x00,
		0x07, 0x00, 0x00, 0x00, 's', 't', 'r', 'i', 'n', 'g', 0x00,
	}
	require.Equal(t, want, data)
}

func TestSchemeSaveUnvalidated(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(NewField("id", "u32,key(0)")))

	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)
	require.ErrorIs(t, s.Save(buf), errs.ErrSchemeNotValidated)
}

func TestSchemeLoadRoundTrip(t *testing.T) {
	orig := newTestScheme(t,
		NewField("bucket", "u16,key(0)"),
		NewField("name", "string,key(1)"),
		NewField("payload", "string"),
		NewField("ts", "u32,timestamp"),
	)

	data, err := orig.SaveBytes()
	require.NoError(t, err)

	loaded := New()
	require.NoError(t, loaded.Load(data))
	require.NoError(t, loaded.Validate())

	// The reloaded scheme is byte-equivalent to a fresh validation.
	reloaded, err := loaded.SaveBytes()
	require.NoError(t, err)
	require.Equal(t, data, reloaded)

	require.Equal(t, orig.FieldsCount(), loaded.FieldsCount())
	require.Equal(t, orig.KeysCount(), loaded.KeysCount())
	require.Equal(t, orig.VarOffset, loaded.VarOffset)
	require.Equal(t, orig.VarCount, loaded.VarCount)
	require.Equal(t, orig.OffsetFlags, loaded.OffsetFlags)
	require.Equal(t, orig.OffsetLSN, loaded.OffsetLSN)
	for i, f := range orig.Fields {
		require.Equal(t, f.Name, loaded.Fields[i].Name)
		require.Equal(t, f.Options, loaded.Fields[i].Options)
		require.Equal(t, f.Type, loaded.Fields[i].Type)
		require.Equal(t, f.FixedOffset, loaded.Fields[i].FixedOffset)
		require.Equal(t, f.PositionRef, loaded.Fields[i].PositionRef)
	}
}

func TestSchemeLoadCorrupt(t *testing.T) {
	s := newTestScheme(t, NewField("id", "u32,key(0)"))
	data, err := s.SaveBytes()
	require.NoError(t, err)

	// Truncations at every boundary fail cleanly.
	for size := range len(data) {
		loaded := New()
		require.ErrorIs(t, loaded.Load(data[:size]), errs.ErrCorruptScheme, "size %d", size)
	}

	// A missing NUL terminator is rejected.
	bad := append([]byte{}, data...)
	bad[4+4+2] = 'x' // overwrite the NUL after "id"
	loaded := New()
	require.ErrorIs(t, loaded.Load(bad), errs.ErrCorruptScheme)
}

func TestSchemeFingerprint(t *testing.T) {
	a := newTestScheme(t, NewField("id", "u32,key(0)"), NewField("name", "string"))
	b := newTestScheme(t, NewField("id", "u32,key(0)"), NewField("name", "string"))
	c := newTestScheme(t, NewField("id", "u64,key(0)"), NewField("name", "string"))

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	fc, err := c.Fingerprint()
	require.NoError(t, err)

	require.Equal(t, fa, fb)
	require.NotEqual(t, fa, fc)
}
