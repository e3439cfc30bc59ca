package scheme

import (
	"fmt"

	"github.com/arloliu/recfmt/endian"
	"github.com/arloliu/recfmt/errs"
	"github.com/arloliu/recfmt/internal/hash"
	"github.com/arloliu/recfmt/internal/pool"
)

// The serialized scheme form is pinned little-endian regardless of the host:
// a u32 field count, then per field a u32 length-including-NUL and the name
// bytes with a trailing NUL, and the same pair for the options string. The
// engine-injected meta fields are suppressed; loading relies on Validate to
// reinstall them.
var wire = endian.GetLittleEndianEngine()

// Save serializes the user-declared fields of a validated scheme into buf.
func (s *Scheme) Save(buf *pool.ByteBuffer) error {
	if !s.validated {
		return errs.ErrSchemeNotValidated
	}

	count := len(s.Fields) - s.injected
	buf.B = wire.AppendUint32(buf.B, uint32(count))

	for _, f := range s.Fields[:count] {
		buf.B = wire.AppendUint32(buf.B, uint32(len(f.Name)+1))
		buf.MustWrite([]byte(f.Name))
		buf.B = append(buf.B, 0)

		buf.B = wire.AppendUint32(buf.B, uint32(len(f.Options)+1))
		buf.MustWrite([]byte(f.Options))
		buf.B = append(buf.B, 0)
	}

	return nil
}

// SaveBytes returns the serialized scheme as a fresh byte slice.
func (s *Scheme) SaveBytes() ([]byte, error) {
	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)

	if err := s.Save(buf); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// Load reconstructs fields from a serialized scheme and appends them to an
// empty, unvalidated scheme. The caller is expected to call Validate
// afterwards to reinstall the meta fields and compute the layout.
func (s *Scheme) Load(data []byte) error {
	if s.validated {
		return errs.ErrSchemeValidated
	}

	p := 0
	count, err := loadUint32(data, &p)
	if err != nil {
		return err
	}

	for range count {
		name, err := loadCString(data, &p)
		if err != nil {
			return err
		}
		options, err := loadCString(data, &p)
		if err != nil {
			return err
		}
		if err := s.Add(NewField(name, options)); err != nil {
			return err
		}
	}

	return nil
}

// Fingerprint returns the 64-bit hash of the serialized scheme form.
// Embedders use it to verify layout compatibility when reopening a database.
func (s *Scheme) Fingerprint() (uint64, error) {
	data, err := s.SaveBytes()
	if err != nil {
		return 0, err
	}

	return hash.Sum(data), nil
}

func loadUint32(data []byte, p *int) (uint32, error) {
	if *p+4 > len(data) {
		return 0, errs.ErrCorruptScheme
	}
	v := wire.Uint32(data[*p:])
	*p += 4

	return v, nil
}

// loadCString reads a u32 length-including-NUL prefix and the string bytes,
// verifying the trailing NUL.
func loadCString(data []byte, p *int) (string, error) {
	size, err := loadUint32(data, p)
	if err != nil {
		return "", err
	}
	if size == 0 || *p+int(size) > len(data) {
		return "", errs.ErrCorruptScheme
	}
	raw := data[*p : *p+int(size)]
	if raw[size-1] != 0 {
		return "", fmt.Errorf("%w: string is not NUL-terminated", errs.ErrCorruptScheme)
	}
	*p += int(size)

	return string(raw[:size-1]), nil
}
