package engine

import (
	"fmt"
	"slices"

	"github.com/arloliu/recfmt/endian"
	"github.com/arloliu/recfmt/errs"
	"github.com/arloliu/recfmt/format"
	"github.com/arloliu/recfmt/scheme"
)

// native decodes integer fields, which the format stores in the producing
// host's byte order.
var native = endian.GetNativeEngine()

// MaxFields is the pending-field capacity of a document. A scheme, meta
// fields included, must not declare more fields than this.
const MaxFields = 16

// Document is the pooled record builder and reader handed to embedders.
//
// A write-path document collects field assignments and is committed with
// Create, which materializes the packed value the storage layer indexes. A
// search document carries a key, a prefix, or an iteration order and is
// committed with CreateKey. A read-result document wraps a packed value from
// birth and only answers reads.
//
// A document is owned by exactly one logical caller from creation to Destroy
// and is not safe for concurrent use.
type Document struct {
	db *Database

	fields          [MaxFields]scheme.FieldValue
	fieldsCount     int
	fieldsCountKeys int

	value []byte
	raw   []byte

	prefix     []byte
	prefixCopy []byte

	order    format.Order
	orderSet bool

	log any

	created   bool
	destroyed bool
}

// reset re-initializes a wrapper leaving the pool. Everything is zeroed
// except the order, which defaults to exact match, and the optional inbound
// packed value.
func (d *Document) reset(db *Database, value []byte) {
	*d = Document{
		db:    db,
		order: format.OrderEQ,
		value: value,
	}
}

// Destroyed reports whether the document has been destroyed. It satisfies
// the pool's recycling contract.
func (d *Document) Destroyed() bool {
	return d.destroyed
}

// Order returns the document's iteration order.
func (d *Document) Order() format.Order {
	return d.order
}

// Created reports whether the document has been committed to packed form.
func (d *Document) Created() bool {
	return d.created
}

// Value returns the committed packed value, or nil before commit.
func (d *Document) Value() []byte {
	return d.value
}

// TakeValue transfers ownership of the committed packed value to the caller,
// nulling the document's reference.
func (d *Document) TakeValue() []byte {
	v := d.value
	d.value = nil

	return v
}

// Log returns the opaque caller value forwarded to the write-ahead log.
func (d *Document) Log() any {
	return d.log
}

// SetLog stores an opaque caller value forwarded to the write-ahead log.
func (d *Document) SetLog(v any) {
	d.log = v
}

// SetOrder sets the iteration order for search documents.
func (d *Document) SetOrder(order format.Order) error {
	if d.value != nil {
		return d.db.engine.report(errs.ErrDocumentReadOnly)
	}
	d.order = order
	d.orderSet = true

	return nil
}

// SetString assigns a string-typed path. Field names resolve through the
// scheme; the reserved paths "order", "prefix" and "raw" address the
// document itself:
//
//   - "order":  data names the iteration order, e.g. ">=" or "gte"
//   - "prefix": data is a key-scan prefix, borrowed until CreateKey
//   - "raw":    data is a prebuilt packed blob, borrowed until Destroy
func (d *Document) SetString(path string, data []byte) error {
	e := d.db.engine
	if d.value != nil {
		return e.report(errs.ErrDocumentReadOnly)
	}

	switch path {
	case "order":
		order := format.ParseOrder(string(data))
		if order == format.OrderStop {
			return e.report(fmt.Errorf("%w: '%s'", errs.ErrBadOrderName, data))
		}
		d.order = order
		d.orderSet = true
	case "prefix":
		d.prefix = data
	case "raw":
		d.raw = data
	default:
		field := d.db.scheme.Find(path)
		if field == nil {
			return e.report(fmt.Errorf("%w: '%s'", errs.ErrFieldNotFound, path))
		}

		return d.setField(field, data)
	}

	return nil
}

// SetFieldAt assigns the field at the given position.
func (d *Document) SetFieldAt(pos int, data []byte) error {
	e := d.db.engine
	if d.value != nil {
		return e.report(errs.ErrDocumentReadOnly)
	}
	field := d.db.scheme.FieldAt(pos)
	if field == nil {
		return e.report(errs.ErrFieldPosition)
	}

	return d.setField(field, data)
}

// SetInt assigns an integer to a fixed-width field by name. The value is
// stored inline at the field's declared width.
func (d *Document) SetInt(path string, num int64) error {
	e := d.db.engine
	if d.value != nil {
		return e.report(errs.ErrDocumentReadOnly)
	}
	field := d.db.scheme.Find(path)
	if field == nil {
		return e.report(fmt.Errorf("%w: '%s'", errs.ErrFieldNotFound, path))
	}

	return d.setFieldNumeric(field, num)
}

// SetIntAt assigns an integer to the fixed-width field at the given position.
func (d *Document) SetIntAt(pos int, num int64) error {
	e := d.db.engine
	if d.value != nil {
		return e.report(errs.ErrDocumentReadOnly)
	}
	field := d.db.scheme.FieldAt(pos)
	if field == nil {
		return e.report(errs.ErrFieldPosition)
	}

	return d.setFieldNumeric(field, num)
}

// setField assigns borrowed bytes into the field's pending slot, enforcing
// the size bound and maintaining the populated-slot counters.
func (d *Document) setField(field *scheme.Field, data []byte) error {
	e := d.db.engine

	sizeMax := d.db.limit.MaxSizeOf(field)
	if len(data) > sizeMax {
		return e.report(fmt.Errorf("field '%s' is too big (%d limit): %w",
			field.Name, sizeMax, errs.ErrFieldTooBig))
	}

	fv := &d.fields[field.Position]
	if !fv.IsSet() {
		d.fieldsCount++
		if field.Key {
			d.fieldsCountKeys++
		}
	}
	fv.Set(data)
	d.db.stat.field(len(data))

	return nil
}

func (d *Document) setFieldNumeric(field *scheme.Field, num int64) error {
	e := d.db.engine
	if !field.Type.IsNumeric() {
		return e.report(fmt.Errorf("%w: field '%s'", errs.ErrNotNumeric, field.Name))
	}

	fv := &d.fields[field.Position]
	if !fv.IsSet() {
		d.fieldsCount++
		if field.Key {
			d.fieldsCountKeys++
		}
	}
	fv.SetNumeric(field.Type, uint64(num))
	d.db.stat.field(field.FixedSize)

	return nil
}

// GetString reads a string-typed path. Field reads come from the committed
// packed value when present, otherwise from the pending slot; missing fields
// return nil. The reserved paths "order" and "prefix" return the canonical
// order name and the pending prefix.
func (d *Document) GetString(path string) []byte {
	switch path {
	case "order":
		return []byte(d.order.String())
	case "prefix":
		return d.prefix
	default:
		field := d.db.scheme.Find(path)
		if field == nil {
			return nil
		}

		return d.getField(field)
	}
}

// GetFieldAt reads the field at the given position.
func (d *Document) GetFieldAt(pos int) []byte {
	field := d.db.scheme.FieldAt(pos)
	if field == nil {
		_ = d.db.engine.report(errs.ErrFieldPosition)
		return nil
	}

	return d.getField(field)
}

// GetInt reads a fixed-width field by name, zero-extended to int64.
// It returns -1 for unknown names, non-numeric fields and missing values.
func (d *Document) GetInt(path string) int64 {
	field := d.db.scheme.Find(path)
	if field == nil {
		return -1
	}

	return d.getFieldNumeric(field)
}

// GetIntAt is GetInt by field position.
func (d *Document) GetIntAt(pos int) int64 {
	field := d.db.scheme.FieldAt(pos)
	if field == nil {
		return -1
	}

	return d.getFieldNumeric(field)
}

func (d *Document) getField(field *scheme.Field) []byte {
	if d.value != nil {
		return d.db.scheme.FieldBytes(field, d.value)
	}

	fv := &d.fields[field.Position]
	if !fv.IsSet() {
		return nil
	}

	return fv.Bytes()
}

func (d *Document) getFieldNumeric(field *scheme.Field) int64 {
	if !field.Type.IsNumeric() {
		return -1
	}
	data := d.getField(field)
	if data == nil {
		return -1
	}

	switch field.FixedSize {
	case 1:
		return int64(data[0])
	case 2:
		return int64(native.Uint16(data))
	case 4:
		return int64(native.Uint32(data))
	default:
		return int64(native.Uint64(data))
	}
}

// Create commits the document to packed form for a write. Either the
// prebuilt raw blob is adopted, or the pending fields are packed: the key
// must be complete, the timestamp field (when declared) is auto-assigned
// from the engine clock, and the caller's flags byte is installed.
func (d *Document) Create(flags format.Flags) error {
	e := d.db.engine
	s := d.db.scheme
	if d.created {
		return e.report(errs.ErrDocumentReadOnly)
	}

	// Fast path: adopt a caller-supplied prebuilt blob.
	if d.raw != nil {
		value, err := s.BuildRawValue(d.raw)
		if err != nil {
			return e.report(err)
		}
		d.value = value
		d.created = true
		d.db.stat.documentsBuilt.Add(1)

		return nil
	}

	if d.fieldsCountKeys != s.KeysCount() {
		return e.report(errs.ErrIncompleteKey)
	}

	if s.HasTimestamp {
		if s.AutoSet(d.fields[:], e.clock()) {
			d.fieldsCount++
		}
	}

	value, err := s.BuildValue(d.fields[:])
	if err != nil {
		return e.report(err)
	}
	s.SetFlags(value, flags)
	d.value = value
	d.created = true
	d.db.stat.documentsBuilt.Add(1)

	return nil
}

// CreateKey commits the document to packed form for a read or a cursor open.
// A pending prefix requires a string-typed first key and is duplicated into
// engine-owned memory; unset key fields are completed with min/max sentinels
// chosen by the iteration order. The packed value carries the search flag.
// Calling CreateKey on an already committed document is a no-op.
func (d *Document) CreateKey() error {
	e := d.db.engine
	s := d.db.scheme
	if d.created {
		return nil
	}

	if d.prefix != nil {
		if !s.Keys[0].Type.IsString() {
			return e.report(errs.ErrPrefixNotString)
		}
		d.prefixCopy = slices.Clone(d.prefix)
	}

	// Complete a partial key with min/max sentinels, depending on the
	// iteration order.
	if d.fieldsCountKeys != s.KeysCount() {
		if d.prefix != nil && d.fieldsCountKeys == 0 {
			for i := range d.fields {
				d.fields[i].Reset()
			}
			d.fields[0].Set(d.prefix)
		}
		d.db.limit.Apply(s, d.fields[:], d.order)
		d.fieldsCount = s.FieldsCount()
		d.fieldsCountKeys = s.KeysCount()
	}

	value, err := s.BuildValue(d.fields[:])
	if err != nil {
		return e.report(err)
	}
	s.SetFlags(value, format.FlagGet)
	d.value = value
	d.created = true

	return nil
}

// Destroy releases the document: the packed value reference is dropped, the
// prefix copy is freed, transient state is cleared, and the wrapper returns
// to the engine's pool.
func (d *Document) Destroy() {
	e := d.db.engine
	d.value = nil
	d.raw = nil
	d.prefix = nil
	d.prefixCopy = nil
	d.log = nil
	d.created = false
	d.destroyed = true
	if err := e.pool.GC(d); err != nil {
		_ = e.report(err)
	}
}
