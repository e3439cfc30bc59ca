// Package recfmt implements the record format and schema engine of an
// embedded ordered key-value storage system.
//
// A scheme declares the record layout: named fields with typed, fixed- or
// variable-width storage, a multi-part ordered key, and engine-owned meta
// fields (flags, log sequence number, optional timestamp and expiry). The
// validated scheme produces the packed on-wire byte layout, the per-field
// accessors, and the total-order comparator the storage layers above index
// and iterate with.
//
// # Core Features
//
//   - Fixed-region/variable-region packed record layout with O(1) field access
//   - Multi-column keys with per-field ordering direction, natural or reversed
//   - Prefix search keys over string-typed leading key fields
//   - Hash-based field-name lookups (64-bit xxHash64)
//   - Pooled document wrappers with leak detection at engine shutdown
//   - Persisted scheme form with fingerprinting for reopen verification
//
// # Basic Usage
//
// Declaring and validating a scheme:
//
//	s := recfmt.NewScheme()
//	s.Add(recfmt.NewField("id", "u32,key(0)"))
//	s.Add(recfmt.NewField("name", "string"))
//	if err := s.Validate(); err != nil {
//	    ...
//	}
//
// Building a record:
//
//	eng, _ := recfmt.NewEngine()
//	db, _ := eng.NewDatabase(s)
//
//	doc, _ := db.Document()
//	doc.SetInt("id", 42)
//	doc.SetString("name", []byte("abc"))
//	if err := doc.Create(format.FlagNone); err != nil {
//	    ...
//	}
//	packed := doc.TakeValue() // hand off to the storage layer
//	doc.Destroy()
//
// Building a search key for a cursor:
//
//	doc, _ := db.Document()
//	doc.SetString("order", []byte(">="))
//	doc.SetInt("id", 40)
//	doc.CreateKey()
//
// A prefix search key (doc.SetString("prefix", ...)) requires a string-typed
// first key field; CreateKey rejects it for the integer key above.
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the scheme and
// engine packages, simplifying the most common use cases. For fine-grained
// control, use those packages directly:
//
//   - scheme: field descriptors, layout validation, comparators,
//     packed-value assembly, the persisted scheme form, and size limits
//   - engine: the engine with its document pool and error channel, databases,
//     and the document lifecycle
//   - format: the field type, iteration order and record flag enumerations
//   - endian: byte order engines; record fields use the host's native order
package recfmt

import (
	"github.com/arloliu/recfmt/engine"
	"github.com/arloliu/recfmt/internal/hash"
	"github.com/arloliu/recfmt/scheme"
)

// NewScheme creates an empty, unvalidated scheme.
func NewScheme() *scheme.Scheme {
	return scheme.New()
}

// NewField creates a field descriptor with the given name and options string,
// e.g. recfmt.NewField("id", "u32,key(0)"). The options are validated by
// Scheme.Validate.
func NewField(name, options string) *scheme.Field {
	return scheme.NewField(name, options)
}

// NewEngine creates an engine with an empty document pool.
func NewEngine(opts ...engine.Option) (*engine.Engine, error) {
	return engine.New(opts...)
}

// LoadScheme reconstructs an unvalidated scheme from its serialized form.
// The result must still be validated before use.
func LoadScheme(data []byte) (*scheme.Scheme, error) {
	s := scheme.New()
	if err := s.Load(data); err != nil {
		return nil, err
	}

	return s, nil
}

// FieldID computes the 64-bit hash of a field name, the same identifier
// schemes use internally for name lookups.
func FieldID(name string) uint64 {
	return hash.ID(name)
}
