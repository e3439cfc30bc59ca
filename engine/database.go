package engine

import (
	"sync/atomic"
	"time"

	"github.com/arloliu/recfmt/errs"
	"github.com/arloliu/recfmt/internal/options"
	"github.com/arloliu/recfmt/scheme"
)

// Database binds a validated scheme to an engine, together with the field
// size limits and the per-database statistics.
type Database struct {
	engine *Engine
	scheme *scheme.Scheme
	limit  *scheme.Limit
	stat   stat
}

// DBOption is a functional option for configuring a Database.
type DBOption = options.Option[*Database]

// WithStringMaxSize bounds variable-width key fields.
func WithStringMaxSize(size int) DBOption {
	return options.NoError(func(db *Database) {
		db.limit = scheme.NewLimit(size, db.limit.FieldMaxSize)
	})
}

// WithFieldMaxSize bounds variable-width non-key fields.
func WithFieldMaxSize(size int) DBOption {
	return options.NoError(func(db *Database) {
		db.limit = scheme.NewLimit(db.limit.StringMaxSize, size)
	})
}

// NewDatabase binds a validated scheme to the engine. The scheme must fit the
// document's pending-field capacity.
func (e *Engine) NewDatabase(s *scheme.Scheme, opts ...DBOption) (*Database, error) {
	if e.closed.Load() {
		return nil, e.report(errs.ErrEngineClosed)
	}
	if !s.Validated() {
		return nil, e.report(errs.ErrSchemeNotValidated)
	}
	if s.FieldsCount() > MaxFields {
		return nil, e.report(errs.ErrTooManyFields)
	}

	db := &Database{
		engine: e,
		scheme: s,
		limit:  scheme.DefaultLimit(),
	}
	if err := options.Apply(db, opts...); err != nil {
		return nil, e.report(err)
	}

	return db, nil
}

// Scheme returns the database's validated scheme.
func (db *Database) Scheme() *scheme.Scheme {
	return db.scheme
}

// Limit returns the database's field size limits.
func (db *Database) Limit() *scheme.Limit {
	return db.limit
}

// Document obtains a fresh document for writes and searches, reusing a pooled
// wrapper when one is available.
func (db *Database) Document() (*Document, error) {
	return db.newDocument(nil)
}

// DocumentFromValue wraps an inbound packed value, typically a read result
// handed back by the storage layer. The document is read-only from birth.
func (db *Database) DocumentFromValue(value []byte) (*Document, error) {
	return db.newDocument(value)
}

func (db *Database) newDocument(value []byte) (*Document, error) {
	e := db.engine
	if e.closed.Load() {
		return nil, e.report(errs.ErrEngineClosed)
	}

	d, ok := e.pool.Pop()
	if !ok {
		d = &Document{}
		e.pool.Add()
	}
	d.reset(db, value)

	return d, nil
}

// Stat is a point-in-time snapshot of a database's counters.
type Stat struct {
	// FieldWrites counts field assignments.
	FieldWrites uint64
	// FieldBytes sums the byte sizes of assigned fields.
	FieldBytes uint64
	// DocumentsBuilt counts committed packed values.
	DocumentsBuilt uint64
}

// Stat returns a snapshot of the database counters.
func (db *Database) Stat() Stat {
	return Stat{
		FieldWrites:    db.stat.fieldWrites.Load(),
		FieldBytes:     db.stat.fieldBytes.Load(),
		DocumentsBuilt: db.stat.documentsBuilt.Load(),
	}
}

// stat holds the live counters. Assignments may race across documents, so
// every counter is atomic.
type stat struct {
	fieldWrites    atomic.Uint64
	fieldBytes     atomic.Uint64
	documentsBuilt atomic.Uint64
}

func (st *stat) field(size int) {
	st.fieldWrites.Add(1)
	st.fieldBytes.Add(uint64(size))
}

// unixSeconds is the default clock: the current Unix timestamp in seconds.
func unixSeconds() uint32 {
	return uint32(time.Now().Unix())
}
