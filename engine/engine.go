// Package engine hosts the process-wide state of the record core: the
// document pool, the error channel, the clock, and the databases with their
// schemes and limits. It exposes the document lifecycle the embedding layer
// drives: build a document, assign fields, commit it to packed form, hand the
// bytes to the storage layer, destroy the wrapper.
package engine

import (
	"sync"
	"sync/atomic"

	"github.com/arloliu/recfmt/errs"
	"github.com/arloliu/recfmt/internal/options"
	"github.com/arloliu/recfmt/internal/pool"
	"go.uber.org/zap"
)

// Engine owns the shared mutable state of one embedded database instance:
// the LIFO document pool, the single-slot error channel, the timestamp
// source, and the logger.
type Engine struct {
	log    *zap.Logger
	pool   *pool.ObjectPool[*Document]
	errch  errorChannel
	clock  func() uint32
	closed atomic.Bool
}

// Option is a functional option for configuring an Engine.
type Option = options.Option[*Engine]

// WithLogger sets the engine's logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return options.NoError(func(e *Engine) {
		e.log = log
	})
}

// WithClock replaces the engine's Unix-seconds timestamp source.
// Intended for tests and embedders with their own time authority.
func WithClock(clock func() uint32) Option {
	return options.NoError(func(e *Engine) {
		e.clock = clock
	})
}

// New creates an engine with an empty document pool.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		log:   zap.NewNop(),
		pool:  pool.NewObjectPool[*Document](),
		clock: unixSeconds,
	}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Error returns the last error recorded on the engine's error channel,
// or nil when no error has been recorded.
func (e *Engine) Error() error {
	return e.errch.get()
}

// ClearError resets the error channel.
func (e *Engine) ClearError() {
	e.errch.set(nil)
}

// Close shuts the engine down: the document pool is drained and leaked
// documents, if any, are reported through the logger. Closing twice is an
// error.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return e.report(errs.ErrEngineClosed)
	}

	leaked := e.pool.Live()
	freed := e.pool.Drain()
	if leaked > 0 {
		e.log.Warn("documents leaked at engine shutdown",
			zap.Int("leaked", leaked),
			zap.Int("freed", freed))
	} else {
		e.log.Debug("engine closed", zap.Int("freed", freed))
	}

	return nil
}

// Closed reports whether Close has been called.
func (e *Engine) Closed() bool {
	return e.closed.Load()
}

// report records err on the error channel and returns it unchanged.
// Every error returned by the engine, its databases and its documents passes
// through here; errors of the scheme package are returned directly by it and
// are not recorded.
func (e *Engine) report(err error) error {
	if err != nil {
		e.errch.set(err)
	}

	return err
}

// errorChannel is the single-slot, last-error-wins error store embedders
// inspect for the human-readable failure message.
type errorChannel struct {
	mu  sync.Mutex
	err error
}

func (c *errorChannel) set(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

func (c *errorChannel) get() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.err
}
