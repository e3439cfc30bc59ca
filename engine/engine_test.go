package engine

import (
	"errors"
	"testing"

	"github.com/arloliu/recfmt/errs"
	"github.com/arloliu/recfmt/format"
	"github.com/arloliu/recfmt/scheme"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"
)

func testScheme(t *testing.T) *scheme.Scheme {
	t.Helper()

	s := scheme.New()
	require.NoError(t, s.Add(scheme.NewField("id", "u32,key(0)")))
	require.NoError(t, s.Add(scheme.NewField("name", "string")))
	require.NoError(t, s.Validate())

	return s
}

func TestEngineErrorChannel(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	defer func() { require.NoError(t, e.Close()) }()

	require.NoError(t, e.Error())

	// Last error wins.
	first := errors.New("first")
	second := errors.New("second")
	require.Same(t, first, e.report(first))
	require.Same(t, second, e.report(second))
	require.Same(t, second, e.Error())

	e.ClearError()
	require.NoError(t, e.Error())

	// A nil report leaves the slot untouched.
	e.report(first)
	require.NoError(t, e.report(nil))
	require.Same(t, first, e.Error())
}

func TestEngineClose(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	require.False(t, e.Closed())
	require.NoError(t, e.Close())
	require.True(t, e.Closed())
	require.ErrorIs(t, e.Close(), errs.ErrEngineClosed)
}

func TestEngineClosedRejectsWork(t *testing.T) {
	s := testScheme(t)

	e, err := New()
	require.NoError(t, err)

	db, err := e.NewDatabase(s)
	require.NoError(t, err)

	require.NoError(t, e.Close())

	_, err = e.NewDatabase(s)
	require.ErrorIs(t, err, errs.ErrEngineClosed)

	_, err = db.Document()
	require.ErrorIs(t, err, errs.ErrEngineClosed)
}

func TestEngineCloseReportsLeaks(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	e, err := New(WithLogger(zap.New(core)))
	require.NoError(t, err)

	db, err := e.NewDatabase(testScheme(t))
	require.NoError(t, err)

	// One document destroyed, one leaked.
	kept, err := db.Document()
	require.NoError(t, err)
	gone, err := db.Document()
	require.NoError(t, err)
	gone.Destroy()
	_ = kept

	require.NoError(t, e.Close())

	leakLogs := logs.FilterMessage("documents leaked at engine shutdown").All()
	require.Len(t, leakLogs, 1)
	require.Equal(t, int64(1), leakLogs[0].ContextMap()["leaked"])
	require.Equal(t, int64(1), leakLogs[0].ContextMap()["freed"])
}

func TestEngineCloseCleanShutdown(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	e, err := New(WithLogger(zap.New(core)))
	require.NoError(t, err)

	db, err := e.NewDatabase(testScheme(t))
	require.NoError(t, err)

	doc, err := db.Document()
	require.NoError(t, err)
	doc.Destroy()

	require.NoError(t, e.Close())
	require.Empty(t, logs.FilterMessage("documents leaked at engine shutdown").All())
}

func TestNewDatabaseValidation(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	defer func() { require.NoError(t, e.Close()) }()

	// Unvalidated schemes are rejected.
	raw := scheme.New()
	require.NoError(t, raw.Add(scheme.NewField("id", "u32,key(0)")))
	_, err = e.NewDatabase(raw)
	require.ErrorIs(t, err, errs.ErrSchemeNotValidated)

	// Schemes beyond the document capacity are rejected.
	wide := scheme.New()
	for i := range MaxFields {
		name := string(rune('a' + i))
		require.NoError(t, wide.Add(scheme.NewField(name, "u8")))
	}
	require.NoError(t, wide.Add(scheme.NewField("id", "u32,key(0)")))
	require.NoError(t, wide.Validate())
	_, err = e.NewDatabase(wide)
	require.ErrorIs(t, err, errs.ErrTooManyFields)
}

func TestDatabaseStat(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	defer func() { require.NoError(t, e.Close()) }()

	db, err := e.NewDatabase(testScheme(t))
	require.NoError(t, err)

	doc, err := db.Document()
	require.NoError(t, err)
	require.NoError(t, doc.SetInt("id", 1))            // 4 bytes
	require.NoError(t, doc.SetString("name", []byte("abcde"))) // 5 bytes
	require.NoError(t, doc.Create(format.FlagNone))
	doc.Destroy()

	st := db.Stat()
	require.Equal(t, uint64(2), st.FieldWrites)
	require.Equal(t, uint64(9), st.FieldBytes)
	require.Equal(t, uint64(1), st.DocumentsBuilt)
}

func TestEngineConcurrentDocuments(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	defer func() { require.NoError(t, e.Close()) }()

	db, err := e.NewDatabase(testScheme(t))
	require.NoError(t, err)

	const (
		workers = 8
		rounds  = 200
	)

	// Each worker owns its documents exclusively; the pool and the stat
	// counters are the shared state under test.
	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			for i := range rounds {
				doc, err := db.Document()
				if err != nil {
					return err
				}
				if err := doc.SetInt("id", int64(w*rounds+i)); err != nil {
					return err
				}
				if err := doc.SetString("name", []byte("worker")); err != nil {
					return err
				}
				if err := doc.Create(format.FlagNone); err != nil {
					return err
				}
				doc.Destroy()
			}

			return nil
		})
	}
	require.NoError(t, g.Wait())

	st := db.Stat()
	require.Equal(t, uint64(workers*rounds*2), st.FieldWrites)
	require.Equal(t, uint64(workers*rounds), st.DocumentsBuilt)
	require.Equal(t, 0, e.pool.Live())
}
