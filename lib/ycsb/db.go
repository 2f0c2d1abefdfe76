package ycsb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ValentinKolb/dTree/lib/pool"
	"github.com/ValentinKolb/dTree/lib/record"
	"github.com/ValentinKolb/dTree/lib/tree"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("ycsb")

const (
	opInit   = "init"
	opRead   = "read"
	opInsert = "insert"
	opUpdate = "update"
	opDelete = "delete"
	opScan   = "scan"
)

// ConnFactory opens a new connection to the tree store.
type ConnFactory func() (tree.ITree, error)

// DB runs YCSB style operations against a tree store.
// Every table is a directory, every key a file holding the encoded record.
// All methods are safe for concurrent use.
type DB struct {
	opts   Options
	pool   *pool.Pool[tree.ITree] // set if opts.Pooled
	shared tree.ITree             // set if !opts.Pooled
}

// NewDB opens the connections described by opts. With pooling enabled, opts.PoolSize connections are
// created eagerly; otherwise a single connection is opened and shared by all callers.
// Any failure is returned as an ErrInitialization error and nothing stays open.
func NewDB(factory ConnFactory, opts Options) (*DB, error) {
	db := &DB{opts: opts}

	if !opts.Pooled {
		conn, err := factory()
		if err != nil {
			return nil, newError(KindInitialization, opInit, err)
		}
		db.shared = conn
		log.Infof("opened shared connection")
		return db, nil
	}

	p, err := pool.New[tree.ITree](opts.PoolSize, factory, pool.WithDestroy(func(t tree.ITree) error {
		return t.Close()
	}))
	if err != nil {
		return nil, newError(KindInitialization, opInit, err)
	}
	db.pool = p
	log.Infof("opened connection pool with %d connections", opts.PoolSize)
	return db, nil
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// withConn runs fn with a connection that is held for the whole call.
func (db *DB) withConn(fn func(tree.ITree) error) error {
	if db.pool == nil {
		return fn(db.shared)
	}
	return db.pool.Use(fn)
}

// callContext applies the configured timeout to ctx.
func (db *DB) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if !db.opts.TimeoutEnabled {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, db.opts.Timeout)
}

// trace logs one line per operation in the "OP table: t, key k, ..." format.
func (db *DB) trace(format string, args ...interface{}) {
	if db.opts.VerboseLogging {
		log.Infof(format, args...)
	} else {
		log.Debugf(format, args...)
	}
}

func formatFields(fields []string) string {
	if fields == nil {
		return "NULL"
	}
	return "[" + strings.Join(fields, ", ") + "]"
}

// readRecord reads and decodes the record stored at path.
func (db *DB) readRecord(ctx context.Context, conn tree.ITree, op, path string) (record.Record, string, error) {
	callCtx, cancel := db.callContext(ctx)
	contents, err := conn.Read(callCtx, path)
	cancel()
	if err != nil {
		return nil, "", remoteError(KindRemoteRead, op, err)
	}

	r, err := record.Decode(contents, db.opts.DecodeMode)
	if err != nil {
		return nil, contents, newError(KindFormat, op, err)
	}
	return r, contents, nil
}

// writeRecord encodes and writes r to path.
func (db *DB) writeRecord(ctx context.Context, conn tree.ITree, op, path, payload string) error {
	callCtx, cancel := db.callContext(ctx)
	defer cancel()
	if err := conn.Write(callCtx, path, payload); err != nil {
		return remoteError(KindRemoteWrite, op, err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Operations
// --------------------------------------------------------------------------

// Read returns the record stored under table/key. Only full reads are supported: passing a non-nil
// fields slice fails with ErrUnsupportedOperation before any connection is used.
func (db *DB) Read(ctx context.Context, table, key string, fields []string) (r record.Record, err error) {
	defer readMetrics.observe(time.Now(), &err)

	if fields != nil {
		return nil, newError(KindUnsupportedOperation, opRead,
			fmt.Errorf("reading a subset of fields is not supported (requested %v)", fields))
	}

	path := BuildPath(table, key)
	err = db.withConn(func(conn tree.ITree) error {
		var contents string
		var rErr error
		r, contents, rErr = db.readRecord(ctx, conn, opRead, path)
		if rErr == nil {
			db.trace("READ table: %s, key %s, fields %s, %s", table, key, formatFields(fields), contents)
		}
		return rErr
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Insert creates the table directory if needed and writes r to table/key, replacing any previous value.
// An empty table stores the record directly below the root directory.
func (db *DB) Insert(ctx context.Context, table, key string, r record.Record) (err error) {
	defer insertMetrics.observe(time.Now(), &err)

	payload := record.Encode(r)
	db.trace("INSERT table: %s, key %s, values %s", table, key, payload)

	path := BuildPath(table, key)
	return db.withConn(func(conn tree.ITree) error {
		callCtx, cancel := db.callContext(ctx)
		dirErr := conn.MakeDirectory(callCtx, table)
		cancel()
		if dirErr != nil && tree.CodeOf(dirErr) != tree.RetCAlreadyExists {
			return remoteError(KindRemoteDirectory, opInsert, dirErr)
		}
		return db.writeRecord(ctx, conn, opInsert, path, payload)
	})
}

// Update overwrites the fields of the stored record that also appear in partial. Fields of partial the
// stored record does not have are dropped.
//
// The read and the write are separate calls on the same connection. Two concurrent updates of one
// key can interleave, in which case the write that lands last wins and the other update is lost.
func (db *DB) Update(ctx context.Context, table, key string, partial record.Record) (err error) {
	defer updateMetrics.observe(time.Now(), &err)

	path := BuildPath(table, key)
	return db.withConn(func(conn tree.ITree) error {
		stored, _, rErr := db.readRecord(ctx, conn, opUpdate, path)
		if rErr != nil {
			return rErr
		}

		payload := record.Encode(stored.Overlay(partial))
		db.trace("UPDATE table: %s, key %s, values %s", table, key, payload)
		return db.writeRecord(ctx, conn, opUpdate, path, payload)
	})
}

// Delete does nothing and always succeeds. The benchmark workloads do not check deletions,
// and the stored record stays readable.
func (db *DB) Delete(_ context.Context, table, key string) (err error) {
	defer deleteMetrics.observe(time.Now(), &err)
	db.trace("DELETE table: %s, key %s (ignored)", table, key)
	return nil
}

// Scan is not implemented and always fails with ErrNotImplemented.
func (db *DB) Scan(_ context.Context, table, startKey string, count int, fields []string) (_ []record.Record, err error) {
	defer scanMetrics.observe(time.Now(), &err)
	return nil, newError(KindNotImplemented, opScan,
		fmt.Errorf("scan of %d records from %s starting at %q is not implemented", count, table, startKey))
}

// Options returns the options the DB was created with.
func (db *DB) Options() Options {
	return db.opts
}

// Close releases all connections. It must not be called while operations are running.
func (db *DB) Close() error {
	if db.pool != nil {
		return db.pool.Close()
	}
	return db.shared.Close()
}
