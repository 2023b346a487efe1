package badger

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Backend owns a BadgerDB handle and exposes transactional access to it.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// dbLogger routes badger's printf-style logging through slog.
type dbLogger struct {
	l *slog.Logger
}

var _ badger.Logger = dbLogger{}

func (d dbLogger) Errorf(f string, args ...any)   { d.l.Error(fmt.Sprintf(f, args...)) }
func (d dbLogger) Warningf(f string, args ...any) { d.l.Warn(fmt.Sprintf(f, args...)) }
func (d dbLogger) Infof(f string, args ...any)    { d.l.Info(fmt.Sprintf(f, args...)) }
func (d dbLogger) Debugf(f string, args ...any)   { d.l.Debug(fmt.Sprintf(f, args...)) }

// OpenBackend opens the database under dir, creating the directory if
// needed. With inMemory set, dir is ignored and nothing touches disk.
func OpenBackend(dir string, inMemory bool) (*Backend, error) {
	logger := slog.Default().With("component", "badger-backend")

	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
		opts = badger.DefaultOptions(dir)
	}
	opts.Logger = dbLogger{l: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Backend{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed reports whether the database has been closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx runs fn inside a transaction. Write transactions commit inside fn;
// the deferred discard is a no-op after a successful commit and rolls back
// everything when fn fails.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}
