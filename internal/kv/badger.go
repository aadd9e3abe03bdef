package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/MrSnakeDoc/siteboard/internal/logger"
)

// Badger is an embedded Store. Every call runs in its own badger
// transaction so the store never offers more than per-key atomicity.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a badger database in dir. An empty dir
// opens an in-memory database, which is what tests and throwaway dev
// instances use.
func OpenBadger(dir string, log logger.Logger) (*Badger, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create badger dir: %w", err)
		}
		opts = badger.DefaultOptions(dir)
	}
	opts = opts.
		WithLogger(badgerLogger{log}).
		// INFO is very chatty during compaction
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("badger get %s: %w", key, err)
	}
	return out, nil
}

func (b *Badger) Put(ctx context.Context, key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}
	return nil
}

func (b *Badger) Delete(ctx context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger delete %s: %w", key, err)
	}
	return nil
}

func (b *Badger) Ping(ctx context.Context) error {
	if b.db.IsClosed() {
		return errors.New("badger: database closed")
	}
	return nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}

// badgerLogger routes badger's internal logging through our zap facade.
type badgerLogger struct {
	log logger.Logger
}

func (l badgerLogger) msg(f string, v []interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(f, v...))
}

func (l badgerLogger) Errorf(f string, v ...interface{})   { l.log.Error(l.msg(f, v), badgerComponent) }
func (l badgerLogger) Warningf(f string, v ...interface{}) { l.log.Warn(l.msg(f, v), badgerComponent) }
func (l badgerLogger) Infof(f string, v ...interface{})    { l.log.Info(l.msg(f, v), badgerComponent) }
func (l badgerLogger) Debugf(f string, v ...interface{})   { l.log.Debug(l.msg(f, v), badgerComponent) }

var badgerComponent = logger.String("badgerComponent", "badger")
