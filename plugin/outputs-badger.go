package plugin

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	Mt "github.com/maroda/ostinato/types"
)

var revisionPrefix = []byte("rev/")

// BadgerStore keeps every saved document as a revision.
// Load always returns the newest one.
type BadgerStore struct {
	MU   sync.Mutex
	DB   *badger.DB
	last int64
}

// Revision is one saved document and when it was saved.
type Revision struct {
	At  time.Time
	Doc *Mt.Composition
}

func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).
		WithCompression(options.ZSTD).
		WithNumVersionsToKeep(1).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		slog.Error("BadgerStore failed to open database", slog.Any("Error", err))
		return nil, fmt.Errorf("database error: %w", err)
	}

	slog.Info("BadgerStore opened", slog.String("path", path))
	return &BadgerStore{DB: db}, nil
}

// Save writes a new revision, keyed so that revisions sort by save time.
func (bs *BadgerStore) Save(doc *Mt.Composition) error {
	bs.MU.Lock()
	defer bs.MU.Unlock()

	v, err := DocEncode(doc)
	if err != nil {
		return err
	}

	ts := time.Now().UnixNano()
	if ts <= bs.last {
		ts = bs.last + 1
	}

	err = bs.DB.Update(func(txn *badger.Txn) error {
		return txn.Set(RevisionKey(ts), v)
	})
	if err != nil {
		slog.Error("BadgerStore failed to save revision", slog.Any("Error", err))
		return fmt.Errorf("save revision error: %w", err)
	}

	bs.last = ts
	return nil
}

// Load returns the newest revision, or the empty default document.
func (bs *BadgerStore) Load() (*Mt.Composition, error) {
	var doc *Mt.Composition

	err := bs.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = revisionPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(RevisionKey(-1))
		if !it.ValidForPrefix(revisionPrefix) {
			return nil
		}
		return it.Item().Value(func(val []byte) error {
			d, err := DocDecode(val)
			if err != nil {
				return err
			}
			doc = d
			return nil
		})
	})
	if err != nil {
		slog.Error("BadgerStore failed to load", slog.Any("Error", err))
		return nil, fmt.Errorf("load revision error: %w", err)
	}

	if doc == nil {
		return Mt.NewComposition(), nil
	}
	return doc, nil
}

// Revision returns the newest revision timestamp, 0 if nothing was saved.
func (bs *BadgerStore) Revision() (int64, error) {
	var rev int64

	err := bs.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false
		opts.Prefix = revisionPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(RevisionKey(-1))
		if it.ValidForPrefix(revisionPrefix) {
			rev = RevisionTime(it.Item().Key())
		}
		return nil
	})

	return rev, err
}

// History returns revisions saved within [start, end], oldest first.
func (bs *BadgerStore) History(start, end time.Time) ([]Revision, error) {
	var revs []Revision

	err := bs.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = revisionPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		stop := RevisionKey(end.UnixNano())
		for it.Seek(RevisionKey(start.UnixNano())); it.ValidForPrefix(revisionPrefix); it.Next() {
			item := it.Item()
			if bytes.Compare(item.Key(), stop) > 0 {
				break
			}

			at := RevisionTime(item.Key())
			err := item.Value(func(val []byte) error {
				doc, err := DocDecode(val)
				if err != nil {
					slog.Error("BadgerStore failed to decode revision", slog.Any("Error", err))
					return fmt.Errorf("revision decode error: %w", err)
				}
				revs = append(revs, Revision{At: time.Unix(0, at), Doc: doc})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	slog.Debug("BadgerStore History", slog.Int("count", len(revs)))
	return revs, err
}

func (bs *BadgerStore) Close() error {
	if err := bs.DB.Close(); err != nil {
		slog.Error("BadgerStore failed to close database", slog.Any("Error", err))
		return fmt.Errorf("close failed: %w", err)
	}
	slog.Info("BadgerStore closed successfully")
	return nil
}

func (bs *BadgerStore) Type() string { return "BadgerDB" }

// RevisionKey is the prefix plus a BigEndian timestamp,
// so badger sorts revisions chronologically.
// A negative ts returns the largest possible key.
func RevisionKey(ts int64) []byte {
	key := make([]byte, len(revisionPrefix)+8)
	copy(key, revisionPrefix)
	if ts < 0 {
		binary.BigEndian.PutUint64(key[len(revisionPrefix):], ^uint64(0))
		return key
	}
	binary.BigEndian.PutUint64(key[len(revisionPrefix):], uint64(ts))
	return key
}

func RevisionTime(key []byte) int64 {
	if len(key) < len(revisionPrefix)+8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(key[len(revisionPrefix):]))
}
