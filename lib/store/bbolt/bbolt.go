package bbolt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TecharoHQ/sphinx/lib/store"
	"go.etcd.io/bbolt"
)

// Sentinel error values used for testing and in admin-visible error messages.
var (
	ErrBucketDoesNotExist = errors.New("bbolt: bucket does not exist")
	ErrNotExists          = errors.New("bbolt: value does not exist in store")
)

var (
	dataKey   = []byte("data")
	expiryKey = []byte("expiry")
)

// Store implements store.Interface backed by bbolt[1].
//
// All values live under one top-level bucket named by Config.Bucket. Each
// value gets its own nested bucket holding two keys:
//
// 1. data - The raw data, usually in JSON
// 2. expiry - The expiry time formatted as a time.RFC3339Nano timestamp string
//
// Keeping the expiry next to the data lets the cleanup phase scan expiry
// times without decoding records.
//
// bbolt takes an exclusive file lock, so it only suits a single Sphinx
// process. Use the valkey backend when several processes share commitments.
//
// [1]: https://github.com/etcd-io/bbolt
type Store struct {
	bdb    *bbolt.DB
	bucket []byte
}

func (s *Store) item(tx *bbolt.Tx, key string) *bbolt.Bucket {
	root := tx.Bucket(s.bucket)
	if root == nil {
		return nil
	}

	return root.Bucket([]byte(key))
}

// readExpiry returns the expiry of an item bucket.
func readExpiry(key string, itemBucket *bbolt.Bucket) (time.Time, error) {
	expiryStr := itemBucket.Get(expiryKey)
	if expiryStr == nil {
		return time.Time{}, fmt.Errorf("[unexpected] %w: %q (expiry is nil)", store.ErrNotFound, key)
	}

	expiry, err := time.Parse(time.RFC3339Nano, string(expiryStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("[unexpected] %w: %w", store.ErrCantDecode, err)
	}

	return expiry, nil
}

// Delete a key from the datastore. If the key does not exist, return an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.bdb.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(s.bucket)
		if root == nil || root.Bucket([]byte(key)) == nil {
			return fmt.Errorf("%w: %w: %q", store.ErrNotFound, ErrNotExists, key)
		}

		return root.DeleteBucket([]byte(key))
	})
}

// Get a value from the datastore.
//
// The expiry key is checked first. Expired values are deleted in the
// background and reported as missing.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var result []byte

	if err := s.bdb.View(func(tx *bbolt.Tx) error {
		itemBucket := s.item(tx, key)
		if itemBucket == nil {
			return fmt.Errorf("%w: %q", store.ErrNotFound, key)
		}

		expiry, err := readExpiry(key, itemBucket)
		if err != nil {
			return err
		}

		if time.Now().After(expiry) {
			go s.Delete(context.Background(), key)
			return fmt.Errorf("%w: %q", store.ErrNotFound, key)
		}

		dataStr := itemBucket.Get(dataKey)
		if dataStr == nil {
			return fmt.Errorf("[unexpected] %w: %q (data is nil)", store.ErrNotFound, key)
		}

		// bbolt memory is only valid inside the transaction.
		result = make([]byte, len(dataStr))
		copy(result, dataStr)

		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// Has reports whether a live value exists for key.
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	var found bool

	err := s.bdb.View(func(tx *bbolt.Tx) error {
		itemBucket := s.item(tx, key)
		if itemBucket == nil {
			return nil
		}

		expiry, err := readExpiry(key, itemBucket)
		if err != nil {
			return err
		}

		found = time.Now().Before(expiry)
		return nil
	})

	return found, err
}

// Set a value into the store with a given expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, expiry time.Duration) error {
	expires := time.Now().Add(expiry)

	return s.bdb.Update(func(tx *bbolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return fmt.Errorf("%w: %w: %q (create root bucket)", store.ErrCantEncode, err, string(s.bucket))
		}

		valueBkt, err := root.CreateBucketIfNotExists([]byte(key))
		if err != nil {
			return fmt.Errorf("%w: %w: %q (create bucket)", store.ErrCantEncode, err, key)
		}

		if err := valueBkt.Put(expiryKey, []byte(expires.Format(time.RFC3339Nano))); err != nil {
			return fmt.Errorf("%w: %q (expiry)", store.ErrCantEncode, key)
		}

		if err := valueBkt.Put(dataKey, value); err != nil {
			return fmt.Errorf("%w: %q (data)", store.ErrCantEncode, key)
		}

		return nil
	})
}

func (s *Store) cleanup(ctx context.Context) error {
	now := time.Now()

	return s.bdb.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(s.bucket)
		if root == nil {
			return nil
		}

		// Buckets can't be deleted while ForEach walks them.
		var expired [][]byte
		if err := root.ForEach(func(key, _ []byte) error {
			valueBkt := root.Bucket(key)
			if valueBkt == nil {
				return nil
			}

			expiry, err := readExpiry(string(key), valueBkt)
			if err != nil {
				slog.Warn("while running cleanup, expiry is unreadable, file a bug?", "key", string(key), "err", err)
				return nil
			}

			if now.After(expiry) {
				expired = append(expired, append([]byte(nil), key...))
			}

			return nil
		}); err != nil {
			return err
		}

		for _, key := range expired {
			if err := root.DeleteBucket(key); err != nil {
				return fmt.Errorf("can't delete expired bucket %q: %w", string(key), err)
			}
		}

		return nil
	})
}

func (s *Store) cleanupThread(ctx context.Context) {
	t := time.NewTicker(5 * time.Minute)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := s.bdb.Close(); err != nil {
				slog.Error("error closing bbolt database", "err", err)
			}
			return
		case <-t.C:
			if err := s.cleanup(ctx); err != nil {
				slog.Error("error during bbolt cleanup", "err", err)
			}
		}
	}
}
