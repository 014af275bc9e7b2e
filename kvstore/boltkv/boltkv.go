// Package boltkv stores key-value blobs in a bucket of a BoltDB database
package boltkv

import (
	"context"

	"bitbucket.org/kleinnic74/photomap/logging"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var kvBucket = []byte("kv")

// Store keeps all values in a single bucket of an existing database, the
// database is owned by the caller
type Store struct {
	db *bolt.DB
}

// NewStore creates the bucket unless it exists already, so a database opened
// read-only can be used once the bucket was created
func NewStore(db *bolt.DB) (*Store, error) {
	exists := false
	db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(kvBucket) != nil
		return nil
	})
	if exists {
		return &Store{db: db}, nil
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(kvBucket)
		return err
	}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(kvBucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		// data is only valid during the transaction
		value = make([]byte, len(data))
		copy(value, data)
		return nil
	})
	if err != nil {
		logging.From(ctx).Warn("Bolt error", zap.String("key", key), zap.Error(err))
	}
	return
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kvBucket).Put([]byte(key), value)
	})
}

// Keys returns all keys present in the store
func (s *Store) Keys(ctx context.Context) (keys []string, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(kvBucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return
}

// Close does nothing, the database belongs to the caller
func (s *Store) Close() error {
	return nil
}
