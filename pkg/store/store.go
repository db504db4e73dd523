// Package store provides durable storage for component state.
//
// GUI applications commonly restore their last state on startup. This
// package persists string-encoded model property values, keyed by component
// name and binding path, in a bolt database. The comp package wires it to a
// model's change notifications.
package store

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ErrNoValue is returned by Get when nothing is stored under the key.
var ErrNoValue = errors.New("no stored value")

const bucketState = "state"

// Store is the storage backend interface.
type Store interface {
	// Get returns the value stored for a component's path, or ErrNoValue.
	Get(component, path string) (string, error)
	// Set stores the value for a component's path.
	Set(component, path, value string) error
	// Del removes the value stored for a component's path, if any.
	Del(component, path string) error
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

// Open opens the database file at dbPath, creating it if needed.
func Open(dbPath string) (Store, error) {
	db, err := bolt.Open(dbPath, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketState))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize state store: %w", err)
	}
	return &dbStore{db}, nil
}

// stateKey builds the bucket key. Component names may not contain NUL;
// binding paths never do.
func stateKey(component, path string) []byte {
	return []byte(component + "\x00" + path)
}

func (s *dbStore) Get(component, path string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketState))
		v := b.Get(stateKey(component, path))
		if v == nil {
			return ErrNoValue
		}
		value = string(v)
		return nil
	})
	return value, err
}

func (s *dbStore) Set(component, path, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketState))
		return b.Put(stateKey(component, path), []byte(value))
	})
}

func (s *dbStore) Del(component, path string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketState))
		return b.Delete(stateKey(component, path))
	})
}

func (s *dbStore) Close() error { return s.db.Close() }
