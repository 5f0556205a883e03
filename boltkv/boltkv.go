// Package boltkv backs strata containers with a Bolt database. Each Store
// keeps all data in a single bucket; Bolt's transactions give the usual
// single-writer, many-reader isolation around container operations.
//
// Bolt forbids empty keys, so an Item bound directly to the store root
// cannot be written. Scope it through a strata.Branch (or nest it in a
// Map) so its key gets a prefix.
package boltkv

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/stratakv/strata"
)

type Options struct {
	IsTesting bool
	MmapSize  int
}

// Store is a Bolt database holding one keyspace for containers.
type Store struct {
	bdb    *bbolt.DB
	bucket []byte
}

// Open opens or creates the database at path, data living in the named
// bucket.
func Open(path, bucket string, opt Options) (*Store, error) {
	bopt := &bbolt.Options{}
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.InitialMmapSize = 1024 * 1024 * 1024
		bopt.FreelistType = bbolt.FreelistMapType
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}

	bdb, err := bbolt.Open(path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("boltkv: %w", err)
	}

	name := []byte(bucket)
	err = bdb.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(name)
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("boltkv: %w", err)
	}
	return &Store{bdb: bdb, bucket: name}, nil
}

func (s *Store) Close() error {
	return s.bdb.Close()
}

// Bolt exposes the underlying database for maintenance tasks.
func (s *Store) Bolt() *bbolt.DB {
	return s.bdb
}

// View runs f inside a read-only transaction. The storage is only valid
// for the duration of f, and returned byte slices are copied out of the
// transaction's pages, so they stay valid afterwards.
func (s *Store) View(f func(strata.Storage) error) error {
	return s.bdb.View(func(btx *bbolt.Tx) error {
		return f(strata.NewStorage(NewBucket(btx.Bucket(s.bucket))))
	})
}

// Update runs f inside a writable transaction. Changes are committed when
// f returns nil and rolled back otherwise.
func (s *Store) Update(f func(strata.StorageMut) error) error {
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		return f(strata.NewStorage(NewBucket(btx.Bucket(s.bucket))))
	})
}
