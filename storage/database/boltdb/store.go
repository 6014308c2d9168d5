// Package boltdb persists the app document in a bbolt file. Every Update is one bbolt transaction.
package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/trezcool/coursedesk/core"
	"github.com/trezcool/coursedesk/core/document"
)

var bucketName = []byte("collections")

type Store struct {
	db     *bbolt.DB
	logger core.Logger
}

var _ document.Store = (*Store)(nil)

// Open opens (or creates) the bbolt file at `path`. lockTimeout bounds the wait for the file lock
// held by another process.
func Open(path string, logger core.Logger, lockTimeout time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating database directory")
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: lockTimeout})
	if err != nil {
		if err == bbolt.ErrTimeout {
			return nil, document.ErrLockTimeout
		}
		return nil, errors.Wrap(err, "opening bolt database")
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		doc, err := readDocument(b)
		if err != nil {
			return err
		}
		return writeDocument(b, doc)
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "initializing bolt database")
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Load(ctx context.Context) document.Document {
	if err := ctx.Err(); err != nil {
		s.logger.Error("Error reading database", err)
		return document.New()
	}
	var doc document.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		doc, err = readDocument(tx.Bucket(bucketName))
		return err
	})
	if err != nil {
		s.logger.Error("Error reading database", err)
		return document.New()
	}
	doc.LogUnreadable(s.logger)
	return doc
}

func (s *Store) Save(ctx context.Context, doc document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return writeDocument(tx.Bucket(bucketName), doc)
	})
	if err != nil {
		s.logger.Error("Error writing to database", err)
	}
	return err
}

func (s *Store) Update(ctx context.Context, fn func(doc *document.Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		doc, err := readDocument(b)
		if err != nil {
			s.logger.Error("Error reading database", err)
			return err
		}
		if err = fn(&doc); err != nil {
			return err // rolls back
		}
		return writeDocument(b, doc)
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}

func readDocument(b *bbolt.Bucket) (document.Document, error) {
	var doc document.Document
	if b == nil {
		return document.Document{}, errors.New("bolt bucket missing")
	}
	for _, key := range document.Keys() {
		if err := doc.DecodeCollection(key, b.Get([]byte(key))); err != nil {
			return document.Document{}, err
		}
	}
	doc.Normalize()
	return doc, nil
}

func writeDocument(b *bbolt.Bucket, doc document.Document) error {
	doc.Normalize()
	for _, key := range document.Keys() {
		data, err := doc.EncodeCollection(key)
		if err != nil {
			return err
		}
		if err = b.Put([]byte(key), data); err != nil {
			return errors.Wrap(err, "storing "+key)
		}
	}
	return nil
}
