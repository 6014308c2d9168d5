// Package jsonfile persists the app document as one indented JSON file guarded by an advisory lock.
package jsonfile

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core"
	"github.com/trezcool/coursedesk/core/document"
)

type Options struct {
	LockAttempts int
	LockBackoff  time.Duration
}

type Store struct {
	path   string
	lock   *fileLock
	logger core.Logger
}

var _ document.Store = (*Store)(nil)

// Open prepares the store at `path`, creating the parent directory and an empty document if needed.
func Open(path string, logger core.Logger, opts Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating database directory")
	}
	s := &Store{
		path:   path,
		lock:   newFileLock(path+".lock", opts.LockAttempts, opts.LockBackoff),
		logger: logger,
	}

	ctx := context.Background()
	err := s.Update(ctx, func(*document.Document) error { return nil }) // creates or normalizes the file
	if err != nil {
		return nil, errors.Wrap(err, "initializing database file")
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load(ctx context.Context) document.Document {
	release, err := s.lock.acquire(ctx)
	if err != nil {
		s.logger.Error("Error reading database", errors.Wrap(err, "acquiring lock"))
		return document.New()
	}
	defer s.release(release)

	doc, err := s.read()
	if err != nil {
		s.logger.Error("Error reading database", err)
		return document.New()
	}
	return doc
}

func (s *Store) Save(ctx context.Context, doc document.Document) error {
	release, err := s.lock.acquire(ctx)
	if err != nil {
		s.logger.Error("Error writing to database", errors.Wrap(err, "acquiring lock"))
		return err
	}
	defer s.release(release)

	if err = s.write(doc); err != nil {
		s.logger.Error("Error writing to database", err)
		return err
	}
	return nil
}

func (s *Store) Update(ctx context.Context, fn func(doc *document.Document) error) error {
	release, err := s.lock.acquire(ctx)
	if err != nil {
		return err
	}
	defer s.release(release)

	doc, err := s.read()
	switch {
	case os.IsNotExist(errors.Cause(err)):
		doc = document.New()
	case err != nil:
		// never overwrite a document we could not read
		s.logger.Error("Error reading database", err)
		return err
	}

	if err = fn(&doc); err != nil {
		return err
	}
	if err = s.write(doc); err != nil {
		s.logger.Error("Error writing to database", err)
		return err
	}
	return nil
}

func (s *Store) Close() error {
	return s.lock.close()
}

func (s *Store) release(release func() error) {
	if err := release(); err != nil {
		s.logger.Error("Error releasing database lock", err)
	}
}

func (s *Store) read() (document.Document, error) {
	data, err := ioutil.ReadFile(s.path)
	if err != nil {
		return document.Document{}, errors.Wrap(err, "reading database file")
	}
	var doc document.Document
	if err = json.Unmarshal(data, &doc); err != nil {
		if errors.Cause(err) == document.ErrCorrupt {
			return document.Document{}, err
		}
		return document.Document{}, errors.Wrap(document.ErrCorrupt, err.Error())
	}
	doc.LogUnreadable(s.logger)
	return doc, nil
}

// write replaces the database file atomically: a reader never sees a partially written document.
func (s *Store) write(doc document.Document) error {
	doc.Normalize()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding database document")
	}

	tmp, err := ioutil.TempFile(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating temp database file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }() // no-op once renamed

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing temp database file")
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "syncing temp database file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp database file")
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(err, "setting database file mode")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path), "replacing database file")
}
