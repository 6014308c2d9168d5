package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/trezcool/coursedesk/core/course"
	"github.com/trezcool/coursedesk/core/document"
	"github.com/trezcool/coursedesk/core/submission"
	"github.com/trezcool/coursedesk/tests"
)

func openStore(t *testing.T) (*Store, string) {
	path := filepath.Join(t.TempDir(), "db.bolt")
	store, err := Open(path, new(testutil.Logger), 50*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestStore_SaveLoad(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	assert.Equal(t, document.New(), store.Load(ctx))

	doc := document.New()
	doc.Users = []map[string]interface{}{{"name": "legacy"}}
	doc.Courses = []course.Course{{ID: 1, Title: "Go"}}
	doc.StudentSubmissions = []submission.Submission{{
		ID: 2, StudentName: "Ada", Score: 7, Date: time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC),
	}}
	require.NoError(t, store.Save(ctx, doc))
	assert.Equal(t, doc, store.Load(ctx))
}

func TestStore_Update(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(doc *document.Document) error {
		doc.Courses = append(doc.Courses, course.Course{ID: 1, Title: "Go"})
		return nil
	}))

	errBoom := errors.New("boom")
	err := store.Update(ctx, func(doc *document.Document) error {
		doc.Courses = append(doc.Courses, course.Course{ID: 2, Title: "rolled back"})
		return errBoom
	})
	assert.Equal(t, errBoom, err)
	assert.Equal(t, []course.Course{{ID: 1, Title: "Go"}}, store.Load(ctx).Courses)
}

func TestStore_Load_corrupt(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	require.NoError(t, store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte("courses"), []byte("{"))
	}))

	assert.Equal(t, document.New(), store.Load(ctx))
	err := store.Update(ctx, func(doc *document.Document) error { return nil })
	assert.Equal(t, document.ErrCorrupt, errors.Cause(err))
}

func TestOpen_lockTimeout(t *testing.T) {
	_, path := openStore(t)

	_, err := Open(path, new(testutil.Logger), 20*time.Millisecond)
	assert.Equal(t, document.ErrLockTimeout, err)
}

func TestStore_unreadableRecord(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	bad := `{"id": 2, "studentName": "Ada", "score": "8/10", "date": "2024-05-01"}`
	require.NoError(t, store.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if err := b.Put([]byte("courses"), []byte(`[{"id": 1, "title": "Go"}]`)); err != nil {
			return err
		}
		return b.Put([]byte("studentSubmissions"), []byte("["+bad+"]"))
	}))

	doc := store.Load(ctx)
	assert.Equal(t, []course.Course{{ID: 1, Title: "Go"}}, doc.Courses)
	assert.Empty(t, doc.StudentSubmissions)

	require.NoError(t, store.Update(ctx, func(doc *document.Document) error {
		doc.Courses = append(doc.Courses, course.Course{ID: 3, Title: "SQL"})
		return nil
	}))
	require.NoError(t, store.db.View(func(tx *bbolt.Tx) error {
		assert.JSONEq(t, "["+bad+"]", string(tx.Bucket(bucketName).Get([]byte("studentSubmissions"))))
		return nil
	}))
	assert.Len(t, store.Load(ctx).Courses, 2)
}
