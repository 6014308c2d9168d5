// Package document defines the single JSON document holding every collection of the app,
// and the Store contract its backends implement.
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core"
	"github.com/trezcool/coursedesk/core/admin"
	"github.com/trezcool/coursedesk/core/contact"
	"github.com/trezcool/coursedesk/core/course"
	"github.com/trezcool/coursedesk/core/mcq"
	"github.com/trezcool/coursedesk/core/submission"
)

var (
	// errors
	ErrLockTimeout = errors.New("timed out acquiring the database lock")
	ErrCorrupt     = errors.New("database document is malformed")
)

// Document is the root object persisted by a Store. Every collection is always present.
type Document struct {
	Users              []map[string]interface{} `json:"users"`
	Courses            []course.Course          `json:"courses"`
	MCQs               []mcq.MCQ                `json:"mcqs"`
	StudentSubmissions []submission.Submission  `json:"studentSubmissions"`
	Admins             []admin.Admin            `json:"admins"`
	ContactMessages    []contact.Message        `json:"contactMessages"`

	// Unreadable holds, per collection key, the records that failed to decode.
	// They are hidden from the typed collections and written back untouched.
	Unreadable map[string][]json.RawMessage `json:"-"`
}

// collection keys, in file order
var keys = []string{"users", "courses", "mcqs", "studentSubmissions", "admins", "contactMessages"}

// Keys returns the key of every collection, in file order.
func Keys() []string {
	return append([]string(nil), keys...)
}

// collection returns a pointer to the slice stored under `key`.
func (doc *Document) collection(key string) (interface{}, bool) {
	switch key {
	case "users":
		return &doc.Users, true
	case "courses":
		return &doc.Courses, true
	case "mcqs":
		return &doc.MCQs, true
	case "studentSubmissions":
		return &doc.StudentSubmissions, true
	case "admins":
		return &doc.Admins, true
	case "contactMessages":
		return &doc.ContactMessages, true
	}
	return nil, false
}

// DecodeCollection replaces the collection `key` with the records of the JSON array `data`.
// A record that does not decode is kept in Unreadable instead of failing the whole document;
// only a collection that is not an array is ErrCorrupt.
func (doc *Document) DecodeCollection(key string, data []byte) error {
	dst, ok := doc.collection(key)
	if !ok {
		return errors.Errorf("unknown collection %q", key)
	}
	delete(doc.Unreadable, key)

	var records []json.RawMessage
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return errors.Wrap(ErrCorrupt, key+": "+err.Error())
		}
	}

	slice := reflect.ValueOf(dst).Elem()
	slice.Set(reflect.MakeSlice(slice.Type(), 0, len(records)))
	for _, rec := range records {
		item := reflect.New(slice.Type().Elem())
		if bytes.Equal(bytes.TrimSpace(rec), []byte("null")) || json.Unmarshal(rec, item.Interface()) != nil {
			if doc.Unreadable == nil {
				doc.Unreadable = make(map[string][]json.RawMessage)
			}
			doc.Unreadable[key] = append(doc.Unreadable[key], rec)
			continue
		}
		slice.Set(reflect.Append(slice, item.Elem()))
	}
	return nil
}

// EncodeCollection returns the collection `key` as a JSON array, unreadable records last.
func (doc *Document) EncodeCollection(key string) (json.RawMessage, error) {
	src, ok := doc.collection(key)
	if !ok {
		return nil, errors.Errorf("unknown collection %q", key)
	}
	slice := reflect.ValueOf(src).Elem()
	records := make([]json.RawMessage, 0, slice.Len()+len(doc.Unreadable[key]))
	for i := 0; i < slice.Len(); i++ {
		rec, err := json.Marshal(slice.Index(i).Interface())
		if err != nil {
			return nil, errors.Wrap(err, "encoding "+key)
		}
		records = append(records, rec)
	}
	records = append(records, doc.Unreadable[key]...)

	data, err := json.Marshal(records)
	if err != nil {
		return nil, errors.Wrap(err, "encoding "+key)
	}
	return data, nil
}

// rawDocument fixes the key order of the encoded document.
type rawDocument struct {
	Users              json.RawMessage `json:"users"`
	Courses            json.RawMessage `json:"courses"`
	MCQs               json.RawMessage `json:"mcqs"`
	StudentSubmissions json.RawMessage `json:"studentSubmissions"`
	Admins             json.RawMessage `json:"admins"`
	ContactMessages    json.RawMessage `json:"contactMessages"`
}

func (doc Document) MarshalJSON() ([]byte, error) {
	doc.Normalize()
	var raw rawDocument
	fields := map[string]*json.RawMessage{
		"users":              &raw.Users,
		"courses":            &raw.Courses,
		"mcqs":               &raw.MCQs,
		"studentSubmissions": &raw.StudentSubmissions,
		"admins":             &raw.Admins,
		"contactMessages":    &raw.ContactMessages,
	}
	for _, key := range keys {
		data, err := doc.EncodeCollection(key)
		if err != nil {
			return nil, err
		}
		*fields[key] = data
	}
	return json.Marshal(raw)
}

func (doc *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*doc = Document{}
	for _, key := range keys {
		if err := doc.DecodeCollection(key, raw[key]); err != nil {
			return err
		}
	}
	doc.Normalize()
	return nil
}

// LogUnreadable reports the records of doc that failed to decode.
func (doc *Document) LogUnreadable(logger core.Logger) {
	for _, key := range keys {
		if n := len(doc.Unreadable[key]); n > 0 {
			logger.Warn(fmt.Sprintf("Skipping %d unreadable record(s) in %s", n, key))
		}
	}
}

// New returns the default document: all collections empty.
func New() Document {
	var doc Document
	doc.Normalize()
	return doc
}

// Normalize replaces missing collections with empty ones.
func (doc *Document) Normalize() {
	if doc.Users == nil {
		doc.Users = []map[string]interface{}{}
	}
	if doc.Courses == nil {
		doc.Courses = []course.Course{}
	}
	if doc.MCQs == nil {
		doc.MCQs = []mcq.MCQ{}
	}
	if doc.StudentSubmissions == nil {
		doc.StudentSubmissions = []submission.Submission{}
	}
	if doc.Admins == nil {
		doc.Admins = []admin.Admin{}
	}
	if doc.ContactMessages == nil {
		doc.ContactMessages = []contact.Message{}
	}
}

// MaxID returns the greatest record id across all collections.
func (doc *Document) MaxID() int64 {
	var max int64
	check := func(id int64) {
		if id > max {
			max = id
		}
	}
	for _, c := range doc.Courses {
		check(c.ID)
	}
	for _, q := range doc.MCQs {
		check(q.ID)
	}
	for _, s := range doc.StudentSubmissions {
		check(s.ID)
	}
	for _, a := range doc.Admins {
		check(a.ID)
	}
	for _, m := range doc.ContactMessages {
		check(m.ID)
	}
	for _, recs := range doc.Unreadable {
		for _, rec := range recs {
			var r struct {
				ID int64 `json:"id"`
			}
			if json.Unmarshal(rec, &r) == nil {
				check(r.ID)
			}
		}
	}
	return max
}

// Store owns the persisted Document.
type Store interface {
	// Load returns the persisted document. It never fails: on error it reports the failure
	// and returns New().
	Load(ctx context.Context) Document
	// Save overwrites the persisted document.
	Save(ctx context.Context, doc Document) error
	// Update runs fn on the persisted document and saves the result, all under a single lock.
	// Nothing is written if fn returns an error.
	Update(ctx context.Context, fn func(doc *Document) error) error
	Close() error
}
