package database

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core"
	"github.com/trezcool/coursedesk/core/document"
	"github.com/trezcool/coursedesk/storage/database/boltdb"
	"github.com/trezcool/coursedesk/storage/database/jsonfile"
)

// Supported engines
const (
	EngineJSON = "json"
	EngineBolt = "bolt"
)

// Open opens the document store selected by conf.Database.Engine.
func Open(conf *core.Config, logger core.Logger) (document.Store, error) {
	dbConf := conf.Database
	switch dbConf.Engine {
	case EngineJSON, "":
		store, err := jsonfile.Open(dbConf.Path, logger, jsonfile.Options{
			LockAttempts: dbConf.LockAttempts,
			LockBackoff:  dbConf.LockBackoff,
		})
		return store, errors.Wrap(err, "opening json database")
	case EngineBolt:
		// same overall wait as the json engine's linear backoff
		var wait time.Duration
		for attempt := 1; attempt < dbConf.LockAttempts; attempt++ {
			wait += time.Duration(attempt) * dbConf.LockBackoff
		}
		store, err := boltdb.Open(dbConf.Path, logger, wait)
		return store, errors.Wrap(err, "opening bolt database")
	default:
		return nil, fmt.Errorf("unknown database engine %q", dbConf.Engine)
	}
}

// Repositories bundles every repository built over one document.Store.
type Repositories struct {
	Admins      *AdminRepository
	Courses     *CourseRepository
	MCQs        *MCQRepository
	Submissions *SubmissionRepository
	Messages    *MessageRepository
}

// NewRepositories builds all repositories over `store`; they share one id generator.
func NewRepositories(store document.Store) Repositories {
	ids := core.NewIDGenerator()
	return Repositories{
		Admins:      NewAdminRepository(store, ids),
		Courses:     NewCourseRepository(store, ids),
		MCQs:        NewMCQRepository(store, ids),
		Submissions: NewSubmissionRepository(store, ids),
		Messages:    NewMessageRepository(store, ids),
	}
}

// nextID returns an id unique within doc and among ids handed out before.
// Must be called inside a Store.Update callback.
func nextID(ids *core.IDGenerator, doc *document.Document) int64 {
	ids.Observe(doc.MaxID())
	return ids.Next()
}
