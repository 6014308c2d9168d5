// Package testutil holds fixtures shared by the test suites.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/coursedesk/core"
	"github.com/trezcool/coursedesk/core/admin"
	"github.com/trezcool/coursedesk/storage/database/jsonfile"
)

// Logger is a core.Logger keeping every message in memory.
type Logger struct {
	mu       sync.Mutex
	messages []string
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("%s: %s %v", level, msg, args))
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg, args) }

// Messages returns the messages logged so far.
func (l *Logger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.messages...)
}

// NewConfig returns the configuration used by tests.
func NewConfig() *core.Config {
	return &core.Config{
		AppName:          "CourseDesk",
		Env:              "TEST",
		TestMode:         true,
		SecretKey:        "test-secret",
		DefaultFromEmail: "noreply@coursedesk.test",
		ContactRecipient: "Desk <desk@coursedesk.test>",
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
		},
		Database: core.DatabaseConfig{
			Engine:       "json",
			LockAttempts: 3,
			LockBackoff:  25 * time.Millisecond,
		},
	}
}

// NewStore opens a json document store in a fresh temporary directory.
func NewStore(t *testing.T) (*jsonfile.Store, *Logger) {
	t.Helper()
	logger := new(Logger)
	store, err := jsonfile.Open(filepath.Join(t.TempDir(), "db.json"), logger, jsonfile.Options{
		LockAttempts: 3,
		LockBackoff:  25 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("jsonfile.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, logger
}

// NewValidator returns a validator set up the way the apps set it up.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	admin.InitValidators(validate, translator)
	return validate, translator
}

func CreateAdmin(t *testing.T, repo admin.Repository, uname, pwd string) admin.Admin {
	t.Helper()
	adm := admin.Admin{Username: uname}
	if err := adm.SetPassword(pwd); err != nil {
		t.Fatalf("CreateAdmin() failed: %v", err)
	}
	adm, err := repo.CreateAdmin(context.Background(), adm)
	if err != nil {
		t.Fatalf("CreateAdmin() failed: %v", err)
	}
	return adm
}
