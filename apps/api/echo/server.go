package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/coursedesk/core"
	"github.com/trezcool/coursedesk/core/admin"
	"github.com/trezcool/coursedesk/core/auth"
	"github.com/trezcool/coursedesk/core/contact"
	"github.com/trezcool/coursedesk/core/course"
	"github.com/trezcool/coursedesk/core/mcq"
	"github.com/trezcool/coursedesk/core/submission"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		Gate          *auth.Gate
		AdminSvc      *admin.Service
		CourseSvc     *course.Service
		MCQSvc        *mcq.Service
		SubmissionSvc *submission.Service
		ContactSvc    *contact.Service

		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator)
	s.app.Debug = conf.Debug

	if conf.Server.StaticDir != "" {
		s.app.Static("/", conf.Server.StaticDir)
	}

	g := s.app.Group("/api")
	registerAuthAPI(g, s.deps.Gate, conf.Server.SecureCookies, s.deps.Validate)
	registerCourseAPI(g, s.deps.Gate, s.deps.CourseSvc, s.deps.Validate)
	registerMCQAPI(g, s.deps.Gate, s.deps.MCQSvc, conf.MCQ.HideAnswers, s.deps.Validate)
	registerAdminAPI(g, s.deps.Gate, s.deps.AdminSvc, s.deps.Validate)
	registerSubmissionAPI(g, s.deps.Gate, s.deps.SubmissionSvc, s.deps.Validate)
	registerContactAPI(g, s.deps.Gate, s.deps.ContactSvc, s.deps.Validate)
}

// Start listens on the configured address; listener errors are sent to Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
