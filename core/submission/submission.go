package submission

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core"
)

type Submission struct {
	ID          int64     `json:"id"`
	StudentName string    `json:"studentName"`
	Score       float64   `json:"score"`
	Date        time.Time `json:"date"`
}

// NewSubmission is what a student posts at the end of a quiz. Date defaults to the reception time.
type NewSubmission struct {
	StudentName string    `json:"studentName" validate:"required,notblank,max=200"`
	Score       *float64  `json:"score" validate:"required,min=0"`
	Date        time.Time `json:"date"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.StudentName = core.CleanString(ns.StudentName)
	return validate.Struct(ns)
}

type (
	// Repository stores submissions; they are append-only.
	Repository interface {
		QuerySubmissions(ctx context.Context) ([]Submission, error)
		CreateSubmission(ctx context.Context, s Submission) (Submission, error)
	}

	Service struct {
		repo    Repository
		nowFunc func() time.Time
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, nowFunc: time.Now}
}

func (svc *Service) Query(ctx context.Context) ([]Submission, error) {
	return svc.repo.QuerySubmissions(ctx)
}

func (svc *Service) Create(ctx context.Context, ns NewSubmission) (Submission, error) {
	s := Submission{StudentName: ns.StudentName, Date: ns.Date.UTC()}
	if ns.Score != nil {
		s.Score = *ns.Score
	}
	if ns.Date.IsZero() {
		s.Date = svc.nowFunc().UTC()
	}
	s, err := svc.repo.CreateSubmission(ctx, s)
	return s, errors.Wrap(err, "creating submission")
}
