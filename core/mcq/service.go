package mcq

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("MCQ not found")
)

type (
	Repository interface {
		QueryMCQs(ctx context.Context) ([]MCQ, error)
		CreateMCQ(ctx context.Context, q MCQ) (MCQ, error)
		DeleteMCQ(ctx context.Context, id int64) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Query lists all MCQs. With hideAnswers set, correct answers are stripped.
func (svc *Service) Query(ctx context.Context, hideAnswers bool) ([]MCQ, error) {
	mcqs, err := svc.repo.QueryMCQs(ctx)
	if err != nil || !hideAnswers {
		return mcqs, err
	}
	stripped := make([]MCQ, 0, len(mcqs))
	for _, q := range mcqs {
		stripped = append(stripped, q.WithoutAnswer())
	}
	return stripped, nil
}

func (svc *Service) Create(ctx context.Context, nq NewMCQ) (MCQ, error) {
	q, err := svc.repo.CreateMCQ(ctx, nq.MCQ())
	return q, errors.Wrap(err, "creating MCQ")
}

func (svc *Service) Delete(ctx context.Context, id int64) error {
	return svc.repo.DeleteMCQ(ctx, id)
}
