package database

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core"
	"github.com/trezcool/coursedesk/core/document"
	"github.com/trezcool/coursedesk/core/submission"
)

type SubmissionRepository struct {
	store document.Store
	ids   *core.IDGenerator
}

var _ submission.Repository = (*SubmissionRepository)(nil)

func NewSubmissionRepository(store document.Store, ids *core.IDGenerator) *SubmissionRepository {
	return &SubmissionRepository{store: store, ids: ids}
}

func (repo *SubmissionRepository) QuerySubmissions(ctx context.Context) ([]submission.Submission, error) {
	return repo.store.Load(ctx).StudentSubmissions, nil
}

func (repo *SubmissionRepository) CreateSubmission(ctx context.Context, s submission.Submission) (submission.Submission, error) {
	err := repo.store.Update(ctx, func(doc *document.Document) error {
		s.ID = nextID(repo.ids, doc)
		doc.StudentSubmissions = append(doc.StudentSubmissions, s)
		return nil
	})
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "saving submission")
	}
	return s, nil
}
