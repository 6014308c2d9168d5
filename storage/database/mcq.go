package database

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core"
	"github.com/trezcool/coursedesk/core/document"
	"github.com/trezcool/coursedesk/core/mcq"
)

type MCQRepository struct {
	store document.Store
	ids   *core.IDGenerator
}

var _ mcq.Repository = (*MCQRepository)(nil)

func NewMCQRepository(store document.Store, ids *core.IDGenerator) *MCQRepository {
	return &MCQRepository{store: store, ids: ids}
}

func (repo *MCQRepository) QueryMCQs(ctx context.Context) ([]mcq.MCQ, error) {
	return repo.store.Load(ctx).MCQs, nil
}

func (repo *MCQRepository) CreateMCQ(ctx context.Context, q mcq.MCQ) (mcq.MCQ, error) {
	err := repo.store.Update(ctx, func(doc *document.Document) error {
		q.ID = nextID(repo.ids, doc)
		doc.MCQs = append(doc.MCQs, q)
		return nil
	})
	if err != nil {
		return mcq.MCQ{}, errors.Wrap(err, "saving MCQ")
	}
	return q, nil
}

func (repo *MCQRepository) DeleteMCQ(ctx context.Context, id int64) error {
	err := repo.store.Update(ctx, func(doc *document.Document) error {
		for i, q := range doc.MCQs {
			if q.ID == id {
				doc.MCQs = append(doc.MCQs[:i], doc.MCQs[i+1:]...)
				return nil
			}
		}
		return mcq.ErrNotFound
	})
	return errors.Wrap(err, "deleting MCQ")
}
