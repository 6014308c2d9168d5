package database

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core"
	"github.com/trezcool/coursedesk/core/contact"
	"github.com/trezcool/coursedesk/core/document"
)

type MessageRepository struct {
	store document.Store
	ids   *core.IDGenerator
}

var _ contact.Repository = (*MessageRepository)(nil)

func NewMessageRepository(store document.Store, ids *core.IDGenerator) *MessageRepository {
	return &MessageRepository{store: store, ids: ids}
}

func (repo *MessageRepository) QueryMessages(ctx context.Context) ([]contact.Message, error) {
	return repo.store.Load(ctx).ContactMessages, nil
}

func (repo *MessageRepository) CreateMessage(ctx context.Context, m contact.Message) (contact.Message, error) {
	err := repo.store.Update(ctx, func(doc *document.Document) error {
		m.ID = nextID(repo.ids, doc)
		doc.ContactMessages = append(doc.ContactMessages, m)
		return nil
	})
	if err != nil {
		return contact.Message{}, errors.Wrap(err, "saving contact message")
	}
	return m, nil
}
