package database

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core"
	"github.com/trezcool/coursedesk/core/admin"
	"github.com/trezcool/coursedesk/core/document"
)

type AdminRepository struct {
	store document.Store
	ids   *core.IDGenerator
}

var _ admin.Repository = (*AdminRepository)(nil)

func NewAdminRepository(store document.Store, ids *core.IDGenerator) *AdminRepository {
	return &AdminRepository{store: store, ids: ids}
}

func (repo *AdminRepository) QueryAdmins(ctx context.Context) ([]admin.Admin, error) {
	return repo.store.Load(ctx).Admins, nil
}

func (repo *AdminRepository) GetAdminByUsername(ctx context.Context, username string) (admin.Admin, error) {
	if username != "" {
		for _, adm := range repo.store.Load(ctx).Admins {
			if adm.Username == username {
				return adm, nil
			}
		}
	}
	return admin.Admin{}, admin.ErrNotFound
}

func (repo *AdminRepository) CreateAdmin(ctx context.Context, adm admin.Admin) (admin.Admin, error) {
	err := repo.store.Update(ctx, func(doc *document.Document) error {
		for _, existing := range doc.Admins {
			if existing.Username == adm.Username {
				return admin.ErrUsernameExists
			}
		}
		adm.ID = nextID(repo.ids, doc)
		doc.Admins = append(doc.Admins, adm)
		return nil
	})
	if err != nil {
		return admin.Admin{}, errors.Wrap(err, "saving admin")
	}
	return adm, nil
}

func (repo *AdminRepository) UpdateAdmin(ctx context.Context, adm admin.Admin) (admin.Admin, error) {
	err := repo.store.Update(ctx, func(doc *document.Document) error {
		for i, existing := range doc.Admins {
			if existing.ID == adm.ID {
				doc.Admins[i] = adm
				return nil
			}
		}
		return admin.ErrNotFound
	})
	if err != nil {
		return admin.Admin{}, errors.Wrap(err, "updating admin")
	}
	return adm, nil
}
