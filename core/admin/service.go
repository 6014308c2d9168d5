package admin

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core"
)

var (
	// errors
	ErrNotFound       = errors.New("admin not found")
	ErrUsernameExists = errors.New("an admin with this username already exists")
)

type (
	Repository interface {
		QueryAdmins(ctx context.Context) ([]Admin, error)
		// GetAdminByUsername returns the first admin with the given username.
		GetAdminByUsername(ctx context.Context, username string) (Admin, error)
		// CreateAdmin assigns a fresh id; fails with ErrUsernameExists if the username is taken.
		CreateAdmin(ctx context.Context, adm Admin) (Admin, error)
		UpdateAdmin(ctx context.Context, adm Admin) (Admin, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, na NewAdmin) (Admin, error) {
	adm := Admin{Username: core.CleanString(na.Username, true /* lower */)}
	if err := adm.SetPassword(na.Password); err != nil {
		return Admin{}, errors.Wrap(err, "hashing password")
	}
	adm, err := svc.repo.CreateAdmin(ctx, adm)
	if err != nil {
		if errors.Cause(err) == ErrUsernameExists {
			return Admin{}, core.NewValidationError(ErrUsernameExists, core.FieldError{Field: "username", Error: ErrUsernameExists.Error()})
		}
		return Admin{}, errors.Wrap(err, "creating admin")
	}
	return adm, nil
}

func (svc *Service) Query(ctx context.Context) ([]Info, error) {
	admins, err := svc.repo.QueryAdmins(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]Info, 0, len(admins))
	for _, adm := range admins {
		infos = append(infos, adm.Info())
	}
	return infos, nil
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (Admin, error) {
	return svc.repo.GetAdminByUsername(ctx, core.CleanString(uname, true /* lower */))
}

// SetPassword replaces the password of the admin with the given username.
func (svc *Service) SetPassword(ctx context.Context, uname, pwd string) (Admin, error) {
	adm, err := svc.GetByUsername(ctx, uname)
	if err != nil {
		return Admin{}, err
	}
	if err = adm.SetPassword(pwd); err != nil {
		return Admin{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.UpdateAdmin(ctx, adm)
}
