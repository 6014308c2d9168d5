package course

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("course not found")
)

type (
	Repository interface {
		QueryCourses(ctx context.Context) ([]Course, error)
		// CreateCourse assigns a fresh id to `c` and appends it.
		CreateCourse(ctx context.Context, c Course) (Course, error)
		// UpdateCourse applies `uc` to the first course with the given id.
		UpdateCourse(ctx context.Context, id int64, uc UpdateCourse) (Course, error)
		// DeleteCourse removes the first course with the given id.
		DeleteCourse(ctx context.Context, id int64) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Query(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryCourses(ctx)
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	c, err := svc.repo.CreateCourse(ctx, Course{Title: nc.Title, Description: nc.Description})
	return c, errors.Wrap(err, "creating course")
}

func (svc *Service) Update(ctx context.Context, id int64, uc UpdateCourse) (Course, error) {
	return svc.repo.UpdateCourse(ctx, id, uc)
}

func (svc *Service) Delete(ctx context.Context, id int64) error {
	return svc.repo.DeleteCourse(ctx, id)
}
