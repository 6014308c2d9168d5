package database

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core"
	"github.com/trezcool/coursedesk/core/course"
	"github.com/trezcool/coursedesk/core/document"
)

type CourseRepository struct {
	store document.Store
	ids   *core.IDGenerator
}

var _ course.Repository = (*CourseRepository)(nil)

func NewCourseRepository(store document.Store, ids *core.IDGenerator) *CourseRepository {
	return &CourseRepository{store: store, ids: ids}
}

func (repo *CourseRepository) QueryCourses(ctx context.Context) ([]course.Course, error) {
	return repo.store.Load(ctx).Courses, nil
}

func (repo *CourseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	err := repo.store.Update(ctx, func(doc *document.Document) error {
		c.ID = nextID(repo.ids, doc)
		doc.Courses = append(doc.Courses, c)
		return nil
	})
	if err != nil {
		return course.Course{}, errors.Wrap(err, "saving course")
	}
	return c, nil
}

func (repo *CourseRepository) UpdateCourse(ctx context.Context, id int64, uc course.UpdateCourse) (course.Course, error) {
	var updated course.Course
	err := repo.store.Update(ctx, func(doc *document.Document) error {
		idx := findCourse(doc.Courses, id)
		if idx < 0 {
			return course.ErrNotFound
		}
		updated = uc.Apply(doc.Courses[idx])
		doc.Courses[idx] = updated
		return nil
	})
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	return updated, nil
}

func (repo *CourseRepository) DeleteCourse(ctx context.Context, id int64) error {
	err := repo.store.Update(ctx, func(doc *document.Document) error {
		idx := findCourse(doc.Courses, id)
		if idx < 0 {
			return course.ErrNotFound
		}
		doc.Courses = append(doc.Courses[:idx], doc.Courses[idx+1:]...)
		return nil
	})
	return errors.Wrap(err, "deleting course")
}

func findCourse(courses []course.Course, id int64) int {
	for i, c := range courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}
