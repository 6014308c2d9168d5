package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core/admin"
	"github.com/trezcool/coursedesk/core/auth"
	"github.com/trezcool/coursedesk/core/course"
)

var errCourseNotFound = echo.NewHTTPError(http.StatusNotFound, "Course not found")

type CourseResponse struct {
	Success bool          `json:"success"`
	Course  course.Course `json:"course"`
}

type courseApi struct {
	svc      *course.Service
	validate *validator.Validate
}

func registerCourseAPI(g *echo.Group, gate *auth.Gate, svc *course.Service, validate *validator.Validate) {
	api := courseApi{
		svc:      svc,
		validate: validate,
	}

	// route-level middleware: a group middleware would also catch the public GET
	canWrite := authMiddleware(gate, admin.CapWriteCourses)

	cg := g.Group("/courses")
	cg.GET("", api.query)
	cg.POST("", api.create, canWrite)
	cg.PUT("/:id", api.update, canWrite)
	cg.DELETE("/:id", api.destroy, canWrite)
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	courses, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusOK, CourseResponse{Success: true, Course: c})
}

func (api *courseApi) update(ctx echo.Context) error {
	id, ok := pathID(ctx)
	if !ok {
		return errCourseNotFound
	}

	var data course.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errCourseNotFound
		}
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, CourseResponse{Success: true, Course: c})
}

func (api *courseApi) destroy(ctx echo.Context) error {
	id, ok := pathID(ctx)
	if !ok {
		return errCourseNotFound
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errCourseNotFound
		}
		return errors.Wrap(err, "deleting course")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Course deleted successfully"})
}

// pathID parses the `:id` path param; ids are positive integers.
func pathID(ctx echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
