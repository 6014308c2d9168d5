package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core/admin"
	"github.com/trezcool/coursedesk/core/auth"
	"github.com/trezcool/coursedesk/core/mcq"
)

var errMCQNotFound = echo.NewHTTPError(http.StatusNotFound, "MCQ not found")

type MCQResponse struct {
	Success bool    `json:"success"`
	MCQ     mcq.MCQ `json:"mcq"`
}

type mcqApi struct {
	svc         *mcq.Service
	hideAnswers bool
	validate    *validator.Validate
}

func registerMCQAPI(g *echo.Group, gate *auth.Gate, svc *mcq.Service, hideAnswers bool, validate *validator.Validate) {
	api := mcqApi{
		svc:         svc,
		hideAnswers: hideAnswers,
		validate:    validate,
	}

	canWrite := authMiddleware(gate, admin.CapWriteMCQs)

	mg := g.Group("/mcqs")
	mg.GET("", api.query, optionalAuthMiddleware(gate))
	mg.POST("", api.create, canWrite)
	mg.DELETE("/:id", api.destroy, canWrite)
}

// Handlers

func (api *mcqApi) query(ctx echo.Context) error {
	hide := api.hideAnswers
	if claims, ok := getContextClaims(ctx); ok && claims.Can(admin.CapWriteMCQs) {
		hide = false
	}

	mcqs, err := api.svc.Query(ctx.Request().Context(), hide)
	if err != nil {
		return errors.Wrap(err, "querying MCQs")
	}
	if mcqs == nil {
		mcqs = []mcq.MCQ{}
	}
	return ctx.JSON(http.StatusOK, mcqs)
}

func (api *mcqApi) create(ctx echo.Context) error {
	var data mcq.NewMCQ
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMCQ")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	q, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating MCQ")
	}
	return ctx.JSON(http.StatusOK, MCQResponse{Success: true, MCQ: q})
}

func (api *mcqApi) destroy(ctx echo.Context) error {
	id, ok := pathID(ctx)
	if !ok {
		return errMCQNotFound
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		if errors.Cause(err) == mcq.ErrNotFound {
			return errMCQNotFound
		}
		return errors.Wrap(err, "deleting MCQ")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "MCQ deleted successfully"})
}
