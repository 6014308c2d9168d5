package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core/admin"
	"github.com/trezcool/coursedesk/core/auth"
	"github.com/trezcool/coursedesk/core/contact"
)

type contactApi struct {
	svc      *contact.Service
	validate *validator.Validate
}

func registerContactAPI(g *echo.Group, gate *auth.Gate, svc *contact.Service, validate *validator.Validate) {
	api := contactApi{
		svc:      svc,
		validate: validate,
	}

	g.POST("/contact", api.create)
	g.GET("/contact-messages", api.query, authMiddleware(gate, admin.CapReadMessages))
}

// Handlers

func (api *contactApi) query(ctx echo.Context) error {
	msgs, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying contact messages")
	}
	if msgs == nil {
		msgs = []contact.Message{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *contactApi) create(ctx echo.Context) error {
	var data contact.NewMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.Create(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "creating contact message")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Message sent successfully!"})
}
