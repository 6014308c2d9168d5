package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core/admin"
	"github.com/trezcool/coursedesk/core/auth"
)

type AdminResponse struct {
	Success bool       `json:"success"`
	Admin   admin.Info `json:"admin"`
}

type adminApi struct {
	svc      *admin.Service
	validate *validator.Validate
}

func registerAdminAPI(g *echo.Group, gate *auth.Gate, svc *admin.Service, validate *validator.Validate) {
	api := adminApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/admins")
	ag.GET("", api.query, authMiddleware(gate, admin.CapReadAdmins))
	ag.POST("", api.create, authMiddleware(gate, admin.CapWriteAdmins))
}

// Handlers

func (api *adminApi) query(ctx echo.Context) error {
	admins, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying admins")
	}
	return ctx.JSON(http.StatusOK, admins)
}

func (api *adminApi) create(ctx echo.Context) error {
	var data admin.NewAdmin
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAdmin")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	adm, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating admin")
	}
	return ctx.JSON(http.StatusOK, AdminResponse{Success: true, Admin: adm.Info()})
}
