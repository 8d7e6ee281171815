package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/directory"
)

type directoryApi struct {
	svc directory.ServiceInterface
}

func registerDirectoryAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc directory.ServiceInterface) {
	api := directoryApi{svc: svc}

	dg := g.Group("", jwt)
	dg.GET("/subjects", api.querySubjects)
	dg.GET("/classrooms", api.queryClassrooms)
	dg.GET("/teachers", api.queryTeachers)
}

func (api *directoryApi) querySubjects(ctx echo.Context) error {
	subjects, err := api.svc.QuerySubjects(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *directoryApi) queryClassrooms(ctx echo.Context) error {
	classrooms, err := api.svc.QueryClassrooms(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classrooms")
	}
	return ctx.JSON(http.StatusOK, classrooms)
}

func (api *directoryApi) queryTeachers(ctx echo.Context) error {
	teachers, err := api.svc.QueryTeachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}
