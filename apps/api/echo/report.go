package echoapi

import (
	"net/http"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/report"
)

type reportApi struct {
	svc        report.ServiceInterface
	validate   *validator.Validate
	translator ut.Translator
}

func registerReportAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc report.ServiceInterface,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := reportApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	rg := g.Group("/reports", jwt, teacherMiddleware())
	rg.GET("", api.query)
	rg.GET("/resolve", api.resolve)
	rg.PUT("/draft", api.saveDraft)

	dg := rg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PATCH("/periods/:number/signature", api.signPeriod)
	dg.POST("/submit", api.submit)
}

// Handlers

func (api *reportApi) query(ctx echo.Context) error {
	var filter report.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	var ord Ordering
	ord.Bind(ctx)

	reports, err := api.svc.Filter(ctx.Request().Context(), filter, ord.Orderings...)
	if err != nil {
		return errors.Wrap(err, "filtering reports")
	}
	return ctx.JSON(http.StatusOK, reports)
}

// resolve finds the report for (class_name, date), creating a default draft
// when none exists. A lost concurrent-create race is resolved by adopting the
// winning row, never by surfacing an error to the user.
func (api *reportApi) resolve(ctx echo.Context) error {
	className := core.CleanString(ctx.QueryParam("class_name"))
	if className == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "class_name", Error: "this field is required"})
	}
	date, err := core.ParseDate(ctx.QueryParam("date"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "a valid date is required"})
	}
	teacherID, err := actingTeacherID(ctx)
	if err != nil {
		return err
	}

	rpt, err := api.svc.Resolve(ctx.Request().Context(), className, date, teacherID)
	if err != nil {
		return errors.Wrap(err, "resolving report")
	}
	return ctx.JSON(http.StatusOK, rpt)
}

func (api *reportApi) saveDraft(ctx echo.Context) error {
	var data report.DraftReport
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DraftReport")
	}
	acting, err := actingActor(ctx)
	if err != nil {
		return err
	}
	data.Acting = acting
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	rpt, err := api.svc.SaveDraft(ctx.Request().Context(), data)
	if errors.Cause(err) == report.ErrDuplicateReport {
		// lost a concurrent-create race: the key now exists, so one retry
		// takes the update path against the winning row
		rpt, err = api.svc.SaveDraft(ctx.Request().Context(), data)
	}
	if err != nil {
		return errors.Wrap(err, "saving draft")
	}
	return ctx.JSON(http.StatusOK, rpt)
}

func (api *reportApi) retrieve(ctx echo.Context) error {
	rpt, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting report")
	}
	return ctx.JSON(http.StatusOK, rpt)
}

func (api *reportApi) signPeriod(ctx echo.Context) error {
	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil {
		return errHttpNotFound
	}
	var data report.SignPeriodRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SignPeriodRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	acting, err := actingActor(ctx)
	if err != nil {
		return err
	}

	rpt, err := api.svc.SignPeriod(ctx.Request().Context(), ctx.Param("id"), number, data.Signature, acting)
	if err != nil {
		return errors.Wrap(err, "signing period")
	}
	return ctx.JSON(http.StatusOK, rpt)
}

func (api *reportApi) submit(ctx echo.Context) error {
	rpt, err := api.svc.Submit(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "submitting report")
	}
	return ctx.JSON(http.StatusOK, rpt)
}
