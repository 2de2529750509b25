package echoapi

import (
	"net/http"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/startsmart/property/core/deal"
)

type dealApi struct {
	svc      deal.Service
	validate *validator.Validate
}

func registerDealAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc deal.Service, validate *validator.Validate) {
	api := dealApi{svc: svc, validate: validate}

	dg := g.Group("/deals", authed...)
	dg.GET("/defaults", api.defaults)
	dg.POST("/analyze", api.analyze)
	dg.GET("/analyze", api.analyzeForm)
	dg.POST("", api.create)
	dg.GET("", api.query)
	dg.GET("/:id", api.retrieve)
	dg.GET("/:id/memo", api.memo)
	dg.POST("/:id/memo/email", api.emailMemo)
	dg.DELETE("/:id", api.destroy)
}

func (api *dealApi) defaults(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, deal.DefaultInputs())
}

func (api *dealApi) analyze(ctx echo.Context) error {
	var in deal.Inputs
	if err := ctx.Bind(&in); err != nil {
		return errors.Wrap(err, "binding to Inputs")
	}
	ev, err := api.svc.Analyze(ctx.Request().Context(), in)
	if err != nil {
		return errors.Wrap(err, "analyzing deal")
	}
	return ctx.JSON(http.StatusOK, ev)
}

// analyzeForm evaluates the raw form strings of the query, as typed in the analyzer.
func (api *dealApi) analyzeForm(ctx echo.Context) error {
	var form deal.FormInputs
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to FormInputs")
	}
	in, err := form.Parse()
	if err != nil {
		return err
	}
	ev, err := api.svc.Analyze(ctx.Request().Context(), in)
	if err != nil {
		return errors.Wrap(err, "analyzing deal")
	}
	return ctx.JSON(http.StatusOK, ev)
}

func (api *dealApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data deal.NewAnalysis
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnalysis")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Save(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "saving analysis")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *dealApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	analyses, err := api.svc.List(ctx.Request().Context(), usr.ID, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "listing analyses")
	}
	if analyses == nil {
		analyses = []deal.Analysis{}
	}
	return ctx.JSON(http.StatusOK, analyses)
}

func (api *dealApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	a, err := api.svc.Get(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting analysis")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *dealApi) memo(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	a, err := api.svc.Get(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting analysis")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+deal.MemoFilename(a)+`"`)
	return ctx.String(http.StatusOK, deal.Memo(a))
}

func (api *dealApi) emailMemo(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	to := mail.Address{Name: usr.Name, Address: usr.Email}
	if err := api.svc.EmailMemo(ctx.Request().Context(), to, usr.ID, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "emailing memo")
	}
	return ctx.JSON(http.StatusAccepted, SuccessResponse{Success: "The deal memo has been sent to " + usr.Email + "."})
}

func (api *dealApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err := api.svc.Delete(ctx.Request().Context(), usr.ID, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting analysis")
	}
	return ctx.NoContent(http.StatusNoContent)
}
