package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/startsmart/property/core/assistant"
)

type assistantApi struct {
	svc      assistant.Service
	validate *validator.Validate
}

func registerAssistantAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc assistant.Service, validate *validator.Validate) {
	api := assistantApi{svc: svc, validate: validate}

	ag := g.Group("/assistant", authed...)
	ag.GET("/messages", api.queryMessages)
	ag.POST("/messages", api.send)
	ag.POST("/analyze", api.analyze)
	ag.GET("/suggestions", api.suggestions)
	ag.GET("/market-tip", api.marketTip)
}

func (api *assistantApi) queryMessages(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, api.svc.History(ctx.Request().Context(), usr.ID))
}

func (api *assistantApi) send(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data assistant.NewSendMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSendMessage")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	reply, err := api.svc.Send(ctx.Request().Context(), usr.ID, data.Content)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	return ctx.JSON(http.StatusOK, reply)
}

// analyze turns a deal snapshot handed off by the analyzer into the prompt prefilling the chat.
func (api *assistantApi) analyze(ctx echo.Context) error {
	var data assistant.AnalyzeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AnalyzeRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	res, err := api.svc.Analyze(ctx.Request().Context(), data.Analyze)
	if err != nil {
		return errors.Wrap(err, "analyzing snapshot")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *assistantApi) suggestions(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, assistant.Suggestions())
}

func (api *assistantApi) marketTip(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.MarketTip(ctx.Request().Context()))
}
