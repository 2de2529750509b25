package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/startsmart/property/core/course"
)

type courseApi struct {
	svc      course.Service
	validate *validator.Validate
}

func registerCourseAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc course.Service, validate *validator.Validate) {
	api := courseApi{svc: svc, validate: validate}

	cg := g.Group("/courses", authed...)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)

	lg := cg.Group("/:id/lessons/:lessonID")
	lg.GET("", api.retrieveLesson)
	lg.PUT("/complete", api.completeLesson)
	lg.GET("/note", api.retrieveNote)
	lg.PUT("/note", api.updateNote)

	tg := g.Group("/tracks", authed...)
	tg.GET("", api.queryTracks)
	tg.GET("/:id", api.retrieveTrack)

	g.GET("/library", api.library, authed...)
}

func (api *courseApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	filter := new(course.Filter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []course.CourseView{})
	}
	filter.Clean()

	courses, err := api.svc.ListCourses(ctx.Request().Context(), usr.ID, *filter)
	if err != nil {
		return errors.Wrap(err, "listing courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	c, err := api.svc.GetCourse(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) retrieveLesson(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	l, err := api.svc.GetLesson(ctx.Request().Context(), usr.ID, ctx.Param("id"), ctx.Param("lessonID"))
	if err != nil {
		return errors.Wrap(err, "getting lesson")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *courseApi) completeLesson(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data course.UpdateCompletion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCompletion")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	p, err := api.svc.CompleteLesson(ctx.Request().Context(), usr.ID, ctx.Param("id"), ctx.Param("lessonID"), *data.Completed)
	if err != nil {
		return errors.Wrap(err, "completing lesson")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *courseApi) retrieveNote(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	note, err := api.svc.GetNote(ctx.Request().Context(), usr.ID, ctx.Param("id"), ctx.Param("lessonID"))
	if err != nil {
		return errors.Wrap(err, "getting note")
	}
	return ctx.JSON(http.StatusOK, note)
}

func (api *courseApi) updateNote(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data course.UpdateNote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateNote")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	note, err := api.svc.SaveNote(ctx.Request().Context(), usr.ID, ctx.Param("id"), ctx.Param("lessonID"), data.Content)
	if err != nil {
		return errors.Wrap(err, "saving note")
	}
	return ctx.JSON(http.StatusOK, note)
}

func (api *courseApi) queryTracks(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	tracks, err := api.svc.ListTracks(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "listing tracks")
	}
	return ctx.JSON(http.StatusOK, tracks)
}

func (api *courseApi) retrieveTrack(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	t, err := api.svc.GetTrack(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting track")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *courseApi) library(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	lib, err := api.svc.Library(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting library")
	}
	return ctx.JSON(http.StatusOK, lib)
}
