package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ToluGIT/loop/core/student"
)

type studentApi struct {
	svc      student.ServiceInterface
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, svc student.ServiceInterface, validate *validator.Validate) {
	api := studentApi{
		svc:      svc,
		validate: validate,
	}

	g.GET("/campus", api.campus)

	sg := g.Group("/students")
	sg.GET("", api.query)

	// detail endpoints; ":id" also accepts student.FirstStudentID
	dg := sg.Group("/:id", studentMiddleware(svc))
	dg.GET("", api.retrieve)
	dg.GET("/dashboard", api.dashboard)
	dg.POST("/simulate", api.simulate)
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	students, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) dashboard(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, student.Dashboard{Student: s, Report: student.NewReport(s.Modules)})
}

func (api *studentApi) simulate(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving object from context")
	}

	var data student.Scenario
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Scenario")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	sim, err := api.svc.Simulate(ctx.Request().Context(), s.ID, data)
	if err != nil {
		return errors.Wrap(err, "simulating scenario")
	}
	return ctx.JSON(http.StatusOK, sim)
}

func (api *studentApi) campus(ctx echo.Context) error {
	stats, err := api.svc.Campus(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building campus stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}
