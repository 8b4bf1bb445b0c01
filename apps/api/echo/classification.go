package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ToluGIT/loop/core/grade"
	"github.com/ToluGIT/loop/core/student"
)

// GradeNeededResponse is the average needed on the remaining work to reach Classification.
type GradeNeededResponse struct {
	Classification grade.Classification `json:"classification"`
	grade.Requirement
}

type classificationApi struct {
	validate *validator.Validate
}

// registerClassificationAPI exposes the engine over ad-hoc modules, without any stored student.
func registerClassificationAPI(g *echo.Group, validate *validator.Validate) {
	api := classificationApi{validate: validate}

	g.POST("/classification", api.evaluate)
	g.POST("/grade-needed", api.gradeNeeded)
}

// Handlers

func (api *classificationApi) evaluate(ctx echo.Context) error {
	var data student.EvaluateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EvaluateRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, student.NewReport(data.ToModules()))
}

func (api *classificationApi) gradeNeeded(ctx echo.Context) error {
	var data student.GradeNeededRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeNeededRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	target := data.TargetClassification()
	req, ok := grade.GradeNeeded(data.ToModules(), target)
	if !ok {
		return errNothingRemaining
	}
	return ctx.JSON(http.StatusOK, GradeNeededResponse{Classification: target, Requirement: req})
}
