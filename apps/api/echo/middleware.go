package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ToluGIT/loop/core/student"
)

const objectKey = "object"

var errStudentNotFoundInCtx = errors.New("student object not found in echo.Context")

// studentMiddleware loads the student addressed by the ":id" param into the context.
func studentMiddleware(svc student.ServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			s, err := svc.Get(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return errors.Wrap(err, "getting student")
			}
			ctx.Set(objectKey, s)
			return next(ctx)
		}
	}
}

func getContextStudent(ctx echo.Context) (student.Student, error) {
	s, ok := ctx.Get(objectKey).(student.Student)
	if !ok {
		return student.Student{}, errStudentNotFoundInCtx
	}
	return s, nil
}
