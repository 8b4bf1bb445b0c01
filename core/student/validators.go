package student

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/ToluGIT/loop/core"
	"github.com/ToluGIT/loop/core/grade"
)

var (
	bandTag  = "band"
	bandText = "must be one of First, 2:1, 2:2 or Third"

	uniqueTag  = "unique"
	uniqueText = "contains duplicate assessment ids"

	uniqueIDsTag  = "unique_ids"
	uniqueIDsText = "assessment ids must be unique across modules"
)

// InitValidators registers the student request validators. core.InitValidators must run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(bandTag, bandValidation)
	core.RegisterCustomTranslation(validate, translator, bandTag, bandText)
	core.RegisterCustomTranslation(validate, translator, uniqueTag, uniqueText, true)

	validate.RegisterStructValidation(modulesStructValidation, EvaluateRequest{}, GradeNeededRequest{})
	core.RegisterCustomTranslation(validate, translator, uniqueIDsTag, uniqueIDsText)
}

// Custom Validators

// bandValidation accepts a classification that has a lower boundary to aim for.
func bandValidation(fl validator.FieldLevel) bool {
	c, ok := grade.ParseClassification(fl.Field().String())
	if !ok {
		return false
	}
	_, ok = c.Boundary()
	return ok
}

// modulesStructValidation checks that assessment IDs are unique across all modules of a request.
func modulesStructValidation(sl validator.StructLevel) {
	var modules []ModuleInput
	switch req := sl.Current().Interface().(type) {
	case EvaluateRequest:
		modules = req.Modules
	case GradeNeededRequest:
		modules = req.Modules
	default:
		return
	}

	seen := make(map[string]struct{})
	for _, mod := range modules {
		for _, a := range mod.Assessments {
			if a.ID == "" {
				continue // reported by the field validation
			}
			if _, dup := seen[a.ID]; dup {
				sl.ReportError(modules, "modules", "Modules", uniqueIDsTag, "")
				return
			}
			seen[a.ID] = struct{}{}
		}
	}
}
