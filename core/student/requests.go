package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/ToluGIT/loop/core"
	"github.com/ToluGIT/loop/core/grade"
)

type (
	GradeInput struct {
		Score float64 `json:"score" validate:"gte=0,lte=100"`
	}

	AssessmentInput struct {
		ID     string      `json:"id" validate:"required,notblank"`
		Name   string      `json:"name"`
		Weight float64     `json:"weight" validate:"gte=0,lte=1"`
		Grade  *GradeInput `json:"grade"`
	}

	ModuleInput struct {
		ID          string            `json:"id"`
		Code        string            `json:"code" validate:"required,notblank"`
		Name        string            `json:"name"`
		Credits     int               `json:"credits" validate:"gt=0"`
		Level       int               `json:"level" validate:"oneof=5 6"`
		Assessments []AssessmentInput `json:"assessments" validate:"dive"`
	}

	// EvaluateRequest asks for a full report over ad-hoc modules.
	EvaluateRequest struct {
		Modules []ModuleInput `json:"modules" validate:"required,dive"`
	}

	// GradeNeededRequest asks for the average needed on the remaining work of Modules to reach Target.
	GradeNeededRequest struct {
		Modules []ModuleInput `json:"modules" validate:"required,dive"`
		Target  string        `json:"target" validate:"required,band"`
	}

	Override struct {
		AssessmentID string  `json:"assessment_id" validate:"required,notblank"`
		Score        float64 `json:"score" validate:"gte=0,lte=100"`
	}

	// Scenario overlays hypothetical scores on a student's assessments.
	Scenario struct {
		Overrides []Override `json:"overrides" validate:"unique=AssessmentID,dive"`
		Target    string     `json:"target" validate:"omitempty,band"`
	}
)

func (mi ModuleInput) module() grade.Module {
	mod := grade.Module{
		ID:          mi.ID,
		Code:        mi.Code,
		Name:        mi.Name,
		Credits:     mi.Credits,
		Level:       mi.Level,
		Assessments: make([]grade.Assessment, 0, len(mi.Assessments)),
	}
	if mod.ID == "" {
		mod.ID = mi.Code
	}
	for _, ai := range mi.Assessments {
		a := grade.Assessment{ID: ai.ID, Name: ai.Name, Weight: ai.Weight}
		if ai.Grade != nil {
			a.Grade = &grade.Grade{Score: ai.Grade.Score}
		}
		mod.Assessments = append(mod.Assessments, a)
	}
	return mod
}

func toModules(inputs []ModuleInput) []grade.Module {
	modules := make([]grade.Module, 0, len(inputs))
	for _, mi := range inputs {
		modules = append(modules, mi.module())
	}
	return modules
}

func cleanModules(inputs []ModuleInput) {
	for i := range inputs {
		inputs[i].ID = core.CleanString(inputs[i].ID)
		inputs[i].Code = core.CleanString(inputs[i].Code)
		inputs[i].Name = core.CleanString(inputs[i].Name)
		for j := range inputs[i].Assessments {
			inputs[i].Assessments[j].ID = core.CleanString(inputs[i].Assessments[j].ID)
			inputs[i].Assessments[j].Name = core.CleanString(inputs[i].Assessments[j].Name)
		}
	}
}

func (er *EvaluateRequest) Validate(validate *validator.Validate) error {
	cleanModules(er.Modules)
	return validate.Struct(er)
}

// ToModules returns the engine view of the request. Call Validate first.
func (er *EvaluateRequest) ToModules() []grade.Module {
	return toModules(er.Modules)
}

func (gr *GradeNeededRequest) Validate(validate *validator.Validate) error {
	cleanModules(gr.Modules)
	gr.Target = core.CleanString(gr.Target)
	return validate.Struct(gr)
}

func (gr *GradeNeededRequest) ToModules() []grade.Module {
	return toModules(gr.Modules)
}

// TargetClassification returns the parsed target band. Call Validate first.
func (gr *GradeNeededRequest) TargetClassification() grade.Classification {
	c, _ := grade.ParseClassification(gr.Target)
	return c
}

func (sc *Scenario) Validate(validate *validator.Validate) error {
	for i := range sc.Overrides {
		sc.Overrides[i].AssessmentID = core.CleanString(sc.Overrides[i].AssessmentID)
	}
	sc.Target = core.CleanString(sc.Target)
	return validate.Struct(sc)
}

// OverrideMap indexes the overridden scores by assessment ID.
func (sc *Scenario) OverrideMap() map[string]float64 {
	m := make(map[string]float64, len(sc.Overrides))
	for _, o := range sc.Overrides {
		m[o.AssessmentID] = o.Score
	}
	return m
}

func (sc *Scenario) TargetClassification() (grade.Classification, bool) {
	if sc.Target == "" {
		return "", false
	}
	return grade.ParseClassification(sc.Target)
}
