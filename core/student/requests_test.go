package student

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ToluGIT/loop/core"
	"github.com/ToluGIT/loop/core/grade"
)

func newValidator() (*validator.Validate, func(error) map[string]string) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate, func(err error) map[string]string {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil
		}
		return core.TranslateValidationErrors(errs, translator)
	}
}

func validModule() ModuleInput {
	return ModuleInput{
		Code:    " CMM528 ",
		Name:    "Network Security",
		Credits: 15,
		Level:   6,
		Assessments: []AssessmentInput{
			{ID: "a1", Name: "Report", Weight: 0.5, Grade: &GradeInput{Score: 71}},
			{ID: "a2", Name: "Exam", Weight: 0.5},
		},
	}
}

func TestEvaluateRequest_Validate(t *testing.T) {
	validate, translate := newValidator()

	tests := []struct {
		name   string
		mutate func(*EvaluateRequest)
		want   map[string]string
	}{
		{name: "valid", mutate: func(*EvaluateRequest) {}},
		{
			name:   "no modules",
			mutate: func(r *EvaluateRequest) { r.Modules = nil },
			want:   map[string]string{"modules": "this field is required"},
		},
		{
			name:   "blank code",
			mutate: func(r *EvaluateRequest) { r.Modules[0].Code = "   " },
			want:   map[string]string{"modules[0].code": "this field is required"},
		},
		{
			name:   "zero credits",
			mutate: func(r *EvaluateRequest) { r.Modules[0].Credits = 0 },
			want:   map[string]string{"modules[0].credits": "credits must be greater than 0"},
		},
		{
			name:   "level 4",
			mutate: func(r *EvaluateRequest) { r.Modules[0].Level = 4 },
			want:   map[string]string{"modules[0].level": "level must be one of [5 6]"},
		},
		{
			name:   "weight above 1",
			mutate: func(r *EvaluateRequest) { r.Modules[0].Assessments[0].Weight = 1.5 },
			want:   map[string]string{"modules[0].assessments[0].weight": "weight must be 1 or less"},
		},
		{
			name:   "score above 100",
			mutate: func(r *EvaluateRequest) { r.Modules[0].Assessments[0].Grade.Score = 120 },
			want:   map[string]string{"modules[0].assessments[0].grade.score": "score must be 100 or less"},
		},
		{
			name: "duplicate assessment ids",
			mutate: func(r *EvaluateRequest) {
				dup := validModule()
				dup.Code = "CMM529"
				r.Modules = append(r.Modules, dup)
			},
			want: map[string]string{"modules": "assessment ids must be unique across modules"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := EvaluateRequest{Modules: []ModuleInput{validModule()}}
			tt.mutate(&req)
			err := req.Validate(validate)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, translate(err))
		})
	}
}

func TestEvaluateRequest_ToModules(t *testing.T) {
	validate, _ := newValidator()
	req := EvaluateRequest{Modules: []ModuleInput{validModule()}}
	require.NoError(t, req.Validate(validate))

	got := req.ToModules()
	require.Len(t, got, 1)
	assert.Equal(t, "CMM528", got[0].ID, "module id defaults to its code")
	assert.Equal(t, "CMM528", got[0].Code)
	require.Len(t, got[0].Assessments, 2)
	assert.Equal(t, &grade.Grade{Score: 71}, got[0].Assessments[0].Grade)
	assert.Nil(t, got[0].Assessments[1].Grade)
}

func TestGradeNeededRequest_Validate(t *testing.T) {
	validate, translate := newValidator()

	tests := []struct {
		target string
		want   grade.Classification
		errMsg string
	}{
		{target: "First", want: grade.First},
		{target: " 2:1 ", want: grade.UpperSecond},
		{target: "third", want: grade.Third},
		{target: "", errMsg: "this field is required"},
		{target: "Fail", errMsg: "must be one of First, 2:1, 2:2 or Third"},
		{target: "Distinction", errMsg: "must be one of First, 2:1, 2:2 or Third"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			req := GradeNeededRequest{Modules: []ModuleInput{validModule()}, Target: tt.target}
			err := req.Validate(validate)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Equal(t, map[string]string{"target": tt.errMsg}, translate(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.TargetClassification())
		})
	}
}

func TestScenario_Validate(t *testing.T) {
	validate, translate := newValidator()

	tests := []struct {
		name string
		sc   Scenario
		want map[string]string
	}{
		{name: "empty", sc: Scenario{}},
		{name: "valid", sc: Scenario{Overrides: []Override{{AssessmentID: "a1", Score: 80}, {AssessmentID: "a2", Score: 0}}, Target: "2:1"}},
		{
			name: "duplicate overrides",
			sc:   Scenario{Overrides: []Override{{AssessmentID: "a1", Score: 80}, {AssessmentID: " a1", Score: 60}}},
			want: map[string]string{"overrides": "contains duplicate assessment ids"},
		},
		{
			name: "blank assessment id",
			sc:   Scenario{Overrides: []Override{{AssessmentID: " ", Score: 80}}},
			want: map[string]string{"overrides[0].assessment_id": "this field is required"},
		},
		{
			name: "negative score",
			sc:   Scenario{Overrides: []Override{{AssessmentID: "a1", Score: -1}}},
			want: map[string]string{"overrides[0].score": "score must be 0 or greater"},
		},
		{
			name: "bad target",
			sc:   Scenario{Target: "fail"},
			want: map[string]string{"target": "must be one of First, 2:1, 2:2 or Third"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sc.Validate(validate)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, translate(err))
		})
	}
}

func TestScenario_Helpers(t *testing.T) {
	sc := Scenario{Overrides: []Override{{AssessmentID: "a1", Score: 80}, {AssessmentID: "a2", Score: 55.5}}}
	assert.Equal(t, map[string]float64{"a1": 80, "a2": 55.5}, sc.OverrideMap())

	_, ok := sc.TargetClassification()
	assert.False(t, ok)

	sc.Target = "2:2"
	c, ok := sc.TargetClassification()
	assert.True(t, ok)
	assert.Equal(t, grade.LowerSecond, c)
}
