package student

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/ToluGIT/loop/core"
	"github.com/ToluGIT/loop/core/grade"
)

var (
	// errors
	ErrNotFound    = errors.New("student not found")
	ErrEmailExists = errors.New("a student with this email already exists")
)

type (
	Repository interface {
		// QueryStudents applies AND operation on available QueryFilter fields. Modules are not loaded.
		QueryStudents(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		// GetStudent returns the student with their modules, or ErrNotFound.
		GetStudent(ctx context.Context, id string) (Student, error)
		// GetFirstStudent returns the oldest student with their modules, or ErrNotFound.
		GetFirstStudent(ctx context.Context) (Student, error)
		// QueryStudentsWithModules returns every student with their modules.
		QueryStudentsWithModules(ctx context.Context) ([]Student, error)
		// CreateStudents stores students atomically, or returns ErrEmailExists.
		CreateStudents(ctx context.Context, students ...Student) error
	}

	ServiceInterface interface {
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		Get(ctx context.Context, id string) (Student, error)
		Dashboard(ctx context.Context, id string) (Dashboard, error)
		Simulate(ctx context.Context, id string, sc Scenario) (Simulation, error)
		Campus(ctx context.Context) (CampusStats, error)
		Seed(ctx context.Context) (int, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	ordering = core.FilterOrderings(ordering, OrderingFields)
	if len(ordering) == 0 {
		ordering = defaultOrdering
	}
	students, err := svc.repo.QueryStudents(ctx, filter, ordering)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

// Get returns the student with their modules. id may be FirstStudentID.
func (svc *Service) Get(ctx context.Context, id string) (Student, error) {
	id = core.CleanString(id)
	if id == "" {
		return Student{}, ErrNotFound
	}

	var (
		s   Student
		err error
	)
	if id == FirstStudentID {
		s, err = svc.repo.GetFirstStudent(ctx)
	} else {
		s, err = svc.repo.GetStudent(ctx, id)
	}
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Student{}, ErrNotFound
		}
		return Student{}, errors.Wrap(err, "getting student")
	}
	return s, nil
}

func (svc *Service) Dashboard(ctx context.Context, id string) (Dashboard, error) {
	s, err := svc.Get(ctx, id)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{Student: s, Report: NewReport(s.Modules)}, nil
}

// Simulate applies sc on top of the student's grades. sc must be validated beforehand.
func (svc *Service) Simulate(ctx context.Context, id string, sc Scenario) (Simulation, error) {
	s, err := svc.Get(ctx, id)
	if err != nil {
		return Simulation{}, err
	}

	known := s.AssessmentIDs()
	for i, o := range sc.Overrides {
		if _, ok := known[o.AssessmentID]; !ok {
			return Simulation{}, core.NewValidationError(nil, core.FieldError{
				Field: fmt.Sprintf("overrides[%d].assessment_id", i),
				Error: fmt.Sprintf("unknown assessment %q", o.AssessmentID),
			})
		}
	}

	return simulate(s.Modules, sc), nil
}

func simulate(modules []grade.Module, sc Scenario) Simulation {
	current := grade.CalculateClassification(modules)
	scenarioModules := grade.ApplyScenario(modules, sc.OverrideMap())
	scenario := grade.CalculateClassification(scenarioModules)

	sim := Simulation{
		Current:  current,
		Scenario: scenario,
		Delta:    round1(scenario.WeightedAverage - current.WeightedAverage),
		Risk:     grade.AnalyzeRisk(scenarioModules, scenario.Classification, scenario.WeightedAverage),
	}
	if target, ok := sc.TargetClassification(); ok {
		tr := &TargetResult{Classification: target}
		if req, ok := grade.GradeNeeded(scenarioModules, target); ok {
			tr.Remaining = true
			tr.Requirement = &req
		}
		sim.Target = tr
	}
	return sim
}

func (svc *Service) Campus(ctx context.Context) (CampusStats, error) {
	students, err := svc.repo.QueryStudentsWithModules(ctx)
	if err != nil {
		return CampusStats{}, errors.Wrap(err, "querying students with modules")
	}
	return BuildCampusStats(students), nil
}

// Seed stores the demo cohort and returns the number of students created.
// It returns ErrEmailExists when the cohort is already stored.
func (svc *Service) Seed(ctx context.Context) (int, error) {
	cohort := DemoCohort(time.Now())
	if err := svc.repo.CreateStudents(ctx, cohort...); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return 0, ErrEmailExists
		}
		return 0, errors.Wrap(err, "seeding students")
	}
	return len(cohort), nil
}
