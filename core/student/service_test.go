package student

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ToluGIT/loop/core"
	"github.com/ToluGIT/loop/core/grade"
)

type repoStub struct {
	students    []Student
	err         error
	gotFilter   *QueryFilter
	gotOrdering []core.DBOrdering
}

var _ Repository = (*repoStub)(nil)

func (r *repoStub) QueryStudents(_ context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	r.gotFilter, r.gotOrdering = filter, ordering
	if r.err != nil {
		return nil, r.err
	}
	out := make([]Student, 0, len(r.students))
	for _, s := range r.students {
		if filter.Matches(s) {
			out = append(out, s.Summary())
		}
	}
	return out, nil
}

func (r *repoStub) GetStudent(_ context.Context, id string) (Student, error) {
	if r.err != nil {
		return Student{}, r.err
	}
	for _, s := range r.students {
		if s.ID == id {
			return s, nil
		}
	}
	return Student{}, errors.Wrap(ErrNotFound, "finding student")
}

func (r *repoStub) GetFirstStudent(_ context.Context) (Student, error) {
	if r.err != nil {
		return Student{}, r.err
	}
	if len(r.students) == 0 {
		return Student{}, ErrNotFound
	}
	return r.students[0], nil
}

func (r *repoStub) QueryStudentsWithModules(_ context.Context) ([]Student, error) {
	return r.students, r.err
}

func (r *repoStub) CreateStudents(_ context.Context, students ...Student) error {
	r.students = append(r.students, students...)
	return r.err
}

func newStudent(id string, modules ...grade.Module) Student {
	return Student{ID: id, Name: "Student " + id, Email: id + "@test.ac.uk", Course: "BSc", Year: 3, Modules: modules}
}

func gradedAssessment(id string, weight, score float64) grade.Assessment {
	return grade.Assessment{ID: id, Name: id, Weight: weight, Grade: &grade.Grade{Score: score}}
}

func ungradedAssessment(id string, weight float64) grade.Assessment {
	return grade.Assessment{ID: id, Name: id, Weight: weight}
}

func testModule(code string, level, credits int, assessments ...grade.Assessment) grade.Module {
	return grade.Module{ID: "mod-" + code, Code: code, Name: "Module " + code, Credits: credits, Level: level, Assessments: assessments}
}

func TestService_Query(t *testing.T) {
	repo := &repoStub{students: DemoCohort(time.Now())}
	svc := NewService(repo)
	ctx := context.Background()

	t.Run("default ordering", func(t *testing.T) {
		got, err := svc.Query(ctx, nil, nil)
		require.NoError(t, err)
		assert.Len(t, got, len(demoStudents))
		assert.Equal(t, []core.DBOrdering{{Field: "name", Ascending: true}}, repo.gotOrdering)
		for _, s := range got {
			assert.Nil(t, s.Modules)
		}
	})

	t.Run("unknown ordering fields are dropped", func(t *testing.T) {
		_, err := svc.Query(ctx, nil, []core.DBOrdering{{Field: "year"}, {Field: "password", Ascending: true}})
		require.NoError(t, err)
		assert.Equal(t, []core.DBOrdering{{Field: "year"}}, repo.gotOrdering)
	})

	t.Run("filter", func(t *testing.T) {
		got, err := svc.Query(ctx, &QueryFilter{Search: "cyber"}, nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Sarah MacDonald", got[0].Name)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := &repoStub{err: errors.New("boom")}
		_, err := NewService(repo).Query(ctx, nil, nil)
		assert.EqualError(t, err, "querying students: boom")
	})
}

func TestService_Get(t *testing.T) {
	cohort := DemoCohort(time.Now())
	svc := NewService(&repoStub{students: cohort})
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		wantID  string
		wantErr error
	}{
		{name: "blank", id: "  ", wantErr: ErrNotFound},
		{name: "unknown", id: "nope", wantErr: ErrNotFound},
		{name: "by id", id: cohort[2].ID, wantID: cohort[2].ID},
		{name: "first", id: FirstStudentID, wantID: cohort[0].ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Get(ctx, tt.id)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
			assert.NotEmpty(t, got.Modules)
		})
	}

	t.Run("repository error", func(t *testing.T) {
		_, err := NewService(&repoStub{err: errors.New("boom")}).Get(ctx, "x")
		assert.EqualError(t, err, "getting student: boom")
	})
}

func TestService_Dashboard(t *testing.T) {
	s := newStudent("s1", testModule("A", 6, 20, gradedAssessment("a1", 0.5, 60), ungradedAssessment("a2", 0.5)))
	svc := NewService(&repoStub{students: []Student{s}})

	got, err := svc.Dashboard(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.Student.ID)
	assert.Equal(t, grade.UpperSecond, got.Classification.Classification)
	assert.Equal(t, 60.0, got.Classification.WeightedAverage)
	assert.Equal(t, grade.RiskDanger, got.Risk.RiskLevel)
	require.Len(t, got.Leverage, 1)
	assert.Equal(t, "a2", got.Leverage[0].AssessmentID)
	require.Len(t, got.Modules, 1)
	assert.Equal(t, 50, got.Completion)
	assert.NotEmpty(t, got.Insights)

	_, err = svc.Dashboard(context.Background(), "missing")
	assert.Equal(t, ErrNotFound, err)
}

func TestService_Simulate(t *testing.T) {
	s := newStudent("s1", testModule("A", 6, 20, gradedAssessment("a1", 0.5, 60), ungradedAssessment("a2", 0.5)))
	svc := NewService(&repoStub{students: []Student{s}})
	ctx := context.Background()

	t.Run("unknown assessment", func(t *testing.T) {
		_, err := svc.Simulate(ctx, "s1", Scenario{Overrides: []Override{{AssessmentID: "zz", Score: 50}}})
		require.Error(t, err)
		vErr, ok := errors.Cause(err).(*core.ValidationError)
		require.True(t, ok)
		assert.Equal(t, map[string]string{"overrides[0].assessment_id": `unknown assessment "zz"`}, vErr.FieldMap())
	})

	t.Run("override completes the module", func(t *testing.T) {
		got, err := svc.Simulate(ctx, "s1", Scenario{
			Overrides: []Override{{AssessmentID: "a2", Score: 80}},
			Target:    "1st",
		})
		require.NoError(t, err)
		assert.Equal(t, grade.UpperSecond, got.Current.Classification)
		assert.Equal(t, grade.First, got.Scenario.Classification)
		assert.Equal(t, 10.0, got.Delta)
		assert.Nil(t, got.Risk.DropThreshold)
		require.NotNil(t, got.Target)
		assert.Equal(t, grade.First, got.Target.Classification)
		assert.False(t, got.Target.Remaining)
		assert.Nil(t, got.Target.Requirement)
	})

	t.Run("override lowers the average", func(t *testing.T) {
		got, err := svc.Simulate(ctx, "s1", Scenario{Overrides: []Override{{AssessmentID: "a1", Score: 45}}})
		require.NoError(t, err)
		assert.Equal(t, grade.Third, got.Scenario.Classification)
		assert.Equal(t, -15.0, got.Delta)
		assert.Nil(t, got.Target)
	})

	t.Run("target only", func(t *testing.T) {
		got, err := svc.Simulate(ctx, "s1", Scenario{Target: "First"})
		require.NoError(t, err)
		assert.Zero(t, got.Delta)
		require.NotNil(t, got.Target)
		assert.True(t, got.Target.Remaining)
		require.NotNil(t, got.Target.Requirement)
		assert.InDelta(t, 80, got.Target.Requirement.Needed, 1e-9)
	})

	t.Run("original grades untouched", func(t *testing.T) {
		got, err := svc.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Nil(t, got.Modules[0].Assessments[1].Grade)
		assert.Equal(t, 60.0, got.Modules[0].Assessments[0].Grade.Score)
	})
}

func TestService_Campus(t *testing.T) {
	svc := NewService(&repoStub{students: DemoCohort(time.Now())})
	got, err := svc.Campus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(demoStudents), got.TotalStudents)
	assert.NotEmpty(t, got.Modules)

	_, err = NewService(&repoStub{err: errors.New("boom")}).Campus(context.Background())
	assert.EqualError(t, err, "querying students with modules: boom")
}

func TestService_Seed(t *testing.T) {
	repo := &repoStub{}
	n, err := NewService(repo).Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(demoStudents), n)
	assert.Len(t, repo.students, n)

	_, err = NewService(&repoStub{err: errors.Wrap(ErrEmailExists, "inserting")}).Seed(context.Background())
	assert.Equal(t, ErrEmailExists, err)

	_, err = NewService(&repoStub{err: errors.New("boom")}).Seed(context.Background())
	assert.EqualError(t, err, "seeding students: boom")
}
