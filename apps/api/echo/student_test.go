package echoapi

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ToluGIT/loop/core/grade"
	"github.com/ToluGIT/loop/core/student"
)

func Test_home(t *testing.T) {
	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Loop API!", rec.Body.String())

	req, rec = newRequest(http.MethodGet, "/health")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func Test_studentApi_query(t *testing.T) {
	alex, sarah, jamie, priya, calum := cohort[0].Summary(), cohort[1].Summary(), cohort[2].Summary(), cohort[3].Summary(), cohort[4].Summary()

	path := func(search, course, year, ordering string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if course != "" {
			v.Add("course", course)
		}
		if year != "" {
			v.Add("year", year)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		return "/v1/students?" + v.Encode()
	}
	list := func(students ...student.Student) []byte { return marshalObj(t, students) }

	tests := []httpTest{
		{
			name:     "default ordering by name",
			method:   http.MethodGet,
			path:     "/v1/students",
			wantCode: http.StatusOK,
			wantData: list(alex, calum, jamie, priya, sarah),
		},
		{
			name:     "newest first",
			method:   http.MethodGet,
			path:     path("", "", "", "-created_at"),
			wantCode: http.StatusOK,
			wantData: list(calum, priya, jamie, sarah, alex),
		},
		{
			name:     "unknown ordering field is ignored",
			method:   http.MethodGet,
			path:     path("", "", "", "password,-year,name"),
			wantCode: http.StatusOK,
			wantData: list(alex, calum, jamie, priya, sarah),
		},
		{
			name:     "search",
			method:   http.MethodGet,
			path:     path(" SHARMA ", "", "", ""),
			wantCode: http.StatusOK,
			wantData: list(priya),
		},
		{
			name:     "course and year",
			method:   http.MethodGet,
			path:     path("", "BSc (Hons) Computer Science", "3", "-name"),
			wantCode: http.StatusOK,
			wantData: list(priya, calum, alex),
		},
		{
			name:     "no match",
			method:   http.MethodGet,
			path:     path("", "", "1", ""),
			wantCode: http.StatusOK,
			wantData: []byte("[]"),
		},
		{
			name:     "bad year",
			method:   http.MethodGet,
			path:     path("", "", "third", ""),
			wantCode: http.StatusOK,
			wantData: []byte("[]"),
		},
	}
	runHTTPTests(t, app, tests)
}

func Test_studentApi_retrieve(t *testing.T) {
	tests := []httpTest{
		{
			name:     "by id",
			method:   http.MethodGet,
			path:     "/v1/students/" + cohort[2].ID,
			wantCode: http.StatusOK,
			wantData: marshalObj(t, cohort[2]),
		},
		{
			name:     "first",
			method:   http.MethodGet,
			path:     "/v1/students/first",
			wantCode: http.StatusOK,
			wantData: marshalObj(t, cohort[0]),
		},
		{
			name:     "not found",
			method:   http.MethodGet,
			path:     "/v1/students/nope",
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, httpErr{Error: student.ErrNotFound.Error()}),
		},
	}
	runHTTPTests(t, app, tests)
}

func Test_studentApi_dashboard(t *testing.T) {
	want := student.Dashboard{Student: cohort[1], Report: student.NewReport(cohort[1].Modules)}

	tests := []httpTest{
		{
			name:     "ok",
			method:   http.MethodGet,
			path:     "/v1/students/" + cohort[1].ID + "/dashboard",
			wantCode: http.StatusOK,
			wantData: marshalObj(t, want),
			check: func(t *testing.T, body []byte) {
				var got struct {
					Student        student.Student            `json:"student"`
					Classification grade.ClassificationResult `json:"classification"`
					Completion     int                        `json:"completion"`
					Insights       []map[string]interface{}   `json:"insights"`
				}
				unmarshal(t, body, &got)
				assert.Equal(t, "Sarah MacDonald", got.Student.Name)
				assert.Equal(t, want.Classification.Classification, got.Classification.Classification)
				assert.Equal(t, want.Completion, got.Completion)
				require.NotEmpty(t, got.Insights)
				assert.Contains(t, got.Insights[0], "icon")
			},
		},
		{
			name:     "not found",
			method:   http.MethodGet,
			path:     "/v1/students/nope/dashboard",
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, httpErr{Error: "student not found"}),
		},
	}
	runHTTPTests(t, app, tests)
}

func Test_studentApi_simulate(t *testing.T) {
	alex := cohort[0]
	examID := assessmentID(t, alex, "CMM526", "Final Exam")
	path := "/v1/students/first/simulate"

	tests := []httpTest{
		{
			name:     "override and target",
			method:   http.MethodPost,
			path:     path,
			body:     marshalObj(t, student.Scenario{Overrides: []student.Override{{AssessmentID: examID, Score: 90}}, Target: "First"}),
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got student.Simulation
				unmarshal(t, body, &got)
				assert.Equal(t, grade.CalculateClassification(alex.Modules), got.Current)
				assert.Greater(t, got.Delta, 0.0)
				assert.Greater(t, got.Scenario.WeightedAverage, got.Current.WeightedAverage)
				require.NotNil(t, got.Target)
				assert.Equal(t, grade.First, got.Target.Classification)
				assert.True(t, got.Target.Remaining)
			},
		},
		{
			name:     "no overrides",
			method:   http.MethodPost,
			path:     path,
			body:     []byte(`{}`),
			wantCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got student.Simulation
				unmarshal(t, body, &got)
				assert.Equal(t, got.Current, got.Scenario)
				assert.Zero(t, got.Delta)
				assert.Nil(t, got.Target)
			},
		},
		{
			name:     "unknown assessment",
			method:   http.MethodPost,
			path:     path,
			body:     marshalObj(t, student.Scenario{Overrides: []student.Override{{AssessmentID: "nope", Score: 90}}}),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"overrides[0].assessment_id": "unknown assessment \"nope\""}`),
		},
		{
			name:   "invalid scenario",
			method: http.MethodPost,
			path:   path,
			body: marshalObj(t, student.Scenario{
				Overrides: []student.Override{{AssessmentID: examID, Score: 101}},
				Target:    "Fail",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{
				"overrides[0].score": "score must be 100 or less",
				"target":             "must be one of First, 2:1, 2:2 or Third",
			}),
		},
		{
			name:     "duplicate overrides",
			method:   http.MethodPost,
			path:     path,
			body:     marshalObj(t, student.Scenario{Overrides: []student.Override{{AssessmentID: examID, Score: 10}, {AssessmentID: examID, Score: 50}}}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"overrides": "contains duplicate assessment ids"}),
		},
		{
			name:     "malformed body",
			method:   http.MethodPost,
			path:     path,
			body:     []byte(`{"overrides": "all of them"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown student",
			method:   http.MethodPost,
			path:     "/v1/students/nope/simulate",
			body:     []byte(`{}`),
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, httpErr{Error: "student not found"}),
		},
	}
	runHTTPTests(t, app, tests)
}

func Test_studentApi_campus(t *testing.T) {
	want := student.BuildCampusStats(cohort)
	runHTTPTests(t, app, []httpTest{
		{
			name:     "ok",
			method:   http.MethodGet,
			path:     "/v1/campus",
			wantCode: http.StatusOK,
			wantData: marshalObj(t, want),
			check: func(t *testing.T, body []byte) {
				var got student.CampusStats
				unmarshal(t, body, &got)
				assert.Equal(t, len(cohort), got.TotalStudents)
			},
		},
	})
}
