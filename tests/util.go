package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/ToluGIT/loop/core/grade"
	"github.com/ToluGIT/loop/core/student"
)

// CreatedAt is the creation time of the seeded demo cohort.
var CreatedAt = time.Date(2024, 9, 16, 9, 0, 0, 0, time.UTC)

// SeedCohort stores the demo cohort in repo and returns it.
func SeedCohort(repo student.Repository) ([]student.Student, error) {
	cohort := student.DemoCohort(CreatedAt)
	if err := repo.CreateStudents(context.Background(), cohort...); err != nil {
		return nil, err
	}
	return cohort, nil
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	name, email string,
	modules ...grade.Module,
) student.Student {
	s := student.Student{
		Name:      name,
		Email:     email,
		Course:    "BSc (Hons) Computer Science",
		Year:      3,
		CreatedAt: CreatedAt.Add(time.Hour),
		Modules:   modules,
	}
	if err := repo.CreateStudents(context.Background(), s); err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

func Module(code string, level, credits int, assessments ...grade.Assessment) grade.Module {
	return grade.Module{Code: code, Name: "Module " + code, Credits: credits, Level: level, Assessments: assessments}
}

func Graded(name string, weight, score float64) grade.Assessment {
	return grade.Assessment{Name: name, Weight: weight, Grade: &grade.Grade{Score: score}}
}

func Ungraded(name string, weight float64) grade.Assessment {
	return grade.Assessment{Name: name, Weight: weight}
}
