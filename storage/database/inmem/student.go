package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ToluGIT/loop/core"
	"github.com/ToluGIT/loop/core/grade"
	"github.com/ToluGIT/loop/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

// query returns copies of every student, in insertion order. Callers hold the lock.
func (repo *studentRepository) query(withModules bool) []student.Student {
	students := make([]student.Student, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		s := *repo.db.table[id]
		if withModules {
			s.Modules = cloneModules(s.Modules)
		} else {
			s.Modules = nil
		}
		students = append(students, s)
	}
	return students
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.order))
	for _, s := range repo.query(false) {
		if filter.Matches(s) {
			students = append(students, s)
		}
	}
	sortStudents(students, ordering)
	return students, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	s, ok := repo.db.table[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	found := *s
	found.Modules = cloneModules(s.Modules)
	return found, nil
}

func (repo *studentRepository) GetFirstStudent(ctx context.Context) (student.Student, error) {
	repo.db.RLock()
	students := repo.query(false)
	repo.db.RUnlock()

	if len(students) == 0 {
		return student.Student{}, student.ErrNotFound
	}
	sortStudents(students, []core.DBOrdering{{Field: "created_at", Ascending: true}, {Field: "id", Ascending: true}})
	return repo.GetStudent(ctx, students[0].ID)
}

func (repo *studentRepository) QueryStudentsWithModules(_ context.Context) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := repo.query(true)
	sortStudents(students, []core.DBOrdering{{Field: "created_at", Ascending: true}})
	return students, nil
}

func (repo *studentRepository) CreateStudents(_ context.Context, students ...student.Student) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	emails := make(map[string]struct{}, len(repo.db.table)+len(students))
	for _, s := range repo.db.table {
		emails[strings.ToLower(s.Email)] = struct{}{}
	}

	// validate the whole batch before touching the table
	created := make([]student.Student, 0, len(students))
	for _, s := range students {
		email := strings.ToLower(s.Email)
		if _, dup := emails[email]; dup {
			return student.ErrEmailExists
		}
		emails[email] = struct{}{}

		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now()
		}
		s.CreatedAt = s.CreatedAt.UTC()
		s.Modules = cloneModules(s.Modules)
		student.SortModules(s.Modules)
		created = append(created, s)
	}

	for i := range created {
		s := created[i]
		if _, exists := repo.db.table[s.ID]; !exists {
			repo.db.order = append(repo.db.order, s.ID)
		}
		repo.db.table[s.ID] = &s
	}
	return nil
}

func cloneModules(modules []grade.Module) []grade.Module {
	out := make([]grade.Module, len(modules))
	for i, mod := range modules {
		mod.Assessments = make([]grade.Assessment, len(modules[i].Assessments))
		for j, a := range modules[i].Assessments {
			if a.Grade != nil {
				g := *a.Grade
				a.Grade = &g
			}
			mod.Assessments[j] = a
		}
		out[i] = mod
	}
	return out
}

func compareStudents(a, b student.Student, field string) int {
	switch field {
	case "name":
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case "email":
		return strings.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email))
	case "course":
		return strings.Compare(strings.ToLower(a.Course), strings.ToLower(b.Course))
	case "year":
		return a.Year - b.Year
	case "created_at":
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
		return 0
	case "id":
		return strings.Compare(a.ID, b.ID)
	default:
		return 0
	}
}

func sortStudents(students []student.Student, ordering []core.DBOrdering) {
	if len(ordering) == 0 {
		return
	}
	sort.SliceStable(students, func(i, j int) bool {
		for _, ord := range ordering {
			c := compareStudents(students[i], students[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}
