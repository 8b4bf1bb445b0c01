package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/ToluGIT/loop/core"
	"github.com/ToluGIT/loop/core/grade"
	"github.com/ToluGIT/loop/core/student"
)

const studentColumns = "id, name, email, course, year, created_at"

type (
	studentRow struct {
		ID        string    `db:"id"`
		Name      string    `db:"name"`
		Email     string    `db:"email"`
		Course    string    `db:"course"`
		Year      int       `db:"year"`
		CreatedAt time.Time `db:"created_at"`
	}

	// moduleRow is one line of the modules/assessments/grades join.
	// Assessment columns are null for modules without assessments.
	moduleRow struct {
		StudentID      string       `db:"student_id"`
		ModuleID       string       `db:"module_id"`
		Code           string       `db:"code"`
		ModuleName     string       `db:"module_name"`
		Credits        int          `db:"credits"`
		Level          int          `db:"level"`
		AssessmentID   null.String  `db:"assessment_id"`
		AssessmentName null.String  `db:"assessment_name"`
		Weight         null.Float64 `db:"weight"`
		Score          null.Float64 `db:"score"`
	}
)

type studentRepository struct {
	exec core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{exec: exec}
}

func (row studentRow) student() student.Student {
	return student.Student{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Course:    row.Course,
		Year:      row.Year,
		CreatedAt: row.CreatedAt.UTC(),
	}
}

const uniqueViolation = "23505"

// trapUniqueErr maps a psql unique violation on students.email to student.ErrEmailExists
func trapUniqueErr(err error, msg string) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation && pqErr.Table == "students" {
		return student.ErrEmailExists
	}
	return errors.Wrap(err, msg)
}

// trapNoRowsErr maps psql "no rows" err to student.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	var (
		where []string
		args  []interface{}
	)

	if filter != nil {
		// students with Name, Email or Course matching the search keyword
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			where = append(where, "(name ILIKE ? OR email ILIKE ? OR course ILIKE ?)")
			args = append(args, val, val, val)
		}
		if filter.Course != "" {
			where = append(where, "course ILIKE ?")
			args = append(args, filter.Course)
		}
		if filter.Year != 0 {
			where = append(where, "year = ?")
			args = append(args, filter.Year)
		}
	}

	q := "SELECT " + studentColumns + " FROM students"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	if len(ordering) > 0 {
		orderList := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			orderList = append(orderList, ord.String())
		}
		q += " ORDER BY " + strings.Join(orderList, ", ")
	}

	var rows []studentRow
	if err := repo.exec.SelectContext(ctx, &rows, repo.exec.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.student())
	}
	return students, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Student{}, student.ErrNotFound
	}
	q := repo.exec.Rebind("SELECT " + studentColumns + " FROM students WHERE id = ?")
	return repo.getStudent(ctx, q, id)
}

func (repo studentRepository) GetFirstStudent(ctx context.Context) (student.Student, error) {
	return repo.getStudent(ctx, "SELECT "+studentColumns+" FROM students ORDER BY created_at, id LIMIT 1")
}

func (repo studentRepository) getStudent(ctx context.Context, q string, args ...interface{}) (student.Student, error) {
	var row studentRow
	if err := repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return student.Student{}, trapNoRowsErr(err, "finding student")
	}

	students := []student.Student{row.student()}
	if err := repo.loadModules(ctx, students); err != nil {
		return student.Student{}, err
	}
	return students[0], nil
}

func (repo studentRepository) QueryStudentsWithModules(ctx context.Context) ([]student.Student, error) {
	students, err := repo.QueryStudents(ctx, nil, []core.DBOrdering{{Field: "created_at", Ascending: true}})
	if err != nil {
		return nil, err
	}
	if err = repo.loadModules(ctx, students); err != nil {
		return nil, err
	}
	return students, nil
}

// loadModules fills in the modules of students with a single query.
func (repo studentRepository) loadModules(ctx context.Context, students []student.Student) error {
	if len(students) == 0 {
		return nil
	}
	ids := make([]string, 0, len(students))
	index := make(map[string]int, len(students))
	for i, s := range students {
		ids = append(ids, s.ID)
		index[s.ID] = i
	}

	q := repo.exec.Rebind(`SELECT m.student_id, m.id AS module_id, m.code, m.name AS module_name, m.credits, m.level,
       a.id AS assessment_id, a.name AS assessment_name, a.weight, g.score
FROM modules m
LEFT JOIN assessments a ON a.module_id = m.id
LEFT JOIN grades g ON g.assessment_id = a.id
WHERE m.student_id = ANY(?)
ORDER BY m.student_id, m.level, m.code, a.position`)

	var rows []moduleRow
	if err := repo.exec.SelectContext(ctx, &rows, q, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "querying modules")
	}

	modIndex := make(map[string]int) // module ID -> position in its student's Modules
	for _, row := range rows {
		i, ok := index[row.StudentID]
		if !ok {
			continue
		}
		s := &students[i]
		j, ok := modIndex[row.ModuleID]
		if !ok {
			s.Modules = append(s.Modules, grade.Module{
				ID:          row.ModuleID,
				Code:        row.Code,
				Name:        row.ModuleName,
				Credits:     row.Credits,
				Level:       row.Level,
				Assessments: make([]grade.Assessment, 0),
			})
			j = len(s.Modules) - 1
			modIndex[row.ModuleID] = j
		}
		if !row.AssessmentID.Valid {
			continue
		}
		a := grade.Assessment{
			ID:     row.AssessmentID.String,
			Name:   row.AssessmentName.String,
			Weight: row.Weight.Float64,
		}
		if row.Score.Valid {
			a.Grade = &grade.Grade{Score: row.Score.Float64}
		}
		s.Modules[j].Assessments = append(s.Modules[j].Assessments, a)
	}
	for i := range students {
		if students[i].Modules == nil {
			students[i].Modules = make([]grade.Module, 0)
		}
	}
	return nil
}

// withTx runs fn in a new transaction, or in the current one when the repository already wraps a *sqlx.Tx.
func (repo studentRepository) withTx(ctx context.Context, fn func(exec core.DBExecutor) error) error {
	db, ok := repo.exec.(core.DB)
	if !ok {
		return fn(repo.exec)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func newID(id string) string {
	if _, err := uuid.Parse(id); err == nil {
		return id
	}
	return uuid.New().String()
}

// CreateStudents inserts students with their modules, assessments and grades in one transaction.
// IDs that are not UUIDs are replaced.
func (repo studentRepository) CreateStudents(ctx context.Context, students ...student.Student) error {
	if len(students) == 0 {
		return nil
	}
	return repo.withTx(ctx, func(exec core.DBExecutor) error {
		insertStudent := exec.Rebind("INSERT INTO students (" + studentColumns + ") VALUES (?, ?, ?, ?, ?, ?)")
		insertModule := exec.Rebind("INSERT INTO modules (id, student_id, code, name, credits, level) VALUES (?, ?, ?, ?, ?, ?)")
		insertAssessment := exec.Rebind("INSERT INTO assessments (id, module_id, name, weight, position) VALUES (?, ?, ?, ?, ?)")
		insertGrade := exec.Rebind("INSERT INTO grades (assessment_id, score) VALUES (?, ?)")

		for _, s := range students {
			createdAt := s.CreatedAt.UTC()
			if createdAt.IsZero() {
				createdAt = time.Now().UTC()
			}
			studentID := newID(s.ID)
			if _, err := exec.ExecContext(ctx, insertStudent, studentID, s.Name, s.Email, s.Course, s.Year, createdAt); err != nil {
				return trapUniqueErr(err, fmt.Sprintf("inserting student %q", s.Email))
			}

			for _, mod := range s.Modules {
				moduleID := newID(mod.ID)
				if _, err := exec.ExecContext(ctx, insertModule, moduleID, studentID, mod.Code, mod.Name, mod.Credits, mod.Level); err != nil {
					return errors.Wrapf(err, "inserting module %q", mod.Code)
				}

				for pos, a := range mod.Assessments {
					assessmentID := newID(a.ID)
					if _, err := exec.ExecContext(ctx, insertAssessment, assessmentID, moduleID, a.Name, a.Weight, pos); err != nil {
						return errors.Wrapf(err, "inserting assessment %q", a.Name)
					}
					if a.Grade == nil {
						continue
					}
					if _, err := exec.ExecContext(ctx, insertGrade, assessmentID, a.Grade.Score); err != nil {
						return errors.Wrapf(err, "inserting grade of %q", a.Name)
					}
				}
			}
		}
		return nil
	})
}
