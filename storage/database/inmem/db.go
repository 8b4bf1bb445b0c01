package inmemdb

import (
	"sync"

	"github.com/ToluGIT/loop/core/student"
)

type (
	DB struct {
		student *studentTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
		order []string // insertion order, for stable listings
	}
)

func Open() *DB {
	return &DB{
		student: &studentTable{table: make(map[string]*student.Student)},
	}
}
