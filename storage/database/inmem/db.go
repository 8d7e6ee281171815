package inmemdb

import (
	"sync"

	"github.com/trezcool/darasa/core/directory"
	"github.com/trezcool/darasa/core/report"
)

type (
	DB struct {
		report    *reportTable
		directory *directoryTable
	}

	reportTable struct {
		mutex sync.RWMutex
		table map[string]*report.Report // keyed by ID
	}

	directoryTable struct {
		mutex      sync.RWMutex
		subjects   []directory.Subject
		classrooms []directory.Classroom
		teachers   []directory.Teacher
	}
)

func Open() *DB {
	return &DB{
		report:    &reportTable{table: make(map[string]*report.Report)},
		directory: &directoryTable{},
	}
}

// Flush clears all tables.
func (db *DB) Flush() {
	db.report.mutex.Lock()
	db.report.table = make(map[string]*report.Report)
	db.report.mutex.Unlock()

	db.directory.mutex.Lock()
	db.directory.subjects = nil
	db.directory.classrooms = nil
	db.directory.teachers = nil
	db.directory.mutex.Unlock()
}
