// Package storage defines the Storage interface — a contract that any
// student record store must satisfy to work with this application.
//
// Two implementations exist:
//
//   - memory: an ordered in-process slice, reset on every restart (default)
//   - sqlite: the same contract backed by a SQLite file
//
// Handlers and the form session depend only on this interface, so the
// backend is picked once in main and nothing else changes.
package storage

import (
	"errors"

	"github.com/aanand-mishra/student-crud/internal/types"
)

// ErrNotFound is returned when an id does not match any stored student.
// Callers match it with errors.Is; implementations wrap it with the id.
var ErrNotFound = errors.New("student not found")

// Storage is the record store contract.
//
// Ordering: GetStudents returns records in insertion order. Updating a
// record never moves it.
//
// Identity: ids are assigned by the store, are unique, and are never
// handed out again, even after the record holding them is deleted.
type Storage interface {
	// CreateStudent appends a new student and returns its fresh id.
	// Any ID set on the argument is ignored.
	CreateStudent(student types.Student) (int64, error)

	// GetStudentByID fetches a single student.
	// Returns an error wrapping ErrNotFound if there is no such id.
	GetStudentByID(id int64) (types.Student, error)

	// GetStudents returns every student in insertion order.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents() ([]types.Student, error)

	// UpdateStudentByID replaces every field of an existing student except
	// its id, keeping its position. Returns the stored result, or an error
	// wrapping ErrNotFound (and leaves the store untouched).
	UpdateStudentByID(id int64, student types.Student) (types.Student, error)

	// DeleteStudentByID removes exactly one student.
	// Returns an error wrapping ErrNotFound if there is no such id.
	DeleteStudentByID(id int64) error

	// Close releases any underlying resources.
	Close() error
}

// SeedStudents are the demo records a fresh store can start with.
func SeedStudents() []types.Student {
	asha, rahul := 20, 22
	return []types.Student{
		{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210", Age: &asha, Course: "BSc"},
		{Name: "Rahul Kumar", Email: "rahul@example.com", Phone: "9123456780", Age: &rahul, Course: "BCom"},
	}
}

// Seed inserts the given students in order.
func Seed(s Storage, students []types.Student) error {
	for _, st := range students {
		if _, err := s.CreateStudent(st); err != nil {
			return err
		}
	}
	return nil
}
