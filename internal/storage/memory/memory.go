// Package memory provides an in-process implementation of the
// storage.Storage interface.
//
// Records live in a plain slice, so insertion order is the slice order and
// an in-place update is just an index assignment. Everything is lost when
// the process exits.
package memory

import (
	"fmt"
	"sync"

	"github.com/aanand-mishra/student-crud/internal/storage"
	"github.com/aanand-mishra/student-crud/internal/types"
)

// Store is the in-memory student store.
//
// The zero value is NOT ready to use; call New.
type Store struct {
	mu       sync.RWMutex
	students []types.Student

	// lastID only ever grows, so a deleted id is never handed out again.
	lastID int64
}

// New returns an empty store.
func New() *Store {
	return &Store{students: make([]types.Student, 0)}
}

func (s *Store) CreateStudent(student types.Student) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	student.ID = s.lastID
	s.students = append(s.students, clone(student))

	return student.ID, nil
}

func (s *Store) GetStudentByID(id int64) (types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return types.Student{}, fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
	}
	return clone(s.students[i]), nil
}

func (s *Store) GetStudents() ([]types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	students := make([]types.Student, 0, len(s.students))
	for _, st := range s.students {
		students = append(students, clone(st))
	}
	return students, nil
}

func (s *Store) UpdateStudentByID(id int64, student types.Student) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return types.Student{}, fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
	}

	student.ID = id
	s.students[i] = clone(student)
	return clone(student), nil
}

func (s *Store) DeleteStudentByID(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
	}

	s.students = append(s.students[:i], s.students[i+1:]...)
	return nil
}

// Close is a no-op; there is nothing to release.
func (s *Store) Close() error {
	return nil
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id int64) int {
	for i, st := range s.students {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// clone copies the Age pointer target so callers never alias stored data.
func clone(st types.Student) types.Student {
	if st.Age != nil {
		age := *st.Age
		st.Age = &age
	}
	return st
}
