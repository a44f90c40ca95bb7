// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// This backend is optional: the default store is the in-memory one. It is
// selected with `storage.backend: sqlite` in the config file, for when the
// student list should survive a restart.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-crud/internal/storage"
	"github.com/aanand-mishra/student-crud/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the database-backed implementation of storage.Storage.
// A single *sql.DB is a connection pool and is safe for concurrent use.
type SQLite struct {
	Db *sql.DB
}

// New opens (or creates) the SQLite database at path, creates the students
// table if needed, and returns a ready-to-use *SQLite.
//
// Pass ":memory:" for a throwaway database (used by the tests).
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// An in-memory database exists per connection. Pinning the pool to one
	// connection keeps every query looking at the same data.
	db.SetMaxOpenConns(1)

	// Schema:
	//   id       — AUTOINCREMENT, so a deleted id is never handed out again
	//   age      — NULL when the student did not give one
	//   file_ref — transient attachment reference, may be empty
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			name     TEXT    NOT NULL,
			email    TEXT    NOT NULL,
			phone    TEXT    NOT NULL DEFAULT '',
			age      INTEGER,
			course   TEXT    NOT NULL DEFAULT '',
			file_ref TEXT    NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// CreateStudent inserts a new row. Placeholders (?) keep user input out of
// the SQL text.
func (s *SQLite) CreateStudent(student types.Student) (int64, error) {
	stmt, err := s.Db.Prepare(
		"INSERT INTO students (name, email, phone, age, course, file_ref) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(
		student.Name, student.Email, student.Phone,
		nullableAge(student.Age), student.Course, student.FileRef,
	)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return lastID, nil
}

// GetStudentByID fetches exactly one row matched by primary key.
func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	stmt, err := s.Db.Prepare(
		"SELECT id, name, email, phone, age, course, file_ref FROM students WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	student, err := scanStudent(stmt.QueryRow(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns all rows in insertion order. AUTOINCREMENT ids grow
// monotonically, so ordering by id is ordering by insertion.
func (s *SQLite) GetStudents() ([]types.Student, error) {
	stmt, err := s.Db.Prepare(
		"SELECT id, name, email, phone, age, course, file_ref FROM students ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Non-nil so it encodes as [] rather than null.
	students := make([]types.Student, 0)

	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// UpdateStudentByID replaces a student's data and returns the stored row.
// The id column is never written, so position is preserved.
func (s *SQLite) UpdateStudentByID(id int64, student types.Student) (types.Student, error) {
	stmt, err := s.Db.Prepare(
		"UPDATE students SET name = ?, email = ?, phone = ?, age = ?, course = ?, file_ref = ? WHERE id = ?",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(
		student.Name, student.Email, student.Phone,
		nullableAge(student.Age), student.Course, student.FileRef,
		id,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	if err := expectOneRow(result, id); err != nil {
		return types.Student{}, err
	}

	return s.GetStudentByID(id)
}

// DeleteStudentByID removes a student row by primary key.
func (s *SQLite) DeleteStudentByID(id int64) error {
	stmt, err := s.Db.Prepare("DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	return expectOneRow(result, id)
}

// Close closes the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (types.Student, error) {
	var (
		student types.Student
		age     sql.NullInt64
	)

	// Scan order must match the SELECT column order.
	if err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.Phone,
		&age,
		&student.Course,
		&student.FileRef,
	); err != nil {
		return types.Student{}, err
	}

	if age.Valid {
		a := int(age.Int64)
		student.Age = &a
	}

	return student, nil
}

func nullableAge(age *int) sql.NullInt64 {
	if age == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*age), Valid: true}
}

// expectOneRow turns "statement matched nothing" into ErrNotFound.
func expectOneRow(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
	}
	return nil
}
