// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, the form session and the shell can all import types
// without depending on each other.
package types

import (
	"strconv"
	"strings"
)

// Student represents a student record in our system.
//
// The json:"..." tags control how each field appears when encoded to JSON
// (lowercase names match REST API conventions). Validation rules are not
// tags here: they depend on the configured profile and live in the
// validation package.
//
// Age is a pointer because it is optional: nil means "not given", which is
// different from an age of zero.
type Student struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Age     *int   `json:"age,omitempty"`
	Course  string `json:"course,omitempty"`
	FileRef string `json:"file_ref,omitempty"`
}

// Field names one editable input of the student form.
// The set is closed: every validation error is keyed by one of these.
type Field string

const (
	FieldName   Field = "name"
	FieldEmail  Field = "email"
	FieldPhone  Field = "phone"
	FieldAge    Field = "age"
	FieldCourse Field = "course"
	FieldFile   Field = "file"
)

// Fields lists every form field in display order.
var Fields = []Field{FieldName, FieldEmail, FieldPhone, FieldAge, FieldCourse, FieldFile}

// ParseField converts user input ("name", "email", ...) into a Field.
// The boolean is false for anything outside the closed set.
func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// FieldErrors maps a field to the message shown under it.
type FieldErrors map[Field]string

// Mode is the state of the student form.
type Mode int

const (
	// Creating is the initial state: submitting appends a new record.
	Creating Mode = iota
	// Editing means submitting replaces an existing record in place.
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "creating"
}

// Draft is the scratch copy of a student while the form is being filled in.
// Every value is kept as the raw text the user typed; Age in particular is
// only turned into a number when the draft is committed.
//
// ID is nil while creating and points at the edited record's id otherwise.
type Draft struct {
	ID      *int64
	Name    string
	Email   string
	Phone   string
	Age     string
	Course  string
	FileRef string
}

// DraftFrom copies a stored student into a new draft.
// The draft does not share memory with s: edits stay local until commit.
func DraftFrom(s Student) Draft {
	id := s.ID
	d := Draft{
		ID:      &id,
		Name:    s.Name,
		Email:   s.Email,
		Phone:   s.Phone,
		Course:  s.Course,
		FileRef: s.FileRef,
	}
	if s.Age != nil {
		d.Age = strconv.Itoa(*s.Age)
	}
	return d
}

// Get returns the raw text of one field.
func (d Draft) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	case FieldAge:
		return d.Age
	case FieldCourse:
		return d.Course
	case FieldFile:
		return d.FileRef
	}
	return ""
}

// Set overwrites the raw text of one field. Unknown fields are ignored.
func (d *Draft) Set(f Field, value string) {
	switch f {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldAge:
		d.Age = value
	case FieldCourse:
		d.Course = value
	case FieldFile:
		d.FileRef = value
	}
}

// Student converts the draft into a record, coercing age to a number.
// An empty age becomes nil. The caller is expected to have validated the
// draft first; an unparsable age is reported as an error instead of being
// silently turned into a sentinel value.
func (d Draft) Student() (Student, error) {
	s := Student{
		Name:    d.Name,
		Email:   d.Email,
		Phone:   d.Phone,
		Course:  d.Course,
		FileRef: d.FileRef,
	}
	if d.ID != nil {
		s.ID = *d.ID
	}
	if raw := strings.TrimSpace(d.Age); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			return Student{}, err
		}
		s.Age = &age
	}
	return s, nil
}
