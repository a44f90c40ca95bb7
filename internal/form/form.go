// Package form implements the student form: the draft being typed, the
// per-field errors, and the Creating/Editing mode that decides whether a
// submit appends a new record or replaces an existing one.
//
// STATE MACHINE:
//
//	             StartEdit / Edit
//	Creating ────────────────────▶ Editing ──┐ StartEdit (switch record)
//	    ▲                             │  ◀────┘
//	    └─── Cancel / Submit(ok) ─────┘
//
// A failed Submit (validation errors) leaves the mode and draft as they
// were. Delete is gated by a Confirmer so nothing is removed without an
// explicit "yes".
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/aanand-mishra/student-crud/internal/storage"
	"github.com/aanand-mishra/student-crud/internal/types"
	"github.com/aanand-mishra/student-crud/internal/validation"
)

// ErrValidation is matched (errors.Is) by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError carries the per-field messages of a rejected submit.
type ValidationError struct {
	Fields types.FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range types.Fields {
		if msg, ok := e.Fields[f]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", f, msg))
		}
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Action says what a successful submit did to the store.
type Action int

const (
	Created Action = iota
	Updated
)

func (a Action) String() string {
	if a == Updated {
		return "updated"
	}
	return "created"
}

// Outcome is the result of a successful Submit.
type Outcome struct {
	Action  Action
	Student types.Student
}

// Session is one user's form over a shared store.
//
// A Session is not safe for concurrent use: it models a single actor
// typing into a single form. The store underneath may be shared.
type Session struct {
	store     storage.Storage
	validator *validation.Validator
	log       *slog.Logger

	mode   types.Mode
	draft  types.Draft
	errors types.FieldErrors
}

// NewSession returns a session in Creating mode with an empty draft.
// A nil logger falls back to slog.Default().
func NewSession(store storage.Storage, v *validation.Validator, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		store:     store,
		validator: v,
		log:       log,
		errors:    make(types.FieldErrors),
	}
}

func (s *Session) Mode() types.Mode {
	return s.mode
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() types.Draft {
	d := s.draft
	if d.ID != nil {
		id := *d.ID
		d.ID = &id
	}
	return d
}

// Errors returns a copy of the current field errors.
func (s *Session) Errors() types.FieldErrors {
	return maps.Clone(s.errors)
}

// StartEdit loads a copy of student into the draft and switches to
// Editing. Any pending errors from a previous draft are dropped.
func (s *Session) StartEdit(student types.Student) {
	s.mode = types.Editing
	s.draft = types.DraftFrom(student)
	s.errors = make(types.FieldErrors)

	s.log.Debug("editing student", slog.Int64("id", student.ID))
}

// Edit looks the student up in the store and starts editing it.
func (s *Session) Edit(id int64) error {
	student, err := s.store.GetStudentByID(id)
	if err != nil {
		return fmt.Errorf("edit student %d: %w", id, err)
	}
	s.StartEdit(student)
	return nil
}

// Cancel throws the draft away and returns to Creating. The store is
// never touched.
func (s *Session) Cancel() {
	s.reset()
	s.log.Debug("form cancelled")
}

// ChangeField updates one draft field and clears that field's error.
// The new value is not validated until the next Submit.
func (s *Session) ChangeField(field types.Field, value string) {
	s.draft.Set(field, value)
	delete(s.errors, field)
}

// Submit validates the whole draft and, if it is clean, commits it:
// Editing replaces the record in place, Creating appends a new one.
// Afterwards the session is back in Creating with an empty draft.
//
// On validation failure it returns an error matching ErrValidation (use
// errors.As for the *ValidationError) and nothing changes except Errors().
//
// If the record being edited has disappeared from the store, the error
// wraps storage.ErrNotFound and the session stays in Editing so the user
// can Cancel.
func (s *Session) Submit() (Outcome, error) {
	s.errors = s.validator.Draft(s.draft)
	if len(s.errors) > 0 {
		s.log.Debug("submit rejected", slog.Int("errors", len(s.errors)))
		return Outcome{}, &ValidationError{Fields: maps.Clone(s.errors)}
	}

	student, err := s.draft.Student()
	if err != nil {
		// The validator and Draft.Student trim age the same way, so this
		// only fires if the two drift apart.
		s.errors[types.FieldAge] = "Age must be a whole number"
		return Outcome{}, &ValidationError{Fields: maps.Clone(s.errors)}
	}

	var outcome Outcome

	if s.mode == types.Editing && s.draft.ID != nil {
		id := *s.draft.ID
		updated, err := s.store.UpdateStudentByID(id, student)
		if err != nil {
			return Outcome{}, fmt.Errorf("update student %d: %w", id, err)
		}
		outcome = Outcome{Action: Updated, Student: updated}
	} else {
		id, err := s.store.CreateStudent(student)
		if err != nil {
			return Outcome{}, fmt.Errorf("create student: %w", err)
		}
		student.ID = id
		outcome = Outcome{Action: Created, Student: student}
	}

	s.log.Info("student saved",
		slog.String("action", outcome.Action.String()),
		slog.Int64("id", outcome.Student.ID))

	s.reset()
	return outcome, nil
}

// Delete asks c for confirmation and, if given, removes the student.
//
// A declined prompt returns (Declined, nil) and leaves the store alone.
// Deleting the record that is currently being edited also cancels the
// edit, so a later Submit cannot resurrect it.
func (s *Session) Delete(ctx context.Context, id int64, c Confirmer) (Decision, error) {
	decision, err := c.Confirm(ctx, fmt.Sprintf("Are you sure you want to delete student %d?", id))
	if err != nil {
		return Declined, fmt.Errorf("confirm delete: %w", err)
	}
	if decision != Confirmed {
		s.log.Debug("delete declined", slog.Int64("id", id))
		return Declined, nil
	}

	if err := s.store.DeleteStudentByID(id); err != nil {
		return Confirmed, fmt.Errorf("delete student %d: %w", id, err)
	}

	if s.mode == types.Editing && s.draft.ID != nil && *s.draft.ID == id {
		s.reset()
	}

	s.log.Info("student deleted", slog.Int64("id", id))
	return Confirmed, nil
}

// List returns every stored student in display order.
func (s *Session) List() ([]types.Student, error) {
	return s.store.GetStudents()
}

func (s *Session) reset() {
	s.mode = types.Creating
	s.draft = types.Draft{}
	s.errors = make(types.FieldErrors)
}
