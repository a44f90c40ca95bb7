// Package student contains all HTTP handlers related to the Student resource.
//
// Each exported function is a FACTORY: it receives the dependencies
// (storage, validator) once at startup and returns the
// func(http.ResponseWriter, *http.Request) the router calls per request.
//
//	router.HandleFunc("POST /api/students", student.New(store, v))
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/student-crud/internal/metrics"
	"github.com/aanand-mishra/student-crud/internal/storage"
	"github.com/aanand-mishra/student-crud/internal/types"
	"github.com/aanand-mishra/student-crud/internal/utils/response"
	"github.com/aanand-mishra/student-crud/internal/validation"
)

// New handles POST /api/students
// Appends a new student built from the JSON request body.
//
// Request body (JSON):
//
//	{ "name": "Asha Rao", "email": "asha@example.com", "phone": "9876543210", "age": 20, "course": "BSc" }
//
// Success response (201 Created):
//
//	{ "id": 3 }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	500 Internal     — storage error
func New(store storage.Storage, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		student, ok := decodeAndValidate(w, r, v)
		if !ok {
			return
		}

		lastID, err := store.CreateStudent(student)
		metrics.StudentOpsTotal.WithLabelValues("create", metrics.Result(err)).Inc()
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("student created", slog.Int64("id", lastID))
		response.WriteJSON(w, http.StatusCreated, map[string]int64{"id": lastID})
	}
}

// GetByID handles GET /api/students/{id}
//
// Error responses:
//
//	400 Bad Request  — id is not a valid integer
//	404 Not Found    — no such student
//	500 Internal     — storage error
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		student, err := store.GetStudentByID(id)
		if err != nil {
			writeStoreError(w, "error getting student", id, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /api/students
// Returns every student in insertion order; [] (not null) when empty.
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := store.GetStudents()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// Update handles PUT /api/students/{id}
// Replaces every field of an existing student; its id and its position in
// the list stay the same. An id in the body is ignored.
//
// Error responses:
//
//	400 Bad Request  — invalid id, empty body, or validation failure
//	404 Not Found    — no such student
//	500 Internal     — storage error
func Update(store storage.Storage, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		student, ok := decodeAndValidate(w, r, v)
		if !ok {
			return
		}

		updated, err := store.UpdateStudentByID(id, student)
		metrics.StudentOpsTotal.WithLabelValues("update", metrics.Result(err)).Inc()
		if err != nil {
			writeStoreError(w, "error updating student", id, err)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/students/{id}
// The request itself is the user's confirmation.
//
// Success response (200 OK):
//
//	{ "status": "deleted" }
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		err := store.DeleteStudentByID(id)
		metrics.StudentOpsTotal.WithLabelValues("delete", metrics.Result(err)).Inc()
		if err != nil {
			writeStoreError(w, "error deleting student", id, err)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// pathID parses the {id} path segment, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

// decodeAndValidate reads a Student from the body and runs the configured
// rule profile over it, writing a 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validation.Validator) (types.Student, bool) {
	var student types.Student

	err := json.NewDecoder(r.Body).Decode(&student)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return types.Student{}, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return types.Student{}, false
	}

	if fields := v.Student(student); len(fields) > 0 {
		for f := range fields {
			metrics.ValidationFailuresTotal.WithLabelValues(string(f)).Inc()
		}
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(fields))
		return types.Student{}, false
	}

	return student, true
}

// writeStoreError maps storage.ErrNotFound to 404 and anything else to 500.
func writeStoreError(w http.ResponseWriter, msg string, id int64, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
		return
	}

	slog.Error(msg,
		slog.Int64("id", id),
		slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}
