// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
package response

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/aanand-mishra/student-crud/internal/types"
)

// Response is the standard envelope returned for error cases.
//
// Success responses may return any JSON shape (a student, a list, an id…).
// Error responses always look like:
//
//	{ "status": "error", "error": "Name is required" }
//
// Validation failures additionally carry one message per field, so a form
// can show each message under its own input:
//
//	{ "status": "error", "error": "...", "fields": { "email": "Invalid email format" } }
type Response struct {
	Status string            `json:"status"`
	Error  string            `json:"error"`
	Fields types.FieldErrors `json:"fields,omitempty"`
}

// Status string constants.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes data as JSON with the given HTTP status code.
//
// Order matters: Header() → WriteHeader() → body. Headers are locked once
// the status line is written.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into our standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError turns per-field messages into a Response. The summary
// joins the messages in field name order so it is stable across requests.
func ValidationError(fields types.FieldErrors) Response {
	keys := make([]string, 0, len(fields))
	for f := range fields {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fields[types.Field(k)])
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(msgs, ", "),
		Fields: fields,
	}
}
