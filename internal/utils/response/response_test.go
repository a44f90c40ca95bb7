package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-crud/internal/types"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteJSON(rec, http.StatusCreated, map[string]int64{"id": 7}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":7}`, rec.Body.String())
}

func TestGeneralError(t *testing.T) {
	got := GeneralError(errors.New("boom"))
	assert.Equal(t, Response{Status: StatusError, Error: "boom"}, got)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","error":"boom"}`, string(b), "fields omitted when empty")
}

func TestValidationError(t *testing.T) {
	got := ValidationError(types.FieldErrors{
		types.FieldPhone: "Enter a valid 10-digit mobile number",
		types.FieldEmail: "Invalid email format",
	})

	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "Invalid email format, Enter a valid 10-digit mobile number", got.Error)
	assert.Len(t, got.Fields, 2)
}
