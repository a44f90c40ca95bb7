package attachment

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-crud/internal/attachment"
)

var pdf = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")

func newRouter(maxBytes int) *http.ServeMux {
	registry := attachment.NewRegistry(maxBytes)

	router := http.NewServeMux()
	router.HandleFunc("POST /api/attachments", Upload(registry))
	router.HandleFunc("GET /api/attachments/{ref}", Get(registry))
	router.HandleFunc("DELETE /api/attachments/{ref}", Delete(registry))
	return router
}

func uploadRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/attachments", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUploadPreviewDelete(t *testing.T) {
	router := newRouter(0)

	rec := serve(router, uploadRequest(t, "file", "marks.pdf", pdf))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var a attachment.Attachment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.NotEmpty(t, a.Ref)
	assert.Equal(t, "application/pdf", a.ContentType)
	assert.Equal(t, "marks.pdf", a.Filename)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/api/attachments/"+a.Ref, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, pdf, rec.Body.Bytes())

	rec = serve(router, httptest.NewRequest(http.MethodDelete, "/api/attachments/"+a.Ref, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/api/attachments/"+a.Ref, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadRejections(t *testing.T) {
	router := newRouter(64)

	rec := serve(router, uploadRequest(t, "file", "notes.txt", []byte("plain text, not allowed")))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = serve(router, uploadRequest(t, "document", "marks.pdf", pdf))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	big := append(append([]byte(nil), pdf...), bytes.Repeat([]byte{' '}, 128)...)
	rec = serve(router, uploadRequest(t, "file", "big.pdf", big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
