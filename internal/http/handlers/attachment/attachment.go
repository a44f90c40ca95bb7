// Package attachment contains the HTTP handlers for uploading and
// previewing student attachments.
//
// Uploads are kept in memory only; the returned ref is what a client puts
// into a student's "file_ref" field.
package attachment

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/student-crud/internal/attachment"
	"github.com/aanand-mishra/student-crud/internal/metrics"
	"github.com/aanand-mishra/student-crud/internal/utils/response"
)

// formField is the multipart field holding the file.
const formField = "file"

// Upload handles POST /api/attachments (multipart/form-data, field "file").
//
// Success response (201 Created):
//
//	{ "ref": "…uuid…", "filename": "photo.png", "content_type": "image/png", "size": 1234, "uploaded_at": "…" }
//
// Error responses:
//
//	400 Bad Request             — no file in the form
//	413 Request Entity Too Large — over the configured limit
//	415 Unsupported Media Type  — not an image or PDF
func Upload(registry *attachment.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("uploading an attachment")

		// Allow some room for the multipart envelope around the file.
		r.Body = http.MaxBytesReader(w, r.Body, int64(registry.MaxBytes())+1<<20)

		file, header, err := r.FormFile(formField)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				response.WriteJSON(w, http.StatusRequestEntityTooLarge,
					response.GeneralError(attachment.ErrTooLarge))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(fmt.Errorf("missing %q form file: %w", formField, err)))
			return
		}
		defer file.Close()

		// Read one byte past the limit so Put can tell "exactly at" from "over".
		data, err := io.ReadAll(io.LimitReader(file, int64(registry.MaxBytes())+1))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		a, err := registry.Put(header.Filename, data)
		if err != nil {
			slog.Info("attachment rejected",
				slog.String("filename", header.Filename),
				slog.String("error", err.Error()))
			response.WriteJSON(w, statusFor(err), response.GeneralError(err))
			return
		}

		metrics.AttachmentBytes.Observe(float64(a.Size))
		slog.Info("attachment stored",
			slog.String("ref", a.Ref),
			slog.String("content_type", a.ContentType),
			slog.Int("size", a.Size))

		response.WriteJSON(w, http.StatusCreated, a)
	}
}

// Get handles GET /api/attachments/{ref}
// Serves the raw file with its sniffed content type, inline, for preview.
func Get(registry *attachment.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := r.PathValue("ref")

		a, err := registry.Get(ref)
		if err != nil {
			response.WriteJSON(w, statusFor(err), response.GeneralError(err))
			return
		}

		w.Header().Set("Content-Type", a.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(a.Size))
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", a.Filename))
		w.WriteHeader(http.StatusOK)
		w.Write(a.Data())
	}
}

// Delete handles DELETE /api/attachments/{ref}
func Delete(registry *attachment.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := r.PathValue("ref")
		slog.Info("deleting an attachment", slog.String("ref", ref))

		if err := registry.Delete(ref); err != nil {
			response.WriteJSON(w, statusFor(err), response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, attachment.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, attachment.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, attachment.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, attachment.ErrEmpty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
