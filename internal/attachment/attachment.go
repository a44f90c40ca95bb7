// Package attachment keeps uploaded files in memory so a student record can
// point at one (Student.FileRef) and the file can be previewed later.
//
// Nothing here touches the disk: files live only as long as the process,
// the same way a browser object URL lives only as long as the page.
//
// Only images and PDFs are accepted. The type is sniffed from the bytes
// with gabriel-vasile/mimetype, not taken from the file name or from a
// client-supplied header.
package attachment

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("attachment not found")
	ErrUnsupportedType = errors.New("only image and PDF files are allowed")
	ErrTooLarge        = errors.New("attachment is too large")
	ErrEmpty           = errors.New("attachment is empty")
)

// DefaultMaxBytes caps a single attachment when no limit is configured.
const DefaultMaxBytes = 5 << 20

// Attachment is one stored file.
type Attachment struct {
	Ref         string    `json:"ref"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`

	data []byte
}

// Data returns the file contents.
func (a Attachment) Data() []byte {
	return a.data
}

// Registry is an in-memory, concurrency-safe attachment store.
type Registry struct {
	mu       sync.RWMutex
	files    map[string]Attachment
	maxBytes int
}

// NewRegistry returns an empty registry. maxBytes <= 0 uses DefaultMaxBytes.
func NewRegistry(maxBytes int) *Registry {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Registry{
		files:    make(map[string]Attachment),
		maxBytes: maxBytes,
	}
}

// MaxBytes reports the per-file size limit.
func (r *Registry) MaxBytes() int {
	return r.maxBytes
}

// Put stores a copy of data and returns its new reference.
func (r *Registry) Put(filename string, data []byte) (Attachment, error) {
	if len(data) == 0 {
		return Attachment{}, ErrEmpty
	}
	if len(data) > r.maxBytes {
		return Attachment{}, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), r.maxBytes)
	}

	mtype := mimetype.Detect(data)
	if !Allowed(mtype) {
		return Attachment{}, fmt.Errorf("%w: got %s", ErrUnsupportedType, mtype.String())
	}

	a := Attachment{
		Ref:         uuid.NewString(),
		Filename:    filename,
		ContentType: mtype.String(),
		Size:        len(data),
		UploadedAt:  time.Now().UTC(),
		data:        append([]byte(nil), data...),
	}

	r.mu.Lock()
	r.files[a.Ref] = a
	r.mu.Unlock()

	return a, nil
}

// Get returns the attachment stored under ref.
func (r *Registry) Get(ref string) (Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.files[ref]
	if !ok {
		return Attachment{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return a, nil
}

// Delete forgets ref. Unknown refs return ErrNotFound.
func (r *Registry) Delete(ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.files[ref]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	delete(r.files, ref)
	return nil
}

// Allowed reports whether a sniffed type is an image or a PDF.
func Allowed(m *mimetype.MIME) bool {
	for t := m; t != nil; t = t.Parent() {
		if strings.HasPrefix(t.String(), "image/") || t.Is("application/pdf") {
			return true
		}
	}
	return false
}
