package attachment

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	pdfHeader = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
)

func TestPutAndGet(t *testing.T) {
	r := NewRegistry(0)

	tests := []struct {
		name     string
		filename string
		data     []byte
		wantType string
	}{
		{"png", "photo.png", pngHeader, "image/png"},
		{"pdf", "marks.pdf", pdfHeader, "application/pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := r.Put(tt.filename, tt.data)
			require.NoError(t, err)
			assert.NotEmpty(t, a.Ref)
			assert.Equal(t, tt.wantType, a.ContentType)
			assert.Equal(t, len(tt.data), a.Size)

			got, err := r.Get(a.Ref)
			require.NoError(t, err)
			assert.Equal(t, tt.filename, got.Filename)
			assert.True(t, bytes.Equal(tt.data, got.Data()))
		})
	}
}

func TestPutRejects(t *testing.T) {
	r := NewRegistry(64)

	_, err := r.Put("notes.txt", []byte("just some plain text"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = r.Put("empty.png", nil)
	assert.ErrorIs(t, err, ErrEmpty)

	big := append(append([]byte(nil), pngHeader...), make([]byte, 100)...)
	_, err = r.Put("big.png", big)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestPutCopiesData(t *testing.T) {
	r := NewRegistry(0)
	data := append([]byte(nil), pdfHeader...)

	a, err := r.Put("marks.pdf", data)
	require.NoError(t, err)
	data[0] = 'X'

	got, err := r.Get(a.Ref)
	require.NoError(t, err)
	assert.Equal(t, byte('%'), got.Data()[0])
}

func TestDelete(t *testing.T) {
	r := NewRegistry(0)

	a, err := r.Put("photo.png", pngHeader)
	require.NoError(t, err)

	require.NoError(t, r.Delete(a.Ref))
	_, err = r.Get(a.Ref)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.Delete(a.Ref), ErrNotFound)
}
