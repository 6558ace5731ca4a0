// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package upload

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf-suite/pkg/types"
)

// sized returns a candidate that reports size without holding the bytes.
func sized(name, mimeType string, size int64) *Candidate {
	return &Candidate{Name: name, Type: mimeType, Size: size}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       *Candidate
		allow   []string
		wantErr error
	}{
		{"pdf accepted", sized("a.pdf", types.PDFMimeType, 1024), PDFOnly, nil},
		{"png rejected by pdf-only", sized("a.png", "image/png", 1024), PDFOnly, types.ErrInvalidType},
		{"empty type rejected by pdf-only", sized("a", "", 10), PDFOnly, types.ErrInvalidType},
		{"exactly the ceiling", sized("a.pdf", types.PDFMimeType, MaxSize), PDFOnly, nil},
		{"one byte over", sized("a.pdf", types.PDFMimeType, MaxSize+1), PDFOnly, types.ErrTooLarge},
		{"too large regardless of type", sized("a.bin", "application/zip", MaxSize+1), nil, types.ErrTooLarge},
		{"empty allow-list accepts any type", sized("a.bin", "application/zip", 10), nil, nil},
		{"nil candidate", nil, PDFOnly, types.ErrNoFileSelected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.c, tt.allow)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.c, got)
		})
	}
}

func TestValidateInvalidTypeListsAllowed(t *testing.T) {
	_, err := Validate(sized("a.png", "image/png", 1), []string{"application/pdf", "text/plain"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "application/pdf, text/plain")

	var typed *types.Error
	require.ErrorAs(t, err, &typed)
	assert.True(t, typed.Kind.Inline())
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7"), 0o644))

	c, err := FromPath(path, types.PDFMimeType)
	require.NoError(t, err)
	assert.Equal(t, "doc.pdf", c.Name)
	assert.Equal(t, int64(8), c.Size)

	rc, err := c.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))

	_, err = FromPath(filepath.Join(dir, "missing.pdf"), types.PDFMimeType)
	assert.Error(t, err)

	_, err = FromPath(dir, types.PDFMimeType)
	assert.Error(t, err)
}

func TestOpenWithoutContent(t *testing.T) {
	_, err := sized("a.pdf", types.PDFMimeType, 1).Open()
	assert.Error(t, err)
}
