// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package upload models a user-picked file and the checks that gate it
// before any request is made.
package upload

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pdf-suite/pkg/types"
)

// MaxSize is the upload ceiling shared by every flow: 10 MiB.
const MaxSize int64 = 10 * 1024 * 1024

// PDFOnly is the default allow-list for the plain PDF uploader.
var PDFOnly = []string{types.PDFMimeType}

// Candidate is a picked file that has not been validated or submitted yet.
// Content is opened on demand so a size check never reads the file.
type Candidate struct {
	Name string
	Type string
	Size int64

	open func() (io.ReadCloser, error)
}

// Open returns a reader over the candidate's content.
func (c *Candidate) Open() (io.ReadCloser, error) {
	if c.open == nil {
		return nil, fmt.Errorf("candidate %s has no content", c.Name)
	}
	return c.open()
}

// FromPath stats path and returns a candidate with the given declared type.
func FromPath(path, mimeType string) (*Candidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &Candidate{
		Name: filepath.Base(path),
		Type: mimeType,
		Size: info.Size(),
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FromBytes returns an in-memory candidate.
func FromBytes(name, mimeType string, data []byte) *Candidate {
	return &Candidate{
		Name: name,
		Type: mimeType,
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Validate checks c against allow and MaxSize. An empty allow-list accepts
// any type. It returns c unchanged on success.
func Validate(c *Candidate, allow []string) (*Candidate, error) {
	if c == nil {
		return nil, types.NewError(types.KindNoFileSelected, "no file selected", nil)
	}
	if len(allow) > 0 && !contains(allow, c.Type) {
		return nil, types.NewError(types.KindInvalidType,
			fmt.Sprintf("%s: unsupported file type %q (%s)", c.Name, c.Type, strings.Join(allow, ", ")), nil)
	}
	if c.Size > MaxSize {
		return nil, types.NewError(types.KindTooLarge,
			fmt.Sprintf("%s: file is larger than %d MiB", c.Name, MaxSize>>20), nil)
	}
	return c, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
