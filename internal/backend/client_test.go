// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf-suite/internal/upload"
	"github.com/pdiddy/pdf-suite/pkg/types"
)

func newTestClient(ts *httptest.Server) *Client {
	c := New(types.ClientConfig{APIURL: ts.URL + "/api", HTTPConfig: types.HTTPConfig{UserAgent: "pdf-suite-test"}}, zerolog.Nop())
	c.HTTP = ts.Client()
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestConvertSuccess(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/converter/convert/png-to-pdf", r.URL.Path)
		assert.Equal(t, "pdf-suite-test", r.Header.Get("User-Agent"))

		f, hdr, err := r.FormFile("file")
		if assert.NoError(t, err) {
			data, _ := io.ReadAll(f)
			assert.Equal(t, "png-bytes", string(data))
			assert.Equal(t, "scan.png", hdr.Filename)
			assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"result":  map[string]string{"fileUrl": "u", "fileName": "f.pdf"},
		})
	}))
	defer ts.Close()

	res, err := newTestClient(ts).Convert(context.Background(), "png-to-pdf",
		upload.FromBytes("scan.png", "image/png", []byte("png-bytes")))
	require.NoError(t, err)
	assert.Equal(t, types.ConversionResult{FileURL: "u", FileName: "f.pdf"}, res)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestConvertFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind error
		wantMsg  string
	}{
		{"logical failure with message", 200, `{"success":false,"message":"bad page"}`, types.ErrRequestFailed, "bad page"},
		{"logical failure without message", 200, `{"success":false}`, types.ErrRequestFailed, ""},
		{"success without result", 200, `{"success":true}`, types.ErrRequestFailed, ""},
		{"server error with message", 500, `{"message":"converter down"}`, types.ErrRequestFailed, "converter down"},
		{"server error with error field", 502, `{"error":"gateway"}`, types.ErrRequestFailed, "gateway"},
		{"server error html", 500, `<html>oops</html>`, types.ErrRequestFailed, ""},
		{"unparseable success body", 200, `not json`, types.ErrTransportError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer ts.Close()

			_, err := newTestClient(ts).Convert(context.Background(), "compress-pdf",
				upload.FromBytes("a.pdf", types.PDFMimeType, []byte("%PDF")))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)

			var typed *types.Error
			require.ErrorAs(t, err, &typed)
			assert.Equal(t, tt.wantMsg, typed.Message)
		})
	}
}

func TestConvertTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c := newTestClient(ts)
	ts.Close()

	_, err := c.Convert(context.Background(), "png-to-pdf", upload.FromBytes("a.png", "image/png", nil))
	assert.ErrorIs(t, err, types.ErrTransportError)
}

func TestMergeFieldOrder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/converter/convert/merge", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		var got []string
		for _, field := range []string{"file0", "file1", "file2"} {
			f, hdr, err := r.FormFile(field)
			if !assert.NoError(t, err) {
				return
			}
			f.Close()
			got = append(got, hdr.Filename)
		}
		assert.Equal(t, []string{"b.pdf", "c.pdf", "a.pdf"}, got)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"result":  map[string]string{"fileUrl": "http://x/merged.pdf", "fileName": "merged.pdf"},
		})
	}))
	defer ts.Close()

	files := []*upload.Candidate{
		upload.FromBytes("b.pdf", types.PDFMimeType, []byte("b")),
		upload.FromBytes("c.pdf", types.PDFMimeType, []byte("c")),
		upload.FromBytes("a.pdf", types.PDFMimeType, []byte("a")),
	}
	res, err := newTestClient(ts).Merge(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, "merged.pdf", res.FileName)
}
