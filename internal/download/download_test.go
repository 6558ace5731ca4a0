// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files/out.pdf":
			w.Write([]byte("%PDF-1.7 result"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	tests := []struct {
		name     string
		url      string
		fileName string
		wantFile string
		errMsg   string
	}{
		{name: "absolute url", url: ts.URL + "/files/out.pdf", fileName: "report.pdf", wantFile: "report.pdf"},
		{name: "relative url", url: "/files/out.pdf", fileName: "rel.pdf", wantFile: "rel.pdf"},
		{name: "name from url", url: ts.URL + "/files/out.pdf", wantFile: "out.pdf"},
		{name: "path traversal stripped", url: ts.URL + "/files/out.pdf", fileName: "../../etc/passwd", wantFile: "passwd"},
		{name: "not found", url: ts.URL + "/missing.pdf", fileName: "x.pdf", errMsg: "HTTP 404"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			d := New(ts.Client(), dir, zerolog.Nop())
			d.BaseURL = ts.URL + "/api"

			got, err := d.Fetch(context.Background(), tt.url, tt.fileName)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				entries, _ := os.ReadDir(dir)
				assert.Empty(t, entries, "no partial files left behind")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.wantFile), got)
			data, err := os.ReadFile(got)
			require.NoError(t, err)
			assert.Equal(t, "%PDF-1.7 result", string(data))
		})
	}
}

func TestFetchRelativeWithoutBase(t *testing.T) {
	d := New(nil, t.TempDir(), zerolog.Nop())
	_, err := d.Fetch(context.Background(), "/files/out.pdf", "x.pdf")
	assert.ErrorContains(t, err, "no base URL")
}

func TestFetchWithProgress(t *testing.T) {
	payload := bytes.Repeat([]byte("a"), 4096)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(payload)
	}))
	defer ts.Close()

	var progress bytes.Buffer
	d := New(ts.Client(), t.TempDir(), zerolog.Nop())
	d.Progress = &progress

	got, err := d.Fetch(context.Background(), ts.URL+"/a.bin", "a.bin")
	require.NoError(t, err)
	info, err := os.Stat(got)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), info.Size())
	assert.NotEmpty(t, progress.String())
}

func TestFileName(t *testing.T) {
	withPath, _ := url.Parse("http://x/files/out.pdf")
	bare, _ := url.Parse("http://x/")

	tests := []struct {
		name string
		in   string
		u    *url.URL
		want string
	}{
		{name: "server name", in: "report.docx", u: withPath, want: "report.docx"},
		{name: "directories stripped", in: "../../etc/report.docx", u: withPath, want: "report.docx"},
		{name: "windows separators", in: `C:\tmp\report.docx`, u: withPath, want: "report.docx"},
		{name: "empty uses url", in: "", u: withPath, want: "out.pdf"},
		{name: "dot uses url", in: ".", u: withPath, want: "out.pdf"},
		{name: "parent uses url", in: "..", u: withPath, want: "out.pdf"},
		{name: "nothing usable", in: "..", u: bare, want: "result.pdf"},
		{name: "empty with bare url", in: "", u: bare, want: "result.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fileName(tt.in, tt.u))
		})
	}
}
