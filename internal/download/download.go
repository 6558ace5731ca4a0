// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download saves finished conversion results into the output
// directory. Files are written to a temp file and renamed into place so a
// failed transfer never leaves a partial result behind.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

// Downloader fetches result URLs into Dir.
type Downloader struct {
	HTTP      *http.Client
	Dir       string
	UserAgent string
	// BaseURL resolves relative result URLs.
	BaseURL string
	// Progress receives a progress bar while a file downloads. Nil disables it.
	Progress io.Writer

	log zerolog.Logger
}

// New returns a downloader writing into dir.
func New(client *http.Client, dir string, log zerolog.Logger) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Downloader{HTTP: client, Dir: dir, log: log}
}

// Fetch downloads rawURL and saves it as name inside Dir. An empty name
// falls back to the last path segment of the URL. It returns the path
// written.
func (d *Downloader) Fetch(ctx context.Context, rawURL, name string) (string, error) {
	target, err := d.resolve(rawURL)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(d.Dir, fileName(name, target))

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}

	resp, err := d.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, target)
	}

	tmpFile, err := os.CreateTemp(d.Dir, ".download-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	var w io.Writer = tmpFile
	var bar *progressbar.ProgressBar
	if d.Progress != nil {
		bar = newBar(d.Progress, resp.ContentLength, filepath.Base(dest))
		w = io.MultiWriter(tmpFile, bar)
	}

	n, copyErr := io.Copy(w, resp.Body)
	closeErr := tmpFile.Close()
	if bar != nil {
		_ = bar.Finish()
	}
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	d.log.Debug().Str("path", dest).Int64("bytes", n).Msg("downloaded")
	return dest, nil
}

func (d *Downloader) resolve(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing result URL %q: %w", rawURL, err)
	}
	if u.IsAbs() {
		return u, nil
	}
	if d.BaseURL == "" {
		return nil, fmt.Errorf("relative result URL %q and no base URL", rawURL)
	}
	base, err := url.Parse(d.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	return base.ResolveReference(u), nil
}

// fileName keeps only the final element of name so a server-supplied name
// cannot escape the output directory.
func fileName(name string, u *url.URL) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if unusable(name) {
		name = path.Base(u.Path)
	}
	if unusable(name) {
		name = "result.pdf"
	}
	return name
}

func unusable(name string) bool {
	return name == "" || name == "." || name == ".." || name == "/"
}

func newBar(w io.Writer, total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)
}
