// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by every backend call.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the transport default
	// in place; the client never imposes its own deadline otherwise.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pdf-suite/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Locale selects the language of fallback messages and the locale hint sent
// to the summarizer.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleFR Locale = "fr"
)

// ClientConfig groups the settings read from pdf-suite.yaml, PDF_SUITE_*
// environment variables and flags.
type ClientConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIURL is the backend base URL; endpoint paths such as
	// /converter/convert/{tool} are resolved against it.
	APIURL string `json:"api_url" yaml:"api_url"`

	// Locale is the UI language (en or fr).
	Locale Locale `json:"locale" yaml:"locale"`

	// OutputDir is where conversion results are downloaded.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// StateDir holds the client storage database (token, history).
	StateDir string `json:"state_dir" yaml:"state_dir"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `json:"log_level" yaml:"log_level"`
}
