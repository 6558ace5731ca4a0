// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend is the HTTP client for the conversion, summarizer and
// auth API. Every method issues exactly one request and classifies the
// outcome into the types.Error taxonomy: transport and parse failures are
// KindTransportError, non-2xx and logical failures are KindRequestFailed.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pdiddy/pdf-suite/internal/httputil"
	"github.com/pdiddy/pdf-suite/internal/upload"
	"github.com/pdiddy/pdf-suite/pkg/types"
)

const (
	convertPath    = "/converter/convert/"
	mergeEndpoint  = "merge"
	signUpPath     = "/auth/signup"
	signInPath     = "/auth/signin"
	profilePath    = "/auth/profile"
	initializePath = "/summarizer/initialize"
	askPath        = "/summarizer/ask"
)

// Client talks to the backend rooted at BaseURL.
type Client struct {
	BaseURL   string
	HTTP      *http.Client
	UserAgent string

	log zerolog.Logger
}

// New returns a client configured from cfg. A zero cfg.Timeout leaves the
// transport default in place.
func New(cfg types.ClientConfig, log zerolog.Logger) *Client {
	return &Client{
		BaseURL:   cfg.APIURL,
		HTTP:      &http.Client{Timeout: cfg.Timeout},
		UserAgent: cfg.UserAgent,
		log:       log,
	}
}

// errorBody is the shape of failure payloads; servers use either field.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// do executes req and decodes a 2xx body into out.
func (c *Client) do(req *http.Request, out any) error {
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	log := c.log.With().Str("method", req.Method).Str("path", req.URL.Path).Logger()

	resp, err := httputil.Do(c.HTTP, req)
	if err != nil {
		log.Warn().Err(err).Msg("request failed")
		return types.NewError(types.KindTransportError, "", err)
	}
	log.Debug().Int("status", resp.Status).Msg("response")

	if !resp.OK() {
		var eb errorBody
		_ = resp.Decode(&eb)
		return types.NewError(types.KindRequestFailed, eb.text(), fmt.Errorf("HTTP %d", resp.Status))
	}
	if out == nil {
		return nil
	}
	if err := resp.Decode(out); err != nil {
		return types.NewError(types.KindTransportError, "", err)
	}
	return nil
}

func (c *Client) url(path string) string {
	return httputil.JoinURL(c.BaseURL, path)
}

func filePart(field string, cand *upload.Candidate) httputil.FilePart {
	return httputil.FilePart{
		Field:       field,
		FileName:    cand.Name,
		ContentType: cand.Type,
		Open:        cand.Open,
	}
}

// conversionResponse is the body of /converter/convert/*.
type conversionResponse struct {
	Success bool                    `json:"success"`
	Result  *types.ConversionResult `json:"result"`
	Message string                  `json:"message"`
}

func (r conversionResponse) result() (types.ConversionResult, error) {
	if !r.Success {
		return types.ConversionResult{}, types.NewError(types.KindRequestFailed, r.Message, nil)
	}
	if r.Result == nil || r.Result.FileURL == "" {
		return types.ConversionResult{}, types.NewError(types.KindRequestFailed, r.Message,
			fmt.Errorf("response has no result"))
	}
	return *r.Result, nil
}

// Convert posts one file to /converter/convert/{toolID}.
func (c *Client) Convert(ctx context.Context, toolID string, cand *upload.Candidate) (types.ConversionResult, error) {
	req, err := httputil.NewMultipartRequest(ctx, c.url(convertPath+toolID), nil,
		[]httputil.FilePart{filePart("file", cand)})
	if err != nil {
		return types.ConversionResult{}, types.NewError(types.KindTransportError, "", err)
	}
	var out conversionResponse
	if err := c.do(req, &out); err != nil {
		return types.ConversionResult{}, err
	}
	return out.result()
}

// Merge posts files as file0..fileN, in order, to the merge endpoint.
func (c *Client) Merge(ctx context.Context, files []*upload.Candidate) (types.ConversionResult, error) {
	parts := make([]httputil.FilePart, len(files))
	for i, f := range files {
		parts[i] = filePart("file"+strconv.Itoa(i), f)
	}
	req, err := httputil.NewMultipartRequest(ctx, c.url(convertPath+mergeEndpoint), nil, parts)
	if err != nil {
		return types.ConversionResult{}, types.NewError(types.KindTransportError, "", err)
	}
	var out conversionResponse
	if err := c.do(req, &out); err != nil {
		return types.ConversionResult{}, err
	}
	return out.result()
}
