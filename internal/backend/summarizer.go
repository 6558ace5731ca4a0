// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/pdf-suite/internal/httputil"
	"github.com/pdiddy/pdf-suite/internal/upload"
	"github.com/pdiddy/pdf-suite/pkg/types"
)

type initializeResponse struct {
	ThreadID string `json:"threadId"`
	Summary  string `json:"summary"`
}

type askRequest struct {
	ThreadID string       `json:"threadId"`
	Question string       `json:"question"`
	Locale   types.Locale `json:"locale"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// Initialize uploads a PDF for summarization and returns the thread id and
// the raw summary.
func (c *Client) Initialize(ctx context.Context, cand *upload.Candidate, locale types.Locale) (threadID, summary string, err error) {
	req, err := httputil.NewMultipartRequest(ctx, c.url(initializePath),
		[]httputil.Field{{Name: "locale", Value: string(locale)}},
		[]httputil.FilePart{filePart("pdf", cand)})
	if err != nil {
		return "", "", types.NewError(types.KindTransportError, "", err)
	}
	var out initializeResponse
	if err := c.do(req, &out); err != nil {
		return "", "", err
	}
	if out.ThreadID == "" {
		return "", "", types.NewError(types.KindRequestFailed, "", fmt.Errorf("initialize response has no threadId"))
	}
	return out.ThreadID, out.Summary, nil
}

// Ask sends a question on an existing thread and returns the raw answer.
func (c *Client) Ask(ctx context.Context, threadID, question string, locale types.Locale) (string, error) {
	req, err := httputil.NewJSONRequest(ctx, http.MethodPost, c.url(askPath),
		askRequest{ThreadID: threadID, Question: question, Locale: locale})
	if err != nil {
		return "", types.NewError(types.KindTransportError, "", err)
	}
	var out askResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}
