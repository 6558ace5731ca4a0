// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session holds the file picked in one place and consumed in
// another, such as the summarizer's upload step handing off to its chat.
package session

import (
	"sync"

	"github.com/pdiddy/pdf-suite/internal/upload"
)

// FileContext stores at most one candidate. Consumers read it with Get and
// never clear it; only an explicit start-over calls Clear.
type FileContext struct {
	mu   sync.Mutex
	file *upload.Candidate
}

// Get returns the stored candidate and whether one is set.
func (c *FileContext) Get() (*upload.Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.file, c.file != nil
}

// Set replaces the stored candidate.
func (c *FileContext) Set(f *upload.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.file = f
}

// Clear drops the stored candidate.
func (c *FileContext) Clear() {
	c.Set(nil)
}
