// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pdiddy/pdf-suite/internal/messages"
	"github.com/pdiddy/pdf-suite/internal/upload"
	"github.com/pdiddy/pdf-suite/pkg/types"
)

// MaxMergeFiles is the most files a merge accepts.
const MaxMergeFiles = 15

// MergeItem is one file in a MergeSet. ID is stable across reorders.
type MergeItem struct {
	ID   string
	File *upload.Candidate
}

// MergeSet is the ordered selection of PDFs to merge.
type MergeSet struct {
	msg *messages.Bundle

	mu    sync.Mutex
	items []MergeItem
}

// NewMergeSet returns an empty set whose notices come from msg.
func NewMergeSet(msg *messages.Bundle) *MergeSet {
	return &MergeSet{msg: msg}
}

// Add appends the PDF files of files that are within the size limit, up to
// the free slots. Other files are dropped silently. The notice is empty
// unless the file limit cut the batch short.
func (s *MergeSet) Add(files ...*upload.Candidate) (added int, notice string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	free := MaxMergeFiles - len(s.items)
	if free <= 0 {
		return 0, s.msg.Get(messages.MergeMaxFiles)
	}

	var pdfs []*upload.Candidate
	for _, f := range files {
		if f == nil || f.Type != types.PDFMimeType || f.Size > upload.MaxSize {
			continue
		}
		pdfs = append(pdfs, f)
	}
	take := pdfs
	if len(take) > free {
		take = take[:free]
	}
	for _, f := range take {
		s.items = append(s.items, MergeItem{ID: uuid.NewString(), File: f})
	}
	if len(take) < len(pdfs) {
		notice = s.msg.Partial(len(take))
	}
	return len(take), notice
}

// Move removes the item at from and reinserts it at to.
func (s *MergeSet) Move(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d to %d: index out of range [0,%d)", from, to, n)
	}
	if from == to {
		return nil
	}
	item := s.items[from]
	s.items = append(s.items[:from], s.items[from+1:]...)
	s.items = append(s.items[:to], append([]MergeItem{item}, s.items[to:]...)...)
	return nil
}

// Remove drops the item with id. It reports whether the item was present.
func (s *MergeSet) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a copy of the current order.
func (s *MergeSet) Items() []MergeItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MergeItem(nil), s.items...)
}

// Files returns the candidates in submission order.
func (s *MergeSet) Files() []*upload.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*upload.Candidate, len(s.items))
	for i, it := range s.items {
		out[i] = it.File
	}
	return out
}

// Len returns the number of files.
func (s *MergeSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Ready reports whether there are enough files to merge.
func (s *MergeSet) Ready() bool {
	return s.Len() >= 2
}

// Clear empties the set.
func (s *MergeSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}
