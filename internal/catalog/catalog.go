// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog holds the static tool catalogs and the lookups built on
// them: tool by id, the PDF Converter's derived accepted types, to-PDF tool
// resolution by MIME type, and declared MIME type by file extension.
package catalog

import (
	_ "embed"
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-suite/pkg/types"
)

// Tab names, in display order.
const (
	TabFromPDF = "from-pdf"
	TabToPDF   = "to-pdf"
	TabOther   = "other"
)

// DefaultFormat is preselected in the destination-format picker.
const DefaultFormat = "word"

const fallbackType = "application/octet-stream"

//go:embed catalog.yaml
var embedded []byte

// Tab is one catalog page.
type Tab struct {
	Name  string       `yaml:"name"`
	Title string       `yaml:"title"`
	Tools []types.Tool `yaml:"tools"`
}

type document struct {
	Tabs       []Tab             `yaml:"tabs"`
	Formats    []string          `yaml:"formats"`
	Extensions map[string]string `yaml:"extensions"`
}

// Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	tabs           []Tab
	byID           map[string]types.Tool
	formats        []string
	extensions     map[string]string
	converterTypes []string
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(embedded)
}

// Parse builds a Catalog from YAML. It rejects duplicate tool ids, since ids
// double as endpoint path segments.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(doc.Tabs, doc.Formats, doc.Extensions)
}

// New builds a Catalog from already decoded tabs.
func New(tabs []Tab, formats []string, extensions map[string]string) (*Catalog, error) {
	c := &Catalog{
		tabs:       tabs,
		byID:       make(map[string]types.Tool),
		formats:    formats,
		extensions: make(map[string]string, len(extensions)),
	}
	for ext, typ := range extensions {
		c.extensions[strings.ToLower(ext)] = typ
	}
	for _, tab := range tabs {
		for _, tool := range tab.Tools {
			if tool.ID == "" {
				return nil, fmt.Errorf("tool with empty id in tab %s", tab.Name)
			}
			if _, dup := c.byID[tool.ID]; dup {
				return nil, fmt.Errorf("duplicate tool id %q", tool.ID)
			}
			c.byID[tool.ID] = tool
		}
	}
	c.converterTypes = c.deriveConverterTypes()
	return c, nil
}

// deriveConverterTypes returns PDF plus every type a to-PDF tool accepts,
// de-duplicated in first-seen order.
func (c *Catalog) deriveConverterTypes() []string {
	seen := map[string]bool{types.PDFMimeType: true}
	out := []string{types.PDFMimeType}
	for _, tool := range c.Tab(TabToPDF) {
		for _, t := range tool.AcceptedTypes {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// Tabs returns the tab names in display order.
func (c *Catalog) Tabs() []string {
	names := make([]string, len(c.tabs))
	for i, t := range c.tabs {
		names[i] = t.Name
	}
	return names
}

// Title returns the display title of a tab, or "" if unknown.
func (c *Catalog) Title(tab string) string {
	for _, t := range c.tabs {
		if t.Name == tab {
			return t.Title
		}
	}
	return ""
}

// Tab returns the ordered tools of the named tab, or nil if unknown.
func (c *Catalog) Tab(name string) []types.Tool {
	for _, t := range c.tabs {
		if t.Name == name {
			return t.Tools
		}
	}
	return nil
}

// Lookup returns the tool with the given id.
func (c *Catalog) Lookup(id string) (types.Tool, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// ConverterTypes returns the PDF Converter's effective accepted types.
func (c *Catalog) ConverterTypes() []string {
	return append([]string(nil), c.converterTypes...)
}

// AcceptedTypes returns the allow-list used to validate uploads for tool.
// The generic converter gets the derived set.
func (c *Catalog) AcceptedTypes(tool types.Tool) []string {
	if tool.Generic {
		return c.ConverterTypes()
	}
	return tool.AcceptedTypes
}

// ResolveToPDF returns the first to-PDF tool, in catalog order, whose
// accepted types include mime.
func (c *Catalog) ResolveToPDF(mime string) (types.Tool, bool) {
	for _, tool := range c.Tab(TabToPDF) {
		if len(tool.AcceptedTypes) > 0 && tool.Accepts(mime) {
			return tool, true
		}
	}
	return types.Tool{}, false
}

// Formats returns the destination formats offered for a PDF given to the
// generic converter.
func (c *Catalog) Formats() []string {
	return append([]string(nil), c.formats...)
}

// FormatToolID returns the effective tool id for a destination format and
// whether the format is offered.
func (c *Catalog) FormatToolID(format string) (string, bool) {
	for _, f := range c.formats {
		if f == format {
			return "pdf-to-" + format, true
		}
	}
	return "", false
}

// TypeForFile returns the declared MIME type for a file name, using the
// catalog's extension table before the system MIME database.
func (c *Catalog) TypeForFile(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return fallbackType
	}
	if t, ok := c.extensions[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return strings.TrimSpace(t)
	}
	return fallbackType
}

// IDs returns every tool id, sorted.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
