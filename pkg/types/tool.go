// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Operation groups tools by the kind of work the backend does. It selects
// the fallback message shown when a request fails without a server message.
type Operation string

const (
	OpConvert  Operation = "convert"
	OpCompress Operation = "compress"
	OpOCR      Operation = "ocr"
	OpMerge    Operation = "merge"
)

// PDFMimeType is the canonical PDF media type.
const PDFMimeType = "application/pdf"

// Tool describes one conversion or editing operation. ID is globally unique
// and doubles as the backend endpoint suffix.
type Tool struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Operation Operation `json:"operation" yaml:"operation"`

	// AcceptedTypes is the MIME allow-list. Empty accepts anything
	// client-side and leaves the decision to a later resolution step.
	AcceptedTypes []string `json:"accepted_types" yaml:"accepted_types"`

	// Generic marks the PDF Converter tool, whose accepted types are derived
	// and whose effective id is resolved per file.
	Generic bool `json:"generic,omitempty" yaml:"generic,omitempty"`

	// Multi marks tools that take several files in one request (merge).
	Multi bool `json:"multi,omitempty" yaml:"multi,omitempty"`
}

// Accepts reports whether mime is in the tool's allow-list. An empty list
// accepts every type.
func (t Tool) Accepts(mime string) bool {
	if len(t.AcceptedTypes) == 0 {
		return true
	}
	for _, a := range t.AcceptedTypes {
		if a == mime {
			return true
		}
	}
	return false
}

// ConversionResult is the payload of a successful conversion.
type ConversionResult struct {
	FileURL  string `json:"fileUrl" yaml:"file_url"`
	FileName string `json:"fileName" yaml:"file_name"`
}
