// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package messages holds the localized user-facing strings used when the
// backend supplies no message of its own.
package messages

import (
	"embed"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-suite/pkg/types"
)

// Message keys.
const (
	UploadInvalidType     = "upload.invalid_type"
	UploadTooLarge        = "upload.too_large"
	UploadNoFile          = "upload.no_file"
	ConvertFailed         = "convert.failed"
	ConvertUnsupported    = "convert.unsupported"
	CompressFailed        = "compress.failed"
	OCRFailed             = "ocr.failed"
	MergeFailed           = "merge.failed"
	MergeMaxFiles         = "merge.max_files"
	MergeMaxFilesPartial  = "merge.max_files_partial"
	MergeNotEnough        = "merge.not_enough"
	SummarizeInitFailed   = "summarize.init_failed"
	SummarizeAskFailed    = "summarize.ask_failed"
	AuthSignInFailed      = "auth.signin_failed"
	AuthSignUpFailed      = "auth.signup_failed"
	AuthEmailRequired     = "auth.email_required"
	AuthEmailInvalid      = "auth.email_invalid"
	AuthPasswordRequired  = "auth.password_required"
	AuthPasswordMinLength = "auth.password_min_length"
	AuthFirstNameRequired = "auth.first_name_required"
	AuthLastNameRequired  = "auth.last_name_required"
)

//go:embed en.yaml fr.yaml
var files embed.FS

// Bundle maps locale to key to text. The zero value is not usable; use Load.
type Bundle struct {
	locale types.Locale
	tables map[types.Locale]map[string]string
}

// Load reads the embedded tables and selects locale (unknown locales use en).
func Load(locale types.Locale) (*Bundle, error) {
	b := &Bundle{locale: locale, tables: make(map[types.Locale]map[string]string)}
	for _, l := range []types.Locale{types.LocaleEN, types.LocaleFR} {
		data, err := files.ReadFile(string(l) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("reading %s messages: %w", l, err)
		}
		table := make(map[string]string)
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parsing %s messages: %w", l, err)
		}
		b.tables[l] = table
	}
	if _, ok := b.tables[locale]; !ok {
		b.locale = types.LocaleEN
	}
	return b, nil
}

// Locale returns the selected locale.
func (b *Bundle) Locale() types.Locale { return b.locale }

// Get returns the text for key in the selected locale, then English, then
// the key itself.
func (b *Bundle) Get(key string) string {
	if s, ok := b.tables[b.locale][key]; ok {
		return s
	}
	if s, ok := b.tables[types.LocaleEN][key]; ok {
		return s
	}
	return key
}

// Failure returns the fallback failure text for a tool operation.
func (b *Bundle) Failure(op types.Operation) string {
	switch op {
	case types.OpCompress:
		return b.Get(CompressFailed)
	case types.OpOCR:
		return b.Get(OCRFailed)
	case types.OpMerge:
		return b.Get(MergeFailed)
	default:
		return b.Get(ConvertFailed)
	}
}

// ForError returns the localized text for a validation error kind, or ""
// when the kind has no inline text.
func (b *Bundle) ForError(kind types.ErrorKind) string {
	switch kind {
	case types.KindInvalidType:
		return b.Get(UploadInvalidType)
	case types.KindTooLarge:
		return b.Get(UploadTooLarge)
	case types.KindNoFileSelected:
		return b.Get(UploadNoFile)
	case types.KindUnsupportedFile:
		return b.Get(ConvertUnsupported)
	}
	return ""
}

// Keys returns every key of the English table.
func (b *Bundle) Keys() []string {
	keys := make([]string, 0, len(b.tables[types.LocaleEN]))
	for k := range b.tables[types.LocaleEN] {
		keys = append(keys, k)
	}
	return keys
}

// Partial formats the partial-add notice for n added files.
func (b *Bundle) Partial(n int) string {
	return strings.TrimSpace(fmt.Sprintf("%d %s", n, b.Get(MergeMaxFilesPartial)))
}
