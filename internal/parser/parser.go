// Package parser extracts titles and plain-text content from files
// imported into the document store.
package parser

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind identifies the type of an imported file.
type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindText     Kind = "text"
	KindUnknown  Kind = "unknown"
)

// Result holds the fields extracted from an imported file.
type Result struct {
	Title     string
	Content   string
	Kind      Kind
	WordCount int
}

// Extractor extracts a Result from raw file bytes.
type Extractor interface {
	Extract(filename string, data []byte) (*Result, error)
	SupportedKinds() []Kind
}

// DetectKind determines the kind of a file from its name and content.
// The extension is checked first since markdown sniffs as plain text.
func DetectKind(filename string, data []byte) Kind {
	switch strings.ToLower(ext(filename)) {
	case ".md", ".markdown":
		return KindMarkdown
	case ".txt":
		return KindText
	}

	mt := mimetype.Detect(data)
	switch {
	case mt.Is("text/markdown"):
		return KindMarkdown
	case strings.HasPrefix(mt.String(), "text/"):
		return KindText
	}

	return KindUnknown
}

// CountWords counts whitespace-separated words in text.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// Truncate truncates s to maxLen, preferring a word boundary.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	if len(s) <= maxLen {
		return s
	}
	if i := strings.LastIndex(s[:maxLen], " "); i > 0 {
		return s[:i] + "..."
	}
	return s[:maxLen] + "..."
}

// TitleFromFilename derives a fallback title from a file name by
// stripping the extension.
func TitleFromFilename(filename string) string {
	base := filename
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "\\"); i >= 0 {
		base = base[i+1:]
	}
	if e := ext(base); e != "" {
		base = base[:len(base)-len(e)]
	}
	if base == "" {
		return "Untitled"
	}
	return base
}

func ext(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return filename[i:]
	}
	return ""
}
