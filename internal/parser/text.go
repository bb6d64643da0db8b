package parser

import "strings"

// TextExtractor handles plain-text files. The first non-empty line
// becomes the title.
type TextExtractor struct{}

// NewTextExtractor creates a TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (e *TextExtractor) SupportedKinds() []Kind {
	return []Kind{KindText}
}

func (e *TextExtractor) Extract(filename string, data []byte) (*Result, error) {
	content := strings.TrimSpace(string(data))

	title := ""
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			title = Truncate(line, 100)
			break
		}
	}
	if title == "" {
		title = TitleFromFilename(filename)
	}

	return &Result{
		Title:     title,
		Content:   content,
		Kind:      KindText,
		WordCount: CountWords(content),
	}, nil
}
