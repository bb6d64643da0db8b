package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor extracts a title and plain text from Markdown files.
type MarkdownExtractor struct{}

// NewMarkdownExtractor creates a MarkdownExtractor.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{}
}

// SupportedKinds returns the kinds this extractor handles.
func (e *MarkdownExtractor) SupportedKinds() []Kind {
	return []Kind{KindMarkdown}
}

// Extract extracts content from a Markdown file. YAML frontmatter is
// stripped before title detection.
func (e *MarkdownExtractor) Extract(filename string, data []byte) (*Result, error) {
	markdown := removeFrontmatter(string(data))

	title := extractMarkdownTitle(markdown)
	if title == "" {
		title = TitleFromFilename(filename)
	}

	content := markdownToPlainText(markdown)

	return &Result{
		Title:     title,
		Content:   content,
		Kind:      KindMarkdown,
		WordCount: CountWords(content),
	}, nil
}

// removeFrontmatter strips a leading YAML frontmatter block.
func removeFrontmatter(markdown string) string {
	lines := strings.Split(markdown, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != "---" {
		return markdown
	}

	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "---" {
			return strings.Join(lines[i+2:], "\n")
		}
	}

	return markdown
}

// extractMarkdownTitle returns the first heading, or the first non-empty
// line when no heading precedes it.
func extractMarkdownTitle(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			title := strings.TrimSpace(strings.TrimLeft(line, "#"))
			if title != "" {
				return Truncate(title, 200)
			}
			continue
		}
		return Truncate(line, 100)
	}
	return ""
}

// markdownToPlainText renders the markdown AST as plain text.
func markdownToPlainText(markdown string) string {
	md := goldmark.New()
	source := []byte(markdown)
	node := md.Parser().Parse(text.NewReader(source))

	var builder strings.Builder

	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindText:
			textNode := n.(*ast.Text)
			builder.Write(textNode.Segment.Value(source))
			if textNode.SoftLineBreak() || textNode.HardLineBreak() {
				builder.WriteString("\n")
			}
		case ast.KindParagraph:
			builder.WriteString("\n\n")
		case ast.KindHeading:
			builder.WriteString("\n")
		case ast.KindList:
			builder.WriteString("\n")
		case ast.KindFencedCodeBlock:
			code := n.(*ast.FencedCodeBlock)
			builder.WriteString("\n")
			for i := 0; i < code.Lines().Len(); i++ {
				line := code.Lines().At(i)
				builder.Write(line.Value(source))
			}
			builder.WriteString("\n")
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(builder.String())
}
