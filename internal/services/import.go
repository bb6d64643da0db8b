package services

import (
	"github.com/ummeeayz/edusafe-app/internal/apperrors"
	"github.com/ummeeayz/edusafe-app/internal/parser"
)

// ImportService turns uploaded files into documents. Markdown and plain
// text are supported; other kinds are rejected.
type ImportService struct {
	documents  *DocumentService
	extractors map[parser.Kind]parser.Extractor
}

// NewImportService creates an ImportService with the default extractors
// registered.
func NewImportService(documents *DocumentService) *ImportService {
	s := &ImportService{
		documents:  documents,
		extractors: make(map[parser.Kind]parser.Extractor),
	}
	s.RegisterExtractor(parser.NewMarkdownExtractor())
	s.RegisterExtractor(parser.NewTextExtractor())
	return s
}

// RegisterExtractor registers an extractor for its supported kinds.
func (s *ImportService) RegisterExtractor(e parser.Extractor) {
	for _, k := range e.SupportedKinds() {
		s.extractors[k] = e
	}
}

// ImportDocument extracts a title and content from the file and creates
// a document in the given category. Returns the new document id.
func (s *ImportService) ImportDocument(filename string, data []byte, category string) (string, error) {
	kind := parser.DetectKind(filename, data)

	extractor, ok := s.extractors[kind]
	if !ok {
		return "", apperrors.New(apperrors.ErrImportUnsupported, "unsupported file type: "+filename)
	}

	result, err := extractor.Extract(filename, data)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrImportFailed, "failed to extract content", err)
	}

	return s.documents.CreateDocument(CreateDocumentInput{
		Title:    result.Title,
		Category: category,
		Content:  result.Content,
		Size:     int64(len(data)),
	})
}
