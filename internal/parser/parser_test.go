package parser

import "testing"

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     Kind
	}{
		{"markdown extension", "notes.md", []byte("plain words"), KindMarkdown},
		{"markdown long extension", "notes.markdown", []byte("plain words"), KindMarkdown},
		{"text extension", "notes.txt", []byte("plain words"), KindText},
		{"sniffed text", "notes", []byte("just some prose with no extension"), KindText},
		{"binary", "diagram.png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectKind(tt.filename, tt.data); got != tt.want {
				t.Errorf("DetectKind(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestCountWords(t *testing.T) {
	if got := CountWords("one two  three\nfour"); got != 4 {
		t.Errorf("expected 4 words, got %d", got)
	}
	if got := CountWords("   "); got != 0 {
		t.Errorf("expected 0 words for whitespace, got %d", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 100); got != "short" {
		t.Errorf("short strings must pass through, got %q", got)
	}
	if got := Truncate("alpha beta gamma", 12); got != "alpha beta..." {
		t.Errorf("expected word-boundary truncation, got %q", got)
	}
	if got := Truncate("abcdefghij", 4); got != "abcd..." {
		t.Errorf("expected hard truncation without spaces, got %q", got)
	}
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"essay.md", "essay"},
		{"dir/sub/essay.txt", "essay"},
		{"C:\\docs\\essay.md", "essay"},
		{"", "Untitled"},
	}
	for _, tt := range tests {
		if got := TitleFromFilename(tt.in); got != tt.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
