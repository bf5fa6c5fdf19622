// Package loader provides seed document loading adapters.
package loader

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// TextLoader loads plain text seed documents (.txt, .md).
type TextLoader struct{}

// NewTextLoader creates a new text document loader.
func NewTextLoader() *TextLoader {
	return &TextLoader{}
}

// Load reads the text content of the file at path.
func (l *TextLoader) Load(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading seed file: %w", err)
	}
	return strings.TrimSpace(string(content)), nil
}

// SupportedExtensions returns file extensions this loader handles.
func (l *TextLoader) SupportedExtensions() []string {
	return []string{".txt", ".md", ".markdown"}
}
