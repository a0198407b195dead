package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// markdown converts README markdown to HTML. Raw HTML in the source is
// dropped by goldmark's default renderer, so untrusted repository content
// cannot inject markup.
var markdown = goldmark.New()

// RenderMarkdown converts markdown source to HTML.
func RenderMarkdown(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("markdown: %w", err)
	}
	return buf.Bytes(), nil
}
