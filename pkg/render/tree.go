package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/odvcencio/gotpages/pkg/object"
)

// TreePage renders the listing of one directory. path is "" for the root.
// Entries are shown in the order given; callers sort sub-trees first.
func (r *Renderer) TreePage(path string, entries []object.TreeEntry) []byte {
	var buf bytes.Buffer
	r.repoHeader(&buf, "/"+path+" at "+r.repo.Name, pageTree)

	buf.WriteString("<div class=\"table-container\">\n<table>\n")
	buf.WriteString("<thead><tr><td>Name</td><td align=\"right\">Mode</td></tr></thead>\n<tbody>\n")

	if path != "" {
		buf.WriteString("<tr><td><a href=\"..\" class=\"subtree\">..</a></td><td></td></tr>\n")
	}

	for _, e := range entries {
		entryPath := e.Name
		if path != "" {
			entryPath = path + "/" + e.Name
		}
		if e.IsDir {
			fmt.Fprintf(&buf, "<tr><td><a href=\"%s\" class=\"subtree\">%s/</a></td><td></td></tr>\n",
				r.repoURL(TreeDir, escPath(entryPath), "index.html"),
				esc(entryPath))
		} else {
			fmt.Fprintf(&buf, "<tr><td><a href=\"%s\">%s</a></td><td align=\"right\">%s</td></tr>\n",
				r.repoURL(TreeDir, escPath(entryPath)+".html"),
				esc(entryPath),
				SymbolicMode(e.Mode))
		}
	}

	buf.WriteString("</tbody>\n</table>\n</div>\n")
	r.repoFooter(&buf)
	return buf.Bytes()
}

// BlobData is what a blob page shows about one file.
type BlobData struct {
	Path    string
	Mode    string // octal tree mode
	Content []byte
	Binary  bool
}

// BlobPage renders one file: a header row with raw link, size and mode,
// then the line-numbered source. Binary files get only the header. Files
// longer than the configured limit are cut with a visible notice; the raw
// copy linked from the header is always complete.
func (r *Renderer) BlobPage(d BlobData) []byte {
	var buf bytes.Buffer
	r.repoHeader(&buf, "/"+d.Path+" at "+r.repo.Name, pageTree)

	buf.WriteString("<div class=\"table-container\">\n<table>\n")
	buf.WriteString("<thead><tr><td>Name</td><td align=\"right\">Size</td><td align=\"right\">Mode</td></tr></thead>\n")
	buf.WriteString("<tbody>\n")
	buf.WriteString("<tr><td><a href=\"./\" class=\"subtree\">..</a></td><td></td><td></td></tr>\n")
	fmt.Fprintf(&buf, "<tr><td><a href=\"%s\">%s</a></td><td align=\"right\">%s</td><td align=\"right\">%s</td></tr>\n",
		r.repoURL(BlobDir, escPath(d.Path)),
		esc(d.Path),
		FileSize(len(d.Content)),
		SymbolicMode(d.Mode))
	buf.WriteString("</tbody>\n</table>\n</div>\n")

	switch {
	case d.Binary:
		fmt.Fprintf(&buf, "<p>Binary file, %s.</p>\n", FileSize(len(d.Content)))
	case len(d.Content) > 0:
		r.renderBlobLines(&buf, d.Content)
	}

	r.repoFooter(&buf)
	return buf.Bytes()
}

func (r *Renderer) renderBlobLines(buf *bytes.Buffer, content []byte) {
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	truncated := false
	if len(lines) > r.cfg.MaxBlobLines {
		lines = lines[:r.cfg.MaxBlobLines]
		truncated = true
	}
	width := logFloor(len(lines))

	buf.WriteString("<div class=\"code-block blob\">\n")
	buf.WriteString("<pre id=\"line-numbers\">\n")
	for n := 1; n <= len(lines); n++ {
		fmt.Fprintf(buf, "<a href=\"#l%d\">%0*d</a>\n", n, width, n)
	}
	buf.WriteString("</pre>\n")

	buf.WriteString("<pre id=\"blob\">\n")
	for i, line := range lines {
		fmt.Fprintf(buf, "<span id=\"l%d\">%s</span>\n", i+1, esc(line))
	}
	buf.WriteString("</pre>\n</div>\n")

	if truncated {
		fmt.Fprintf(buf, "<p class=\"truncation-notice\">File truncated after %d lines; the raw file is complete.</p>\n",
			r.cfg.MaxBlobLines)
	}
}
