package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/odvcencio/gotpages/pkg/graph"
)

// ReadmeFormat distinguishes markdown READMEs from plain-text ones.
type ReadmeFormat int

const (
	ReadmeTxt ReadmeFormat = iota
	ReadmeMd
)

// Readme is a README blob found at the default branch root.
type Readme struct {
	Path    string
	Format  ReadmeFormat
	Content []byte
}

// Summary renders the repository landing page: refs, clone URL and README.
func (r *Renderer) Summary(refs []graph.Ref, readme *Readme) ([]byte, error) {
	var buf bytes.Buffer
	r.repoHeader(&buf, r.repo.Name, pageSummary)

	buf.WriteString("<ul>\n")
	fmt.Fprintf(&buf, "<li>default branch: %s</li>\n", esc(r.repo.Branch))
	if r.repo.CloneURL != "" {
		fmt.Fprintf(&buf, "<li>clone: <a href=\"%s\">%s</a></li>\n",
			esc(r.repo.CloneURL), esc(r.repo.CloneURL))
	}
	buf.WriteString("</ul>\n")

	if len(refs) > 0 {
		buf.WriteString("<div class=\"table-container\">\n<table>\n")
		buf.WriteString("<thead><tr><td>Ref</td><td>Commit</td><td>Annotation</td></tr></thead>\n")
		buf.WriteString("<tbody>\n")
		for _, ref := range refs {
			annotation := ""
			if ref.Tag != nil {
				annotation = strings.TrimSpace(ref.Tag.Message)
			}
			fmt.Fprintf(&buf,
				"<tr><td>%s</td><td><a href=\"%s\">%s</a></td><td>%s</td></tr>\n",
				esc(ref.Name),
				r.repoURL(CommitDir, string(ref.Commit)+".html"),
				ref.Commit.Short(),
				esc(annotation))
		}
		buf.WriteString("</tbody>\n</table>\n</div>\n")
	}

	if readme != nil {
		buf.WriteString("<section id=\"readme\">\n")
		if readme.Format == ReadmeMd {
			body, err := RenderMarkdown(readme.Content)
			if err != nil {
				return nil, err
			}
			buf.Write(body)
		} else {
			fmt.Fprintf(&buf, "<pre>%s</pre>\n", esc(string(readme.Content)))
		}
		buf.WriteString("</section>\n")
	}

	r.repoFooter(&buf)
	return buf.Bytes(), nil
}

// License renders the license page from the LICENSE blob at the branch root.
func (r *Renderer) License(content []byte) []byte {
	var buf bytes.Buffer
	r.repoHeader(&buf, r.repo.Name+" license", pageLicense)
	buf.WriteString("<section id=\"license\">\n")
	fmt.Fprintf(&buf, "<pre>%s</pre>\n", esc(string(content)))
	buf.WriteString("</section>\n")
	r.repoFooter(&buf)
	return buf.Bytes()
}

// IndexEntry is one repository on the top-level index.
type IndexEntry struct {
	Name         string
	Owner        string
	Description  string
	LastActivity int64 // unix timestamp of the newest reachable ref commit
}

// Index renders the top-level repository listing. Callers pass entries
// already ordered (newest activity first).
func Index(cfg Config, entries []IndexEntry) []byte {
	var buf bytes.Buffer
	writeSiteHeader(&buf, cfg.SiteTitle)
	buf.WriteString("<main>\n")
	buf.WriteString("<div class=\"article-list\">\n")

	for _, e := range entries {
		buf.WriteString("<article>\n")
		fmt.Fprintf(&buf, "<h4>\n<a href=\"/%s%s/index.html\">%s</a>\n</h4>\n",
			cfg.RootPrefix, esc(e.Name), esc(e.Name))
		buf.WriteString("<div>\n")
		fmt.Fprintf(&buf, "<span>%s</span>\n", esc(e.Owner))
		fmt.Fprintf(&buf, "<time datetime=\"%s\">%s</time>\n",
			DateTime(e.LastActivity), Date(e.LastActivity))
		buf.WriteString("</div>\n")
		for _, p := range paragraphs(e.Description) {
			fmt.Fprintf(&buf, "<p>\n%s\n</p>\n", esc(p))
		}
		buf.WriteString("</article>\n")
	}

	buf.WriteString("</div>\n")
	buf.WriteString("</main>\n")
	writeSiteFooter(&buf)
	return buf.Bytes()
}

// paragraphs splits trimmed text on blank lines.
func paragraphs(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "\n\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
