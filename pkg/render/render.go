// Package render builds the HTML pages of the site. Everything here is
// pure: callers pass object data in and get page bytes back, so the same
// inputs always produce the same pages.
package render

import (
	"bytes"
	"fmt"
	"strings"
)

// Config carries the site-wide rendering knobs.
type Config struct {
	SiteTitle    string
	RootPrefix   string // "" for public pages, e.g. "private/" for private
	LogPageSize  int
	MaxBlobLines int
	MaxDiffLines int
}

// Repo is the per-repository context shared by all of its pages.
type Repo struct {
	Name        string
	Description string
	Owner       string
	Branch      string // default branch shown on the summary page
	CloneURL    string
	HasLicense  bool
}

// Renderer renders all pages of one repository.
type Renderer struct {
	cfg  Config
	repo Repo
}

// New builds a renderer for one repository.
func New(cfg Config, repo Repo) *Renderer {
	return &Renderer{cfg: cfg, repo: repo}
}

// page identifies which nav tab is selected.
type page int

const (
	pageSummary page = iota
	pageLog
	pageCommit
	pageTree
	pageLicense
)

// repoURL builds an absolute site path inside this repository.
func (r *Renderer) repoURL(parts ...string) string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(r.cfg.RootPrefix)
	b.WriteString(esc(r.repo.Name))
	for _, p := range parts {
		b.WriteString("/")
		b.WriteString(p)
	}
	return b.String()
}

// siteHeader writes the HTML preamble and the site-wide nav.
func (r *Renderer) siteHeader(buf *bytes.Buffer, title string) {
	writeSiteHeader(buf, title)
}

func writeSiteHeader(buf *bytes.Buffer, title string) {
	buf.WriteString("<!DOCTYPE html>\n")
	buf.WriteString("<html>\n<head>\n")
	buf.WriteString("<meta http-equiv=\"Content-Type\" content=\"text/html; charset=UTF-8\"/>\n")
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>\n")
	fmt.Fprintf(buf, "<title>%s</title>\n", esc(title))
	buf.WriteString("<link rel=\"icon\" type=\"image/svg\" href=\"/favicon.svg\" />\n")
	buf.WriteString("<link rel=\"stylesheet\" type=\"text/css\" href=\"/styles.css\" />\n")
	buf.WriteString("</head>\n<body>\n")
	buf.WriteString("<header>\n<nav>\n<ul>\n")
	buf.WriteString("<li><strong><a href=\"/\">projects</a></strong></li>\n")
	buf.WriteString("</ul>\n</nav>\n</header>\n")
}

func writeSiteFooter(buf *bytes.Buffer) {
	buf.WriteString("<footer>\n")
	buf.WriteString("generated by gotpages\n")
	buf.WriteString("</footer>\n")
	buf.WriteString("</body>\n</html>\n")
}

// repoHeader opens <main> with the repository heading and per-repo nav.
func (r *Renderer) repoHeader(buf *bytes.Buffer, title string, selected page) {
	r.siteHeader(buf, title)
	buf.WriteString("<main>\n")
	fmt.Fprintf(buf, "<h1>%s</h1>\n", esc(r.repo.Name))
	if r.repo.Description != "" {
		fmt.Fprintf(buf, "<p>\n%s\n</p>\n", esc(strings.TrimSpace(r.repo.Description)))
	}

	buf.WriteString("<nav>\n<ul>\n")
	tab := func(sel bool, href, label string) {
		class := ""
		if sel {
			class = " class=\"nav-selected\""
		}
		fmt.Fprintf(buf, "<li%s><a href=\"%s\">%s</a></li>\n", class, href, label)
	}
	tab(selected == pageSummary, r.repoURL("index.html"), "summary")
	tab(selected == pageLog || selected == pageCommit, r.repoURL(CommitDir, "index.html"), "log")
	tab(selected == pageTree, r.repoURL(TreeDir, "index.html"), "tree")
	if r.repo.HasLicense {
		tab(selected == pageLicense, r.repoURL("license.html"), "license")
	}
	buf.WriteString("</ul>\n</nav>\n")
}

// repoFooter closes <main> and the document.
func (r *Renderer) repoFooter(buf *bytes.Buffer) {
	buf.WriteString("</main>\n")
	writeSiteFooter(buf)
}

// Output sub-directories inside each rendered repository. Mirrored by the
// build driver when it lays files out on disk.
const (
	TreeDir   = "tree"
	CommitDir = "commit"
	BlobDir   = "blob"
)
