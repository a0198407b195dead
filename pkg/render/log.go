package render

import (
	"bytes"
	"fmt"

	"github.com/odvcencio/gotpages/pkg/object"
)

// LogEntry is one commit on a log page.
type LogEntry struct {
	Hash      object.Hash
	Author    string
	Timestamp int64
	Summary   string
}

// LogPageName maps a 1-based log page number to its file name inside the
// commit subdir. Page 1 is the log index.
func LogPageName(n int) string {
	if n <= 1 {
		return "index.html"
	}
	return fmt.Sprintf("page%d.html", n)
}

// LogPageCount reports how many log pages a commit count needs. An empty
// history still gets one (empty) page.
func LogPageCount(commits, pageSize int) int {
	if commits <= 0 {
		return 1
	}
	return (commits + pageSize - 1) / pageSize
}

// LogPage renders one page of the commit log, newest first. pageNum and
// totalPages drive the newer/older navigation links.
func (r *Renderer) LogPage(entries []LogEntry, pageNum, totalPages int) []byte {
	var buf bytes.Buffer
	r.repoHeader(&buf, r.repo.Name+" log", pageLog)
	buf.WriteString("<div class=\"article-list\">\n")

	for _, e := range entries {
		buf.WriteString("<article>\n<div>\n")
		fmt.Fprintf(&buf,
			"<span class=\"commit-heading\"><a href=\"%s\">%s</a> by %s</span>\n",
			r.repoURL(CommitDir, string(e.Hash)+".html"),
			e.Hash.Short(),
			esc(e.Author))
		fmt.Fprintf(&buf, "<time datetime=\"%s\">%s</time>\n",
			DateTime(e.Timestamp), Date(e.Timestamp))
		buf.WriteString("</div>\n")
		fmt.Fprintf(&buf, "<p>\n%s\n</p>\n", esc(e.Summary))
		buf.WriteString("</article>\n")
	}

	buf.WriteString("</div>\n")

	if totalPages > 1 {
		buf.WriteString("<nav class=\"pages\">\n<ul>\n")
		if pageNum > 1 {
			fmt.Fprintf(&buf, "<li><a href=\"%s\">&larr; newer</a></li>\n",
				r.repoURL(CommitDir, LogPageName(pageNum-1)))
		}
		fmt.Fprintf(&buf, "<li>page %d of %d</li>\n", pageNum, totalPages)
		if pageNum < totalPages {
			fmt.Fprintf(&buf, "<li><a href=\"%s\">older &rarr;</a></li>\n",
				r.repoURL(CommitDir, LogPageName(pageNum+1)))
		}
		buf.WriteString("</ul>\n</nav>\n")
	}

	r.repoFooter(&buf)
	return buf.Bytes()
}
