package render

import (
	"bytes"
	"fmt"

	"github.com/odvcencio/gotpages/pkg/diff"
	"github.com/odvcencio/gotpages/pkg/graph"
	"github.com/odvcencio/gotpages/pkg/object"
)

// CommitData bundles everything a commit page shows.
type CommitData struct {
	Hash   object.Hash
	Commit *object.CommitObj
	Diff   *graph.TreeDiff
	// Merge marks a commit with more than one parent; the diff then covers
	// the first parent only and the page says so.
	Merge bool
}

// CommitPage renders a single commit: metadata, message, diffstat and the
// per-file diffs. Merge commits get the changed-paths summary without hunk
// bodies.
func (r *Renderer) CommitPage(d CommitData) []byte {
	var buf bytes.Buffer
	c := d.Commit
	r.repoHeader(&buf, r.repo.Name+": "+c.Summary(), pageCommit)

	buf.WriteString("<article class=\"commit\">\n<dl>\n")
	buf.WriteString("<dt>Commit</dt>\n")
	fmt.Fprintf(&buf, "<dd><a href=\"%s\">%s</a></dd>\n",
		r.repoURL(CommitDir, string(d.Hash)+".html"), d.Hash)

	for _, parent := range c.Parents {
		buf.WriteString("<dt>Parent</dt>\n")
		fmt.Fprintf(&buf, "<dd><a href=\"%s\">%s</a></dd>\n",
			r.repoURL(CommitDir, string(parent)+".html"), parent)
	}

	buf.WriteString("<dt>Author</dt>\n")
	fmt.Fprintf(&buf, "<dd>%s</dd>\n", esc(c.Author))
	if committer := c.CommitterOr(); committer != c.Author {
		buf.WriteString("<dt>Committer</dt>\n")
		fmt.Fprintf(&buf, "<dd>%s</dd>\n", esc(committer))
	}

	buf.WriteString("<dt>Date</dt>\n")
	fmt.Fprintf(&buf, "<dd><time datetime=\"%s\">%s</time></dd>\n",
		DateTime(c.Timestamp), FullDate(c.Timestamp))

	if c.Signature != "" {
		if info, err := ParseSignature(c.Signature); err == nil {
			buf.WriteString("<dt>Signed</dt>\n")
			fmt.Fprintf(&buf, "<dd>%s %s</dd>\n", esc(info.Algorithm), esc(info.Fingerprint))
		}
	}
	buf.WriteString("</dl>\n")

	for _, p := range paragraphs(c.Message) {
		fmt.Fprintf(&buf, "<p>\n%s\n</p>\n", esc(p))
	}
	buf.WriteString("</article>\n")

	if d.Merge {
		fmt.Fprintf(&buf, "<p class=\"merge-note\">Merge commit; changes shown against the first parent only.</p>\n")
	}

	r.renderDiffstat(&buf, d.Diff)
	if !d.Merge {
		r.renderFileDiffs(&buf, d.Diff)
	}

	r.repoFooter(&buf)
	return buf.Bytes()
}

func deltaLabel(s graph.DeltaStatus) string {
	switch s {
	case graph.DeltaAdded:
		return "Added"
	case graph.DeltaRemoved:
		return "Deleted"
	case graph.DeltaModified:
		return "Modified"
	case graph.DeltaRenamed:
		return "Renamed"
	default:
		return "Changed"
	}
}

func (r *Renderer) renderDiffstat(buf *bytes.Buffer, td *graph.TreeDiff) {
	buf.WriteString("<h2>Diffstat</h2>\n")
	fmt.Fprintf(buf, "<p>%d files changed, %d insertions, %d deletions</p>\n",
		len(td.Files), td.Adds, td.Dels)

	buf.WriteString("<div class=\"table-container\">\n<table>\n")
	buf.WriteString("<thead>\n<tr>\n")
	buf.WriteString("<td>Status</td>\n<td>Name</td>\n")
	buf.WriteString("<td align=\"right\">Insertions</td>\n<td align=\"right\">Deletions</td>\n")
	buf.WriteString("</tr>\n</thead>\n<tbody>\n")

	for i, fd := range td.Files {
		buf.WriteString("<tr>\n")
		fmt.Fprintf(buf, "<td>%s</td>\n", deltaLabel(fd.Status))
		if fd.Status == graph.DeltaRenamed {
			fmt.Fprintf(buf, "<td><a href=\"#d%d\">%s &rarr; %s</a></td>\n",
				i, esc(fd.OldPath), esc(fd.Path))
		} else {
			fmt.Fprintf(buf, "<td><a href=\"#d%d\">%s</a></td>\n", i, esc(fd.Path))
		}
		fmt.Fprintf(buf, "<td align=\"right\">%d</td>\n", fd.Adds)
		fmt.Fprintf(buf, "<td align=\"right\">%d</td>\n", fd.Dels)
		buf.WriteString("</tr>\n")
	}

	buf.WriteString("</tbody>\n</table>\n</div>\n")
}

func (r *Renderer) renderFileDiffs(buf *bytes.Buffer, td *graph.TreeDiff) {
	budget := r.cfg.MaxDiffLines
	for i, fd := range td.Files {
		fmt.Fprintf(buf, "<div class=\"code-block\" id=\"d%d\">\n", i)
		r.renderDiffHeading(buf, i, fd)

		switch {
		case fd.Binary:
			buf.WriteString("Binary files differ\n")
		case fd.Status == graph.DeltaRenamed:
			// exact rename, nothing to show
		default:
			budget = r.renderHunks(buf, i, fd.Hunks, budget)
		}

		buf.WriteString("</pre>\n</div>\n")
		if budget <= 0 {
			fmt.Fprintf(buf, "<p class=\"truncation-notice\">Diff truncated after %d lines.</p>\n",
				r.cfg.MaxDiffLines)
			break
		}
	}
}

func (r *Renderer) renderDiffHeading(buf *bytes.Buffer, id int, fd graph.FileDiff) {
	treeLink := func(path string) string {
		return r.repoURL(TreeDir, escPath(path)+".html")
	}
	switch fd.Status {
	case graph.DeltaAdded:
		fmt.Fprintf(buf, "<pre><b>diff --got /dev/null b/<a href=\"%s\">%s</a></b>\n",
			treeLink(fd.Path), esc(fd.Path))
	case graph.DeltaRemoved:
		fmt.Fprintf(buf, "<pre><b>diff --got a/%s /dev/null</b>\n", esc(fd.Path))
	case graph.DeltaRenamed:
		fmt.Fprintf(buf, "<pre><b>diff --got a/%s b/<a href=\"%s\">%s</a></b>\n",
			esc(fd.OldPath), treeLink(fd.Path), esc(fd.Path))
	default:
		fmt.Fprintf(buf, "<pre><b>diff --got a/<a href=\"%s\">%s</a> b/<a href=\"%s\">%s</a></b>\n",
			treeLink(fd.Path), esc(fd.Path), treeLink(fd.Path), esc(fd.Path))
	}
}

// renderHunks writes hunk bodies until the line budget runs out and returns
// what is left of it.
func (r *Renderer) renderHunks(buf *bytes.Buffer, id int, hunks []diff.Hunk, budget int) int {
	for hi, h := range hunks {
		if budget <= 0 {
			return budget
		}
		anchor := fmt.Sprintf("d%d-%d", id, hi)
		fmt.Fprintf(buf, "<a href=\"#%s\" id=\"%s\" class=\"h\">%s</a>\n",
			anchor, anchor, esc(h.Header()))

		for _, line := range h.Lines {
			if budget <= 0 {
				return budget
			}
			budget--
			switch line.Type {
			case diff.Insert:
				la := fmt.Sprintf("%s-%d", anchor, line.NewLine)
				fmt.Fprintf(buf, "<a href=\"#%s\" id=\"%s\" class=\"i\">+%s</a>\n",
					la, la, esc(line.Content))
			case diff.Delete:
				la := fmt.Sprintf("%s-%d", anchor, line.OldLine)
				fmt.Fprintf(buf, "<a href=\"#%s\" id=\"%s\" class=\"d\">-%s</a>\n",
					la, la, esc(line.Content))
			default:
				fmt.Fprintf(buf, " %s\n", esc(line.Content))
			}
		}
	}
	return budget
}
