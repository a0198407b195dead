package site

import (
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/odvcencio/gotpages/pkg/graph"
	"github.com/odvcencio/gotpages/pkg/log"
	"github.com/odvcencio/gotpages/pkg/object"
	"github.com/odvcencio/gotpages/pkg/render"
)

// Builder renders repositories into a page sink, consulting the staleness
// rules so unchanged pages are left alone.
type Builder struct {
	cfg         Config
	fullRebuild bool
}

// NewBuilder wires a builder to the site configuration.
func NewBuilder(cfg Config, fullRebuild bool) *Builder {
	return &Builder{cfg: cfg, fullRebuild: fullRebuild}
}

// rootPrefix is the URL path component private pages live under, derived
// from the private output directory name.
func (b *Builder) rootPrefix(private bool) string {
	if private {
		return filepath.Base(b.cfg.PrivateOutputDir) + "/"
	}
	return ""
}

func (b *Builder) renderConfig(private bool) render.Config {
	return render.Config{
		SiteTitle:    b.cfg.Title,
		RootPrefix:   b.rootPrefix(private),
		LogPageSize:  b.cfg.LogPageSize,
		MaxBlobLines: b.cfg.MaxBlobLines,
		MaxDiffLines: b.cfg.MaxDiffLines,
	}
}

var readmeNames = []string{"README.md", "README", "README.txt"}

const licenseName = "LICENSE"

// BuildRepo renders every page of one repository under its name inside the
// sink. Object read failures drop the affected page and are counted; a sink
// write failure aborts the repository and is reported as fatal.
func (b *Builder) BuildRepo(info *RepoInfo, sink PageSink) RepoReport {
	report := RepoReport{Name: info.Name}
	g := graph.New(info.Repo)

	refs, brokenRefs := g.Refs()
	for _, w := range brokenRefs {
		log.Warnf("%s: ref %s: %v", info.Name, w.Ref, w.Err)
		report.Failed++
	}

	nodes, brokenCommits := g.CommitsReachable(refs)
	for _, w := range brokenCommits {
		log.Errorf("%s: commit %s: %v", info.Name, w.Hash.Short(), w.Err)
		report.Failed++
	}

	branch, err := info.Repo.Branch()
	if err != nil {
		log.Warnf("%s: %v", info.Name, err)
	}

	headTree := b.resolveHeadTree(info, g, &report)

	var readme *render.Readme
	var license []byte
	if headTree != "" {
		readme, license = b.scanRoot(info.Name, g, headTree, &report)
	}

	renderer := render.New(b.renderConfig(info.Private), render.Repo{
		Name:        info.Name,
		Description: info.Description,
		Owner:       info.Owner,
		Branch:      branch,
		CloneURL:    b.cfg.RepoCloneURL(info.Name),
		HasLicense:  license != nil,
	})

	lastTouched := make(map[object.Hash]int64)
	if err := b.renderCommits(info.Name, g, renderer, sink, nodes, lastTouched, &report); err != nil {
		report.Fatal = err
		return report
	}
	if err := b.renderLog(info.Name, renderer, sink, nodes, &report); err != nil {
		report.Fatal = err
		return report
	}

	page, err := renderer.Summary(refs, readme)
	if err != nil {
		log.Errorf("%s: summary: %v", info.Name, err)
		report.Failed++
	} else if err := sink.Write(path.Join(info.Name, "index.html"), page); err != nil {
		report.Fatal = err
		return report
	} else {
		report.Rendered++
	}

	if license != nil {
		if err := sink.Write(path.Join(info.Name, "license.html"), renderer.License(license)); err != nil {
			report.Fatal = err
			return report
		}
		report.Rendered++
	}

	if headTree != "" {
		if err := b.renderTree(info.Name, g, renderer, sink, headTree, lastTouched, &report); err != nil {
			report.Fatal = err
			return report
		}
	}

	return report
}

// resolveHeadTree follows HEAD to the tree of the default branch tip.
// A repository without commits just has no tree or summary content.
func (b *Builder) resolveHeadTree(info *RepoInfo, g *graph.Reader, report *RepoReport) object.Hash {
	target, err := info.Repo.ResolveRef("HEAD")
	if err != nil {
		log.Warnf("%s: no HEAD commit: %v", info.Name, err)
		return ""
	}
	commitHash, _, err := info.Repo.PeelToCommit(target)
	if err != nil {
		log.Errorf("%s: HEAD: %v", info.Name, err)
		report.Failed++
		return ""
	}
	c, err := g.Commit(commitHash)
	if err != nil {
		log.Errorf("%s: HEAD commit: %v", info.Name, err)
		report.Failed++
		return ""
	}
	return c.TreeHash
}

// scanRoot looks for README and LICENSE blobs at the branch root.
func (b *Builder) scanRoot(name string, g *graph.Reader, headTree object.Hash, report *RepoReport) (*render.Readme, []byte) {
	tree, err := g.Tree(headTree)
	if err != nil {
		log.Errorf("%s: head tree: %v", name, err)
		report.Failed++
		return nil, nil
	}

	var readme *render.Readme
	var license []byte
	for _, e := range tree.Entries {
		if e.IsDir {
			continue
		}
		if isReadmeName(e.Name) {
			if readme != nil {
				log.Warnf("%s: multiple README files, ignoring %s", name, e.Name)
				continue
			}
			blob, err := g.Blob(e.BlobHash)
			if err != nil {
				log.Errorf("%s: %s: %v", name, e.Name, err)
				report.Failed++
				continue
			}
			if graph.IsBinary(blob.Data) {
				log.Warnf("%s: README file %s is binary, ignoring it", name, e.Name)
				continue
			}
			format := render.ReadmeTxt
			if e.Name == "README.md" {
				format = render.ReadmeMd
			}
			readme = &render.Readme{Path: e.Name, Format: format, Content: blob.Data}
		} else if e.Name == licenseName {
			blob, err := g.Blob(e.BlobHash)
			if err != nil {
				log.Errorf("%s: %s: %v", name, e.Name, err)
				report.Failed++
				continue
			}
			if graph.IsBinary(blob.Data) {
				log.Warnf("%s: LICENSE file is binary, ignoring it", name)
				continue
			}
			license = blob.Data
		}
	}
	return readme, license
}

func isReadmeName(name string) bool {
	for _, n := range readmeNames {
		if name == n {
			return true
		}
	}
	return false
}

// renderCommits writes one page per reachable commit and collects the
// newest commit timestamp per touched blob for blob-page staleness. The
// first-parent diff is computed even for pages that are skipped, since the
// timestamps feed later stages. Merge commits diff against the first parent
// only.
func (b *Builder) renderCommits(
	name string,
	g *graph.Reader,
	renderer *render.Renderer,
	sink PageSink,
	nodes []graph.CommitNode,
	lastTouched map[object.Hash]int64,
	report *RepoReport,
) error {
	for _, n := range nodes {
		var parentTree object.Hash
		if len(n.Commit.Parents) > 0 {
			pc, err := g.Commit(n.Commit.Parents[0])
			if err != nil {
				log.Errorf("%s: commit %s parent: %v", name, n.Hash.Short(), err)
				report.Failed++
				continue
			}
			parentTree = pc.TreeHash
		}

		td, err := g.DiffTrees(parentTree, n.Commit.TreeHash)
		if err != nil {
			log.Errorf("%s: commit %s: %v", name, n.Hash.Short(), err)
			report.Failed++
			continue
		}
		for _, fd := range td.Files {
			if fd.NewHash == "" {
				continue
			}
			if ts, ok := lastTouched[fd.NewHash]; !ok || n.Commit.Timestamp > ts {
				lastTouched[fd.NewHash] = n.Commit.Timestamp
			}
		}

		pagePath := path.Join(name, render.CommitDir, string(n.Hash)+".html")
		mt, exists, err := sink.ModTime(pagePath)
		if err != nil {
			return err
		}
		if !ShouldRender(b.fullRebuild, mt, exists, time.Unix(n.Commit.Timestamp, 0)) {
			report.Skipped++
			continue
		}

		page := renderer.CommitPage(render.CommitData{
			Hash:   n.Hash,
			Commit: n.Commit,
			Diff:   td,
			Merge:  len(n.Commit.Parents) > 1,
		})
		if err := sink.Write(pagePath, page); err != nil {
			return err
		}
		report.Rendered++
	}
	return nil
}

// renderLog writes the paginated log. Log pages are mutable so they render
// every run.
func (b *Builder) renderLog(
	name string,
	renderer *render.Renderer,
	sink PageSink,
	nodes []graph.CommitNode,
	report *RepoReport,
) error {
	pageSize := b.cfg.LogPageSize
	total := render.LogPageCount(len(nodes), pageSize)

	for p := 1; p <= total; p++ {
		start := (p - 1) * pageSize
		end := min(start+pageSize, len(nodes))
		entries := make([]render.LogEntry, 0, end-start)
		for _, n := range nodes[start:end] {
			entries = append(entries, render.LogEntry{
				Hash:      n.Hash,
				Author:    n.Commit.Author,
				Timestamp: n.Commit.Timestamp,
				Summary:   n.Commit.Summary(),
			})
		}
		page := renderer.LogPage(entries, p, total)
		if err := sink.Write(path.Join(name, render.CommitDir, render.LogPageName(p)), page); err != nil {
			return err
		}
		report.Rendered++
	}
	return nil
}

type blobItem struct {
	path string
	hash object.Hash
	mode string
	// rawOnly suppresses the HTML page when it would collide with a
	// directory listing; the raw copy is still written.
	rawOnly bool
}

// validEntryName rejects tree entry names that would escape the output root
// or clash with the path layout. Objects come from the store, not from a
// checkout, so a crafted name must not turn into a traversal.
func validEntryName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// renderTree walks the default branch tree, writing a listing page per
// directory and then a page plus raw copy per blob.
func (b *Builder) renderTree(
	name string,
	g *graph.Reader,
	renderer *render.Renderer,
	sink PageSink,
	headTree object.Hash,
	lastTouched map[object.Hash]int64,
	report *RepoReport,
) error {
	type dirItem struct {
		hash object.Hash
		path string
	}

	stack := []dirItem{{hash: headTree, path: ""}}
	var blobs []blobItem

	for len(stack) > 0 {
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		tree, err := g.Tree(d.hash)
		if err != nil {
			log.Errorf("%s: tree %s: %v", name, d.path, err)
			report.Failed++
			continue
		}

		var entries []object.TreeEntry
		dirNames := make(map[string]bool)
		for _, e := range graph.SortTreeEntries(tree.Entries) {
			if !validEntryName(e.Name) {
				log.Errorf("%s: tree %s: refusing entry name %q", name, d.path, e.Name)
				report.Failed++
				continue
			}
			if e.IsDir {
				dirNames[e.Name] = true
			}
			entries = append(entries, e)
		}

		page := renderer.TreePage(d.path, entries)
		if err := sink.Write(path.Join(name, render.TreeDir, d.path, "index.html"), page); err != nil {
			return err
		}
		report.Rendered++

		for _, e := range entries {
			child := e.Name
			if d.path != "" {
				child = d.path + "/" + e.Name
			}
			if e.IsDir {
				stack = append(stack, dirItem{hash: e.SubtreeHash, path: child})
				continue
			}
			item := blobItem{path: child, hash: e.BlobHash, mode: e.Mode}
			if e.Name == "index" || dirNames[e.Name+".html"] {
				// the page would collide with a directory listing
				log.Warnf("%s: blob %q gets a raw copy but no page", name, child)
				item.rawOnly = true
			}
			blobs = append(blobs, item)
		}
	}

	for _, bl := range blobs {
		if err := b.renderBlob(name, g, renderer, sink, bl, lastTouched, report); err != nil {
			return err
		}
	}
	return nil
}

// renderBlob writes one blob page and its raw copy when the blob changed
// since the page was written. rawOnly blobs get just the copy.
func (b *Builder) renderBlob(
	name string,
	g *graph.Reader,
	renderer *render.Renderer,
	sink PageSink,
	bl blobItem,
	lastTouched map[object.Hash]int64,
	report *RepoReport,
) error {
	pagePath := path.Join(name, render.TreeDir, bl.path+".html")
	if bl.rawOnly {
		pagePath = path.Join(name, render.BlobDir, bl.path)
	}
	mt, exists, err := sink.ModTime(pagePath)
	if err != nil {
		return err
	}

	ts, known := lastTouched[bl.hash]
	if !ShouldRender(b.fullRebuild, mt, exists && known, time.Unix(ts, 0)) {
		report.Skipped++
		return nil
	}

	blob, err := g.Blob(bl.hash)
	if err != nil {
		log.Errorf("%s: blob %s: %v", name, bl.path, err)
		report.Failed++
		return nil
	}

	if err := sink.Write(path.Join(name, render.BlobDir, bl.path), blob.Data); err != nil {
		return err
	}
	if bl.rawOnly {
		report.Rendered++
		return nil
	}

	page := renderer.BlobPage(render.BlobData{
		Path:    bl.path,
		Mode:    bl.mode,
		Content: blob.Data,
		Binary:  graph.IsBinary(blob.Data),
	})
	if err := sink.Write(pagePath, page); err != nil {
		return err
	}
	report.Rendered++
	return nil
}
