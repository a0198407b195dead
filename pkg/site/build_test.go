package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/odvcencio/gotpages/pkg/object"
	"github.com/odvcencio/gotpages/pkg/repo"
)

type siteFixture struct {
	t        *testing.T
	cfg      Config
	storeDir string
	outDir   string
}

func newSiteFixture(t *testing.T) *siteFixture {
	t.Helper()
	storeDir := t.TempDir()
	outDir := t.TempDir()
	return &siteFixture{
		t:        t,
		storeDir: storeDir,
		outDir:   outDir,
		cfg: Config{
			Title:            "test site",
			StoreDir:         storeDir,
			PrivateStoreDir:  filepath.Join(storeDir, "private"),
			OutputDir:        outDir,
			PrivateOutputDir: filepath.Join(outDir, "private"),
			LogPageSize:      2,
			MaxBlobLines:     100,
			MaxDiffLines:     100,
		},
	}
}

func (f *siteFixture) initRepo(name string) *repo.Repo {
	f.t.Helper()
	r, err := repo.Init(filepath.Join(f.storeDir, name))
	if err != nil {
		f.t.Fatalf("init %s: %v", name, err)
	}
	if err := r.WriteOwner("alice"); err != nil {
		f.t.Fatalf("write owner: %v", err)
	}
	if err := r.WriteDescription("test repository"); err != nil {
		f.t.Fatalf("write description: %v", err)
	}
	return r
}

func (f *siteFixture) blob(r *repo.Repo, content string) object.Hash {
	f.t.Helper()
	h, err := r.Store.WriteBlob(&object.Blob{Data: []byte(content)})
	if err != nil {
		f.t.Fatalf("write blob: %v", err)
	}
	return h
}

func (f *siteFixture) tree(r *repo.Repo, entries ...object.TreeEntry) object.Hash {
	f.t.Helper()
	h, err := r.Store.WriteTree(&object.TreeObj{Entries: entries})
	if err != nil {
		f.t.Fatalf("write tree: %v", err)
	}
	return h
}

func (f *siteFixture) commit(r *repo.Repo, tree object.Hash, ts int64, msg string, parents ...object.Hash) object.Hash {
	f.t.Helper()
	h, err := r.Store.WriteCommit(&object.CommitObj{
		TreeHash:  tree,
		Parents:   parents,
		Author:    "alice",
		Timestamp: ts,
		Message:   msg,
	})
	if err != nil {
		f.t.Fatalf("write commit: %v", err)
	}
	return h
}

func (f *siteFixture) setMain(r *repo.Repo, tip object.Hash) {
	f.t.Helper()
	if err := r.UpdateRef("refs/heads/main", tip); err != nil {
		f.t.Fatalf("update ref: %v", err)
	}
}

// demoRepo builds "demo" with two commits, a README, a LICENSE and a
// nested directory, returning the commit hashes oldest first.
func (f *siteFixture) demoRepo() []object.Hash {
	r := f.initRepo("demo")

	t1 := f.tree(r,
		object.TreeEntry{Name: "README.md", BlobHash: f.blob(r, "# demo\n\nhello\n")},
		object.TreeEntry{Name: "main.go", BlobHash: f.blob(r, "package main\n")},
	)
	c1 := f.commit(r, t1, 100, "initial import")

	sub := f.tree(r,
		object.TreeEntry{Name: "util.go", BlobHash: f.blob(r, "package lib\n")},
	)
	t2 := f.tree(r,
		object.TreeEntry{Name: "README.md", BlobHash: f.blob(r, "# demo\n\nhello\n")},
		object.TreeEntry{Name: "LICENSE", BlobHash: f.blob(r, "MIT License\n")},
		object.TreeEntry{Name: "main.go", BlobHash: f.blob(r, "package main\n\nfunc main() {}\n")},
		object.TreeEntry{Name: "lib", IsDir: true, SubtreeHash: sub},
	)
	c2 := f.commit(r, t2, 200, "add license and lib", c1)

	f.setMain(r, c2)
	return []object.Hash{c1, c2}
}

func (f *siteFixture) build(t *testing.T, full bool) (RepoReport, *DirSink) {
	t.Helper()
	info, err := OpenRepo(filepath.Join(f.storeDir, "demo"), "demo", false)
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	sink, err := NewDirSink(f.outDir)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	report := NewBuilder(f.cfg, full).BuildRepo(info, sink)
	if report.Fatal != nil {
		t.Fatalf("fatal build error: %v", report.Fatal)
	}
	return report, sink
}

func (f *siteFixture) page(t *testing.T, parts ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(append([]string{f.outDir}, parts...)...))
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	return string(data)
}

func TestBuildRepoRendersAllPages(t *testing.T) {
	f := newSiteFixture(t)
	commits := f.demoRepo()
	report, _ := f.build(t, false)

	if report.Failed != 0 {
		t.Fatalf("unexpected failures: %+v", report)
	}

	summary := f.page(t, "demo", "index.html")
	if !strings.Contains(summary, "<h1>demo</h1>") || !strings.Contains(summary, "hello") {
		t.Fatal("summary page incomplete")
	}

	license := f.page(t, "demo", "license.html")
	if !strings.Contains(license, "MIT License") {
		t.Fatal("license page incomplete")
	}

	log := f.page(t, "demo", "commit", "index.html")
	if !strings.Contains(log, "add license and lib") {
		t.Fatal("log page missing tip commit")
	}

	for _, c := range commits {
		f.page(t, "demo", "commit", string(c)+".html")
	}

	rootTree := f.page(t, "demo", "tree", "index.html")
	if !strings.Contains(rootTree, "lib/") || !strings.Contains(rootTree, "main.go") {
		t.Fatal("root tree listing incomplete")
	}
	f.page(t, "demo", "tree", "lib", "index.html")
	f.page(t, "demo", "tree", "lib", "util.go.html")

	raw := f.page(t, "demo", "blob", "main.go")
	if raw != "package main\n\nfunc main() {}\n" {
		t.Fatalf("raw blob copy diverges: %q", raw)
	}
}

func TestBuildRepoSecondRunSkipsImmutablePages(t *testing.T) {
	f := newSiteFixture(t)
	f.demoRepo()

	first, _ := f.build(t, false)
	if first.Skipped != 0 {
		t.Fatalf("first run should skip nothing: %+v", first)
	}

	second, _ := f.build(t, false)
	// Two commit pages plus every blob page skip on the second run.
	if second.Skipped < 2 {
		t.Fatalf("second run skipped too little: %+v", second)
	}
	if second.Rendered >= first.Rendered {
		t.Fatalf("second run should render fewer pages: %d vs %d", second.Rendered, first.Rendered)
	}

	full, _ := f.build(t, true)
	if full.Skipped != 0 {
		t.Fatalf("full rebuild must skip nothing: %+v", full)
	}
}

func TestBuildRepoIncrementalNewCommit(t *testing.T) {
	f := newSiteFixture(t)
	commits := f.demoRepo()
	f.build(t, false)

	// A third commit lands after the first build. Its timestamp is newer
	// than every page on disk, so the touched blob page re-renders.
	info, err := OpenRepo(filepath.Join(f.storeDir, "demo"), "demo", false)
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	r := info.Repo

	future := time.Now().Add(time.Hour).Unix()
	t3 := f.tree(r,
		object.TreeEntry{Name: "README.md", BlobHash: f.blob(r, "# demo\n\nupdated\n")},
		object.TreeEntry{Name: "LICENSE", BlobHash: f.blob(r, "MIT License\n")},
		object.TreeEntry{Name: "main.go", BlobHash: f.blob(r, "package main\n\nfunc main() { run() }\n")},
	)
	c3 := f.commit(r, t3, future, "rework main", commits[1])
	f.setMain(r, c3)

	report, _ := f.build(t, false)
	if report.Failed != 0 {
		t.Fatalf("unexpected failures: %+v", report)
	}

	// The new commit has a page; old commit pages were skipped.
	f.page(t, "demo", "commit", string(c3)+".html")
	if report.Skipped < 2 {
		t.Fatalf("expected old commit pages to skip: %+v", report)
	}

	raw := f.page(t, "demo", "blob", "main.go")
	if !strings.Contains(raw, "run()") {
		t.Fatal("changed blob raw copy not refreshed")
	}
	blobPage := f.page(t, "demo", "tree", "main.go.html")
	if !strings.Contains(blobPage, "run()") {
		t.Fatal("changed blob page not refreshed")
	}
}

func TestBuildRepoIsolatesCorruptObject(t *testing.T) {
	f := newSiteFixture(t)
	commits := f.demoRepo()

	info, err := OpenRepo(filepath.Join(f.storeDir, "demo"), "demo", false)
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	r := info.Repo

	// A third commit adds a file, then its blob gets damaged on disk.
	badBlob := f.blob(r, "doomed content\n")
	t3 := f.tree(r,
		object.TreeEntry{Name: "README.md", BlobHash: f.blob(r, "# demo\n\nhello\n")},
		object.TreeEntry{Name: "LICENSE", BlobHash: f.blob(r, "MIT License\n")},
		object.TreeEntry{Name: "main.go", BlobHash: f.blob(r, "package main\n\nfunc main() {}\n")},
		object.TreeEntry{Name: "doomed.txt", BlobHash: badBlob},
	)
	c3 := f.commit(r, t3, 300, "add doomed file", commits[1])
	f.setMain(r, c3)

	objPath := filepath.Join(r.GotDir, "objects", string(badBlob[:2]), string(badBlob[2:]))
	if err := os.WriteFile(objPath, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("corrupt blob: %v", err)
	}

	report, _ := f.build(t, false)
	if report.Fatal != nil {
		t.Fatalf("corrupt object must not abort the repo: %v", report.Fatal)
	}
	if report.Failed == 0 {
		t.Fatal("expected failed pages for the corrupt blob")
	}

	// The untouched commits still render.
	for _, c := range commits {
		f.page(t, "demo", "commit", string(c)+".html")
	}
	// The tip commit page failed (its diff needs the bad blob)...
	if _, err := os.Stat(filepath.Join(f.outDir, "demo", "commit", string(c3)+".html")); err == nil {
		t.Fatal("tip commit page should have been dropped")
	}
	// ...but the rest of the tree rendered, minus the doomed blob page.
	f.page(t, "demo", "tree", "index.html")
	f.page(t, "demo", "tree", "main.go.html")
	if _, err := os.Stat(filepath.Join(f.outDir, "demo", "tree", "doomed.txt.html")); err == nil {
		t.Fatal("doomed blob page should have been dropped")
	}
}

func TestBuildRepoRerendersCommitPageBehindItsTimestamp(t *testing.T) {
	f := newSiteFixture(t)
	r := f.initRepo("demo")
	tree := f.tree(r, object.TreeEntry{Name: "a.txt", BlobHash: f.blob(r, "a\n")})
	skewed := time.Now().Add(2 * time.Hour).Unix()
	c := f.commit(r, tree, skewed, "committed on a skewed clock")
	f.setMain(r, c)

	f.build(t, false)

	// The commit claims a time two hours ahead, so every page on disk is
	// older than its source and nothing may skip.
	second, _ := f.build(t, false)
	if second.Skipped != 0 {
		t.Fatalf("pages older than the commit timestamp must re-render: %+v", second)
	}
	page := f.page(t, "demo", "commit", string(c)+".html")
	if !strings.Contains(page, "committed on a skewed clock") {
		t.Fatal("commit page incomplete")
	}
}

func TestBuildRepoCollidingBlobNamesGetRawCopies(t *testing.T) {
	f := newSiteFixture(t)
	r := f.initRepo("demo")
	sub := f.tree(r, object.TreeEntry{Name: "inner.txt", BlobHash: f.blob(r, "inner\n")})
	tree := f.tree(r,
		object.TreeEntry{Name: "index", BlobHash: f.blob(r, "not a page\n")},
		object.TreeEntry{Name: "x", BlobHash: f.blob(r, "x content\n")},
		object.TreeEntry{Name: "x.html", IsDir: true, SubtreeHash: sub},
	)
	c := f.commit(r, tree, 100, "colliding names")
	f.setMain(r, c)

	report, _ := f.build(t, false)
	if report.Failed != 0 {
		t.Fatalf("name collisions are not failures: %+v", report)
	}

	// Both blobs keep their raw copies even though neither gets a page.
	if raw := f.page(t, "demo", "blob", "index"); raw != "not a page\n" {
		t.Fatalf("raw copy for index blob diverges: %q", raw)
	}
	if raw := f.page(t, "demo", "blob", "x"); raw != "x content\n" {
		t.Fatalf("raw copy for x diverges: %q", raw)
	}

	listing := f.page(t, "demo", "tree", "index.html")
	if strings.Contains(listing, "not a page") {
		t.Fatal("directory listing overwritten by a blob page")
	}
	f.page(t, "demo", "tree", "x.html", "index.html")
	f.page(t, "demo", "tree", "x.html", "inner.txt.html")
}

func TestBuildRepoRejectsTraversalEntryNames(t *testing.T) {
	f := newSiteFixture(t)
	r := f.initRepo("demo")
	tree := f.tree(r,
		object.TreeEntry{Name: "ok.txt", BlobHash: f.blob(r, "fine\n")},
		object.TreeEntry{Name: "../../../evil", BlobHash: f.blob(r, "escaped\n")},
	)
	c := f.commit(r, tree, 100, "hostile tree")
	f.setMain(r, c)

	report, _ := f.build(t, false)
	if report.Failed == 0 {
		t.Fatal("hostile entry name must count as failed")
	}

	f.page(t, "demo", "tree", "ok.txt.html")
	listing := f.page(t, "demo", "tree", "index.html")
	if strings.Contains(listing, "evil") {
		t.Fatal("hostile entry must not be listed")
	}
	for _, escaped := range []string{"evil", "evil.html"} {
		if _, err := os.Stat(filepath.Join(filepath.Dir(f.outDir), escaped)); err == nil {
			t.Fatalf("entry name escaped the output root as %s", escaped)
		}
	}
}

func TestRenderBatchCountsUnopenableRepo(t *testing.T) {
	f := newSiteFixture(t)
	f.demoRepo()

	broken := f.initRepo("broken")
	owner := filepath.Join(broken.GotDir, "owner")
	if err := os.Remove(owner); err != nil {
		t.Fatalf("remove owner file: %v", err)
	}
	if err := os.Mkdir(owner, 0o755); err != nil {
		t.Fatalf("block owner file: %v", err)
	}

	batch, err := NewBuilder(f.cfg, false).RenderBatch(false)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(batch.Repos) != 2 {
		t.Fatalf("every store entry belongs in the report: %+v", batch.Repos)
	}
	aborted := batch.Aborted()
	if len(aborted) != 1 || aborted[0] != "broken" {
		t.Fatalf("expected broken reported as aborted, got %v", aborted)
	}

	index := f.page(t, "index.html")
	if strings.Contains(index, "broken") {
		t.Fatal("unopenable repository must stay off the index")
	}
}

func TestRenderBatchWritesIndex(t *testing.T) {
	f := newSiteFixture(t)
	f.demoRepo()

	other := f.initRepo("zlib-fork")
	tree := f.tree(other, object.TreeEntry{Name: "a.txt", BlobHash: f.blob(other, "a\n")})
	tip := f.commit(other, tree, 5000, "newest activity")
	f.setMain(other, tip)

	batch, err := NewBuilder(f.cfg, false).RenderBatch(false)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(batch.Repos) != 2 {
		t.Fatalf("expected 2 repos, got %+v", batch.Repos)
	}
	if aborted := batch.Aborted(); len(aborted) != 0 {
		t.Fatalf("unexpected aborts: %v", aborted)
	}

	index := f.page(t, "index.html")
	if !strings.Contains(index, "demo") || !strings.Contains(index, "zlib-fork") {
		t.Fatal("index missing repositories")
	}
	// zlib-fork has the newest activity, so it lists first.
	if strings.Index(index, "zlib-fork") > strings.Index(index, ">demo<") {
		t.Fatal("index not ordered by last activity")
	}
}

func TestRenderOneUnknownRepo(t *testing.T) {
	f := newSiteFixture(t)
	f.demoRepo()

	if _, err := NewBuilder(f.cfg, false).RenderOne("missing", false); err == nil {
		t.Fatal("expected error for unknown repository")
	}
}
