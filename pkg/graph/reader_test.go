package graph

import (
	"os"
	"testing"

	"github.com/odvcencio/gotpages/pkg/object"
	"github.com/odvcencio/gotpages/pkg/repo"
)

type fixture struct {
	t *testing.T
	r *repo.Repo
	g *Reader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	r, err := repo.Init(t.TempDir())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	return &fixture{t: t, r: r, g: New(r)}
}

func (f *fixture) blob(content string) object.Hash {
	f.t.Helper()
	h, err := f.r.Store.WriteBlob(&object.Blob{Data: []byte(content)})
	if err != nil {
		f.t.Fatalf("write blob: %v", err)
	}
	return h
}

func (f *fixture) tree(entries ...object.TreeEntry) object.Hash {
	f.t.Helper()
	h, err := f.r.Store.WriteTree(&object.TreeObj{Entries: entries})
	if err != nil {
		f.t.Fatalf("write tree: %v", err)
	}
	return h
}

func (f *fixture) commit(tree object.Hash, ts int64, msg string, parents ...object.Hash) object.Hash {
	f.t.Helper()
	h, err := f.r.Store.WriteCommit(&object.CommitObj{
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

func (f *fixture) ref(name string, h object.Hash) {
	f.t.Helper()
	if err := f.r.UpdateRef(name, h); err != nil {
		f.t.Fatalf("update ref: %v", err)
	}
}

// file is a shorthand for a regular-file tree entry.
func file(name string, blob object.Hash) object.TreeEntry {
	return object.TreeEntry{Name: name, BlobHash: blob}
}

func dir(name string, subtree object.Hash) object.TreeEntry {
	return object.TreeEntry{Name: name, IsDir: true, SubtreeHash: subtree}
}

func TestCommitsReachableNewestFirst(t *testing.T) {
	f := newFixture(t)
	tree := f.tree()

	c1 := f.commit(tree, 100, "first")
	c2 := f.commit(tree, 200, "second", c1)
	c3 := f.commit(tree, 300, "third", c2)
	f.ref("refs/heads/main", c3)

	refs, broken := f.g.Refs()
	if len(broken) != 0 {
		t.Fatalf("unexpected broken refs: %v", broken)
	}
	nodes, walkErrs := f.g.CommitsReachable(refs)
	if len(walkErrs) != 0 {
		t.Fatalf("unexpected walk errors: %v", walkErrs)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 commits, got %d", len(nodes))
	}
	if nodes[0].Hash != c3 || nodes[1].Hash != c2 || nodes[2].Hash != c1 {
		t.Fatalf("commits out of order: %v", nodes)
	}
}

func TestCommitsReachableDedupesAcrossRefs(t *testing.T) {
	f := newFixture(t)
	tree := f.tree()

	c1 := f.commit(tree, 100, "shared root")
	c2 := f.commit(tree, 200, "main tip", c1)
	c3 := f.commit(tree, 250, "branch tip", c1)
	f.ref("refs/heads/main", c2)
	f.ref("refs/heads/feature", c3)

	refs, _ := f.g.Refs()
	nodes, _ := f.g.CommitsReachable(refs)
	if len(nodes) != 3 {
		t.Fatalf("shared ancestor enumerated more than once: %d commits", len(nodes))
	}
}

func TestCommitsReachableTimestampTieBreak(t *testing.T) {
	f := newFixture(t)
	tree := f.tree()

	c1 := f.commit(tree, 100, "one")
	c2 := f.commit(tree, 100, "two")
	f.ref("refs/heads/a", c1)
	f.ref("refs/heads/b", c2)

	refs, _ := f.g.Refs()
	first, _ := f.g.CommitsReachable(refs)
	second, _ := f.g.CommitsReachable(refs)
	for i := range first {
		if first[i].Hash != second[i].Hash {
			t.Fatalf("tie-broken order not deterministic: %v vs %v", first, second)
		}
	}
	if !(first[0].Hash > first[1].Hash) {
		t.Fatalf("equal timestamps should order by hash: %v", first)
	}
}

func TestCommitsReachableIsolatesBrokenCommit(t *testing.T) {
	f := newFixture(t)
	tree := f.tree()

	c1 := f.commit(tree, 100, "first")
	c2 := f.commit(tree, 200, "second", c1)
	c3 := f.commit(tree, 300, "third", c2)
	f.ref("refs/heads/main", c3)

	// Damage the middle commit on disk.
	objPath := f.r.GotDir + "/objects/" + string(c2[:2]) + "/" + string(c2[2:])
	if err := os.WriteFile(objPath, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("corrupt commit: %v", err)
	}

	refs, _ := f.g.Refs()
	nodes, walkErrs := f.g.CommitsReachable(refs)

	if len(walkErrs) != 1 || walkErrs[0].Hash != c2 {
		t.Fatalf("expected one walk error for %s, got %v", c2.Short(), walkErrs)
	}
	// c3 still renders; c1 is unreachable because its ancestry ran through c2.
	if len(nodes) != 1 || nodes[0].Hash != c3 {
		t.Fatalf("unexpected surviving commits %v", nodes)
	}
}

func TestRefsPeelAnnotatedTags(t *testing.T) {
	f := newFixture(t)
	tree := f.tree()

	c1 := f.commit(tree, 100, "release")
	f.ref("refs/heads/main", c1)
	if _, err := f.r.CreateAnnotatedTag("v1.0", c1, "alice", "first release", 150); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	refs, broken := f.g.Refs()
	if len(broken) != 0 {
		t.Fatalf("unexpected broken refs: %v", broken)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %v", refs)
	}
	// Branches sort before tags.
	if refs[0].Name != "heads/main" || refs[1].Name != "tags/v1.0" {
		t.Fatalf("unexpected ref order: %v", refs)
	}
	if refs[1].Commit != c1 {
		t.Fatalf("tag did not peel to commit: %v", refs[1])
	}
	if refs[1].Tag == nil || refs[1].Tag.Message != "first release" {
		t.Fatalf("annotation missing: %+v", refs[1].Tag)
	}
	if refs[1].ShortName() != "v1.0" || !refs[1].IsTag() {
		t.Fatalf("unexpected tag ref %+v", refs[1])
	}
}

func TestSortTreeEntries(t *testing.T) {
	entries := []object.TreeEntry{
		{Name: "zz.go"},
		{Name: "docs", IsDir: true},
		{Name: "aa.go"},
		{Name: "src", IsDir: true},
	}
	sorted := SortTreeEntries(entries)
	want := []string{"docs", "src", "aa.go", "zz.go"}
	for i, name := range want {
		if sorted[i].Name != name {
			t.Fatalf("position %d: got %q, want %q", i, sorted[i].Name, name)
		}
	}
}
