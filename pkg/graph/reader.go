package graph

import (
	"sort"
	"strings"

	"github.com/odvcencio/gotpages/pkg/object"
	"github.com/odvcencio/gotpages/pkg/repo"
)

// Reader is a read-only view over a repository's object graph: refs,
// commits, trees and blobs. All lookups surface the object error taxonomy
// (NotFound/Corrupt) instead of aborting.
type Reader struct {
	repo *repo.Repo
}

// New wraps an opened repository.
func New(r *repo.Repo) *Reader {
	return &Reader{repo: r}
}

// Repo exposes the underlying repository handle.
func (g *Reader) Repo() *repo.Repo {
	return g.repo
}

// Ref is a named reference resolved to the commit it points at. Annotated
// tags carry their tag object after peeling.
type Ref struct {
	Name   string      // relative to refs/, e.g. "heads/main", "tags/v1"
	Commit object.Hash // peeled commit hash
	Tag    *object.TagObj
}

// IsTag reports whether the ref lives under refs/tags/.
func (r Ref) IsTag() bool {
	return strings.HasPrefix(r.Name, "tags/")
}

// ShortName strips the heads/ or tags/ prefix.
func (r Ref) ShortName() string {
	if i := strings.IndexByte(r.Name, '/'); i >= 0 {
		return r.Name[i+1:]
	}
	return r.Name
}

// Refs lists all refs peeled to commits, branches before tags, each group
// sorted by name. Refs whose target cannot be resolved are returned as walk
// errors rather than failing the listing.
func (g *Reader) Refs() ([]Ref, []WalkError) {
	raw, err := g.repo.ListRefs("")
	if err != nil {
		return nil, []WalkError{{Err: err}}
	}

	var refs []Ref
	var broken []WalkError
	for name, target := range raw {
		commit, tag, err := g.repo.PeelToCommit(target)
		if err != nil {
			broken = append(broken, WalkError{Hash: target, Ref: name, Err: err})
			continue
		}
		refs = append(refs, Ref{Name: name, Commit: commit, Tag: tag})
	}

	sort.Slice(refs, func(i, j int) bool {
		ti, tj := refs[i].IsTag(), refs[j].IsTag()
		if ti != tj {
			return !ti
		}
		return refs[i].Name < refs[j].Name
	})
	return refs, broken
}

// CommitNode pairs a commit with its hash during graph traversal.
type CommitNode struct {
	Hash   object.Hash
	Commit *object.CommitObj
}

// WalkError records a single unreadable object encountered during a walk.
type WalkError struct {
	Hash object.Hash
	Ref  string
	Err  error
}

// CommitsReachable enumerates every commit reachable from the given refs,
// each visited once, ordered newest-first by author timestamp with ties
// broken by hash for determinism. Unreadable commits are collected as walk
// errors and their ancestry is not followed; the rest of the graph still
// renders.
func (g *Reader) CommitsReachable(refs []Ref) ([]CommitNode, []WalkError) {
	var nodes []CommitNode
	var broken []WalkError

	visited := make(map[object.Hash]struct{})
	var stack []object.Hash
	for _, r := range refs {
		stack = append(stack, r.Commit)
	}

	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h == "" {
			continue
		}
		if _, ok := visited[h]; ok {
			continue
		}
		visited[h] = struct{}{}

		c, err := g.repo.Store.ReadCommit(h)
		if err != nil {
			broken = append(broken, WalkError{Hash: h, Err: err})
			continue
		}
		nodes = append(nodes, CommitNode{Hash: h, Commit: c})
		stack = append(stack, c.Parents...)
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Commit.Timestamp != nodes[j].Commit.Timestamp {
			return nodes[i].Commit.Timestamp > nodes[j].Commit.Timestamp
		}
		return nodes[i].Hash > nodes[j].Hash
	})
	return nodes, broken
}

// Commit reads a single commit object.
func (g *Reader) Commit(h object.Hash) (*object.CommitObj, error) {
	return g.repo.Store.ReadCommit(h)
}

// Tree reads a single tree object.
func (g *Reader) Tree(h object.Hash) (*object.TreeObj, error) {
	return g.repo.Store.ReadTree(h)
}

// Blob reads a single blob object.
func (g *Reader) Blob(h object.Hash) (*object.Blob, error) {
	return g.repo.Store.ReadBlob(h)
}

// SortTreeEntries orders tree entries for display: sub-trees first, then
// files, each group lexicographic by name. The order is independent of the
// store's serialization order.
func SortTreeEntries(entries []object.TreeEntry) []object.TreeEntry {
	out := make([]object.TreeEntry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDir != out[j].IsDir {
			return out[i].IsDir
		}
		return out[i].Name < out[j].Name
	})
	return out
}
