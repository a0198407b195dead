package graph

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/odvcencio/gotpages/pkg/diff"
	"github.com/odvcencio/gotpages/pkg/object"
)

// DeltaStatus classifies a single file's change between two trees.
type DeltaStatus int

const (
	DeltaAdded DeltaStatus = iota
	DeltaRemoved
	DeltaModified
	DeltaRenamed
)

// String returns the single-letter status used in diffstat output.
func (s DeltaStatus) String() string {
	switch s {
	case DeltaAdded:
		return "A"
	case DeltaRemoved:
		return "D"
	case DeltaModified:
		return "M"
	case DeltaRenamed:
		return "R"
	default:
		return "?"
	}
}

// FileDiff describes one changed file between two trees.
type FileDiff struct {
	Status  DeltaStatus
	Path    string // new path (old path for removals)
	OldPath string // set for renames
	OldHash object.Hash
	NewHash object.Hash
	OldMode string
	NewMode string
	Binary  bool
	Hunks   []diff.Hunk
	Adds    int
	Dels    int
}

// TreeDiff is the full delta between two trees, ordered by path.
type TreeDiff struct {
	Files []FileDiff
	Adds  int
	Dels  int
}

type flatEntry struct {
	hash object.Hash
	mode string
}

// flattenTree expands a tree recursively into path -> (blob, mode). An empty
// hash flattens to an empty map, which is how the root commit diffs against
// nothing.
func (g *Reader) flattenTree(h object.Hash, prefix string, out map[string]flatEntry) error {
	if h == "" {
		return nil
	}
	tree, err := g.repo.Store.ReadTree(h)
	if err != nil {
		return err
	}
	for _, e := range tree.Entries {
		path := e.Name
		if prefix != "" {
			path = prefix + "/" + e.Name
		}
		if e.IsDir {
			if err := g.flattenTree(e.SubtreeHash, path, out); err != nil {
				return err
			}
			continue
		}
		out[path] = flatEntry{hash: e.BlobHash, mode: e.Mode}
	}
	return nil
}

// DiffTrees computes the delta from oldTree to newTree. An empty oldTree
// means "diff against the empty tree" and marks everything added. Exact
// renames (same blob hash and mode under a new path) are paired up and
// reported as a single entry; blob contents containing a NUL byte are
// flagged binary and carry no hunks. Any unreadable object aborts the whole
// diff so the caller can skip the page.
func (g *Reader) DiffTrees(oldTree, newTree object.Hash) (*TreeDiff, error) {
	oldFiles := make(map[string]flatEntry)
	newFiles := make(map[string]flatEntry)
	if err := g.flattenTree(oldTree, "", oldFiles); err != nil {
		return nil, fmt.Errorf("diff: old tree: %w", err)
	}
	if err := g.flattenTree(newTree, "", newFiles); err != nil {
		return nil, fmt.Errorf("diff: new tree: %w", err)
	}

	var added, removed, modified []string
	for path, ne := range newFiles {
		oe, ok := oldFiles[path]
		if !ok {
			added = append(added, path)
			continue
		}
		if oe.hash != ne.hash || oe.mode != ne.mode {
			modified = append(modified, path)
		}
	}
	for path := range oldFiles {
		if _, ok := newFiles[path]; !ok {
			removed = append(removed, path)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(modified)

	renamedOld, renamedNew := pairRenames(oldFiles, newFiles, removed, added)

	td := &TreeDiff{}
	for _, path := range added {
		if old, ok := renamedNew[path]; ok {
			ne := newFiles[path]
			td.Files = append(td.Files, FileDiff{
				Status:  DeltaRenamed,
				Path:    path,
				OldPath: old,
				OldHash: ne.hash,
				NewHash: ne.hash,
				OldMode: ne.mode,
				NewMode: ne.mode,
			})
			continue
		}
		fd, err := g.fileDelta(DeltaAdded, path, flatEntry{}, newFiles[path])
		if err != nil {
			return nil, err
		}
		td.Files = append(td.Files, fd)
	}
	for _, path := range removed {
		if _, ok := renamedOld[path]; ok {
			continue
		}
		fd, err := g.fileDelta(DeltaRemoved, path, oldFiles[path], flatEntry{})
		if err != nil {
			return nil, err
		}
		td.Files = append(td.Files, fd)
	}
	for _, path := range modified {
		fd, err := g.fileDelta(DeltaModified, path, oldFiles[path], newFiles[path])
		if err != nil {
			return nil, err
		}
		td.Files = append(td.Files, fd)
	}

	sort.Slice(td.Files, func(i, j int) bool {
		return td.Files[i].Path < td.Files[j].Path
	})
	for _, fd := range td.Files {
		td.Adds += fd.Adds
		td.Dels += fd.Dels
	}
	return td, nil
}

// pairRenames matches removed paths against added paths carrying an
// identical blob hash and mode. Candidates on both sides are consumed in
// sorted path order so the pairing is deterministic.
func pairRenames(oldFiles, newFiles map[string]flatEntry, removed, added []string) (map[string]string, map[string]string) {
	type key struct {
		hash object.Hash
		mode string
	}
	candidates := make(map[key][]string)
	for _, path := range removed {
		e := oldFiles[path]
		k := key{hash: e.hash, mode: e.mode}
		candidates[k] = append(candidates[k], path)
	}

	renamedOld := make(map[string]string) // old path -> new path
	renamedNew := make(map[string]string) // new path -> old path
	for _, path := range added {
		e := newFiles[path]
		k := key{hash: e.hash, mode: e.mode}
		olds := candidates[k]
		if len(olds) == 0 {
			continue
		}
		old := olds[0]
		candidates[k] = olds[1:]
		renamedOld[old] = path
		renamedNew[path] = old
	}
	return renamedOld, renamedNew
}

func (g *Reader) fileDelta(status DeltaStatus, path string, oldEnt, newEnt flatEntry) (FileDiff, error) {
	fd := FileDiff{
		Status:  status,
		Path:    path,
		OldHash: oldEnt.hash,
		NewHash: newEnt.hash,
		OldMode: oldEnt.mode,
		NewMode: newEnt.mode,
	}

	var oldData, newData []byte
	if oldEnt.hash != "" {
		blob, err := g.repo.Store.ReadBlob(oldEnt.hash)
		if err != nil {
			return fd, fmt.Errorf("diff %s: %w", path, err)
		}
		oldData = blob.Data
	}
	if newEnt.hash != "" {
		blob, err := g.repo.Store.ReadBlob(newEnt.hash)
		if err != nil {
			return fd, fmt.Errorf("diff %s: %w", path, err)
		}
		newData = blob.Data
	}

	if IsBinary(oldData) || IsBinary(newData) {
		fd.Binary = true
		return fd, nil
	}

	ops := diff.Lines(diff.SplitLines(oldData), diff.SplitLines(newData))
	fd.Hunks = diff.Hunks(ops)
	fd.Adds, fd.Dels = diff.Counts(ops)
	return fd, nil
}

// IsBinary reports whether content looks binary: any NUL byte in the first
// 8000 bytes.
func IsBinary(content []byte) bool {
	probe := content
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	return bytes.IndexByte(probe, 0) >= 0
}
