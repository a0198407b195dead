package site

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/odvcencio/gotpages/pkg/graph"
	"github.com/odvcencio/gotpages/pkg/log"
	"github.com/odvcencio/gotpages/pkg/repo"
)

// RepoInfo is one discovered repository with the metadata the index shows.
type RepoInfo struct {
	Name         string
	Path         string
	Private      bool
	Owner        string
	Description  string
	LastActivity int64 // newest commit timestamp across all refs
	Repo         *repo.Repo
}

// OpenRepo loads one repository and its metadata from a store directory.
func OpenRepo(path, name string, private bool) (*RepoInfo, error) {
	r, err := repo.Open(path)
	if err != nil {
		return nil, err
	}
	owner, err := r.Owner()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	description, err := r.Description()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	info := &RepoInfo{
		Name:        name,
		Path:        path,
		Private:     private,
		Owner:       owner,
		Description: description,
		Repo:        r,
	}
	info.LastActivity = lastActivity(r)
	return info, nil
}

// lastActivity finds the newest commit timestamp any ref points at. Broken
// refs are skipped; a repository with no readable refs reports zero.
func lastActivity(r *repo.Repo) int64 {
	g := graph.New(r)
	refs, broken := g.Refs()
	for _, b := range broken {
		log.Warnf("ref %s: %v", b.Ref, b.Err)
	}

	var newest int64
	for _, ref := range refs {
		c, err := g.Commit(ref.Commit)
		if err != nil {
			log.Warnf("ref %s: %v", ref.Name, err)
			continue
		}
		if c.Timestamp > newest {
			newest = c.Timestamp
		}
	}
	return newest
}

// OpenFailure records a store entry that looked like a repository but could
// not be opened.
type OpenFailure struct {
	Name string
	Err  error
}

// Discover scans a store directory for repositories. Entries that fail to
// open are returned as open failures so the batch report can count them
// instead of losing them. The result is ordered by last activity, newest
// first.
func Discover(storeDir string, private bool) ([]*RepoInfo, []OpenFailure, error) {
	entries, err := os.ReadDir(storeDir)
	if err != nil {
		return nil, nil, fmt.Errorf("discover: %w", err)
	}

	var repos []*RepoInfo
	var failed []OpenFailure
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(storeDir, name)
		if st, err := os.Stat(filepath.Join(path, ".got")); err != nil || !st.IsDir() {
			continue
		}
		info, err := OpenRepo(path, name, private)
		if err != nil {
			log.Warnf("cannot open %s: %v", name, err)
			failed = append(failed, OpenFailure{Name: name, Err: err})
			continue
		}
		repos = append(repos, info)
	}

	sort.Slice(repos, func(i, j int) bool {
		if repos[i].LastActivity != repos[j].LastActivity {
			return repos[i].LastActivity > repos[j].LastActivity
		}
		return repos[i].Name < repos[j].Name
	})
	return repos, failed, nil
}
