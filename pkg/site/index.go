package site

import (
	"fmt"

	"github.com/odvcencio/gotpages/pkg/log"
	"github.com/odvcencio/gotpages/pkg/render"
)

// WriteIndex renders the top-level repository listing for one visibility.
// The repos slice is expected in display order (newest activity first).
func (b *Builder) WriteIndex(sink PageSink, private bool, repos []*RepoInfo) error {
	entries := make([]render.IndexEntry, 0, len(repos))
	for _, info := range repos {
		entries = append(entries, render.IndexEntry{
			Name:         info.Name,
			Owner:        info.Owner,
			Description:  info.Description,
			LastActivity: info.LastActivity,
		})
	}

	page := render.Index(b.renderConfig(private), entries)
	if err := sink.Write("index.html", page); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	return nil
}

// RenderBatch renders every repository of one visibility plus the listing
// page. Repositories that fail to open or abort on a write failure are
// reported as aborted and left off the index.
func (b *Builder) RenderBatch(private bool) (*BatchReport, error) {
	repos, unopenable, err := Discover(b.cfg.StoreRoot(private), private)
	if err != nil {
		return nil, err
	}
	sink, err := NewDirSink(b.cfg.OutputRoot(private))
	if err != nil {
		return nil, err
	}

	batch := &BatchReport{}
	for _, fail := range unopenable {
		log.Errorf("%s: %v", fail.Name, fail.Err)
		batch.Add(RepoReport{Name: fail.Name, Fatal: fail.Err})
	}
	log.SetJobs(len(repos))
	var indexed []*RepoInfo
	for _, info := range repos {
		log.Infof("rendering %s", info.Name)
		report := b.BuildRepo(info, sink)
		if report.Fatal != nil {
			log.Errorf("%s: %v", info.Name, report.Fatal)
		} else {
			indexed = append(indexed, info)
		}
		log.JobDone()
		log.Donef("%s", report.String())
		batch.Add(report)
	}
	log.Finished()

	if err := b.WriteIndex(sink, private, indexed); err != nil {
		return batch, err
	}
	return batch, nil
}

// RenderOne renders a single repository by name plus the listing page, so a
// post-receive hook can refresh just the repository that changed.
func (b *Builder) RenderOne(name string, private bool) (*RepoReport, error) {
	repos, unopenable, err := Discover(b.cfg.StoreRoot(private), private)
	if err != nil {
		return nil, err
	}
	for _, fail := range unopenable {
		if fail.Name == name {
			return nil, fmt.Errorf("repository %q: %w", name, fail.Err)
		}
	}

	var target *RepoInfo
	for _, info := range repos {
		if info.Name == name {
			target = info
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("repository %q not found in %s", name, b.cfg.StoreRoot(private))
	}

	sink, err := NewDirSink(b.cfg.OutputRoot(private))
	if err != nil {
		return nil, err
	}

	report := b.BuildRepo(target, sink)
	if report.Fatal != nil {
		return &report, report.Fatal
	}

	if err := b.WriteIndex(sink, private, repos); err != nil {
		return &report, err
	}
	return &report, nil
}
