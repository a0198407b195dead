package site

import "fmt"

// RepoReport counts page outcomes for one repository build.
type RepoReport struct {
	Name     string
	Rendered int // pages written this run
	Skipped  int // pages found current and left alone
	Failed   int // pages dropped because an object could not be read
	Fatal    error
}

// String summarizes the report in one line.
func (r *RepoReport) String() string {
	if r.Fatal != nil {
		return fmt.Sprintf("%s: aborted: %v", r.Name, r.Fatal)
	}
	return fmt.Sprintf("%s: %d rendered, %d skipped, %d failed",
		r.Name, r.Rendered, r.Skipped, r.Failed)
}

// BatchReport accumulates per-repository reports for a batch run.
type BatchReport struct {
	Repos []RepoReport
}

// Add appends one repository's report.
func (b *BatchReport) Add(r RepoReport) {
	b.Repos = append(b.Repos, r)
}

// Totals sums the page counters across all repositories.
func (b *BatchReport) Totals() (rendered, skipped, failed int) {
	for _, r := range b.Repos {
		rendered += r.Rendered
		skipped += r.Skipped
		failed += r.Failed
	}
	return
}

// Aborted lists the repositories that hit a fatal write failure.
func (b *BatchReport) Aborted() []string {
	var names []string
	for _, r := range b.Repos {
		if r.Fatal != nil {
			names = append(names, r.Name)
		}
	}
	return names
}
