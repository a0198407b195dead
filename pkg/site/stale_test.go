package site

import (
	"testing"
	"time"
)

func TestShouldRenderMissingPage(t *testing.T) {
	if !ShouldRender(false, time.Time{}, false, time.Unix(100, 0)) {
		t.Fatal("missing page must render")
	}
}

func TestShouldRenderFullRebuild(t *testing.T) {
	page := time.Unix(1000, 0)
	source := time.Unix(100, 0)
	if !ShouldRender(true, page, true, source) {
		t.Fatal("full rebuild must render even current pages")
	}
}

func TestShouldRenderCurrentPage(t *testing.T) {
	page := time.Unix(1000, 0)
	source := time.Unix(100, 0)
	if ShouldRender(false, page, true, source) {
		t.Fatal("page newer than source must not render")
	}
}

func TestShouldRenderStalePage(t *testing.T) {
	page := time.Unix(100, 0)
	source := time.Unix(1000, 0)
	if !ShouldRender(false, page, true, source) {
		t.Fatal("page older than source must render")
	}
}

func TestShouldRenderEqualTimestamps(t *testing.T) {
	ts := time.Unix(500, 0)
	if !ShouldRender(false, ts, true, ts) {
		t.Fatal("equal timestamps must count as stale")
	}
}

func TestShouldRenderFutureSource(t *testing.T) {
	// Commit timestamps can lie in the future; the comparison stays strict
	// and never consults the wall clock.
	page := time.Unix(1000, 0)
	source := time.Now().Add(24 * time.Hour)
	if !ShouldRender(false, page, true, source) {
		t.Fatal("future source time must render")
	}
}
