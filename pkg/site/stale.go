package site

import "time"

// ShouldRender decides whether a page needs (re)rendering.
//
// A page is stale when it does not exist, or when its modification time is
// not strictly newer than the source timestamp it was derived from. Equal
// timestamps count as stale so a rebuild racing a commit in the same second
// errs toward rendering again. The comparison never consults the wall
// clock, so a commit timestamped in the future keeps its pages rendering
// until the page mtime catches up. fullRebuild forces everything.
func ShouldRender(fullRebuild bool, pageTime time.Time, pageExists bool, sourceTime time.Time) bool {
	if fullRebuild {
		return true
	}
	if !pageExists {
		return true
	}
	return !pageTime.After(sourceTime)
}
