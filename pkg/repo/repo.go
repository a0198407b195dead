package repo

import (
	"github.com/odvcencio/gotpages/pkg/object"
)

// Repo represents an opened got repository.
type Repo struct {
	RootDir string        // working directory root
	GotDir  string        // .got/ directory
	Store   *object.Store // content-addressed object store
}
