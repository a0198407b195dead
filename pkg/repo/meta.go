package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Repository metadata lives in plain files under .got/, written by the init
// command and read at build time.
const (
	ownerFile       = "owner"
	descriptionFile = "description"
)

// Owner reads .got/owner. A missing file yields an empty owner.
func (r *Repo) Owner() (string, error) {
	return r.readMetaFile(ownerFile)
}

// Description reads .got/description. A missing file yields an empty
// description.
func (r *Repo) Description() (string, error) {
	return r.readMetaFile(descriptionFile)
}

func (r *Repo) readMetaFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.GotDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteOwner stores the repository owner in .got/owner.
func (r *Repo) WriteOwner(owner string) error {
	return r.writeMetaFile(ownerFile, owner)
}

// WriteDescription stores the repository description in .got/description.
func (r *Repo) WriteDescription(description string) error {
	return r.writeMetaFile(descriptionFile, description)
}

func (r *Repo) writeMetaFile(name, content string) error {
	path := filepath.Join(r.GotDir, name)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
