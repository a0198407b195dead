package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/gotpages/pkg/object"
)

// ListRefs lists references under .got/refs.
// Names are returned relative to refs root, e.g. "heads/main", "tags/v1".
func (r *Repo) ListRefs(prefix string) (map[string]object.Hash, error) {
	root := filepath.Join(r.GotDir, "refs")
	dir := root
	if strings.TrimSpace(prefix) != "" {
		dir = filepath.Join(root, filepath.FromSlash(prefix))
	}

	refs := make(map[string]object.Hash)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		refs[name] = object.Hash(strings.TrimSpace(string(data)))
		return nil
	})
	if os.IsNotExist(err) {
		return refs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	return refs, nil
}

// PeelToCommit resolves a ref target to the commit it ultimately points at.
// Annotated tag objects are peeled; the tag object (if any) is returned
// alongside the commit hash so callers can surface the annotation.
func (r *Repo) PeelToCommit(h object.Hash) (object.Hash, *object.TagObj, error) {
	objType, data, err := r.Store.Read(h)
	if err != nil {
		return "", nil, err
	}
	switch objType {
	case object.TypeCommit:
		return h, nil, nil
	case object.TypeTag:
		tag, err := object.UnmarshalTag(data)
		if err != nil {
			return "", nil, &object.CorruptError{Hash: h, Reason: "tag parse", Err: err}
		}
		target, _, err := r.PeelToCommit(tag.TargetHash)
		if err != nil {
			return "", tag, err
		}
		return target, tag, nil
	default:
		return "", nil, &object.CorruptError{Hash: h, Reason: fmt.Sprintf("ref points at %s object", objType)}
	}
}

// CreateAnnotatedTag stores a tag object for target and points
// refs/tags/<name> at it.
func (r *Repo) CreateAnnotatedTag(name string, target object.Hash, tagger, message string, timestamp int64) (object.Hash, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("create tag: tag name is required")
	}
	if strings.TrimSpace(string(target)) == "" {
		return "", errors.New("create tag: target hash is required")
	}

	tagHash, err := r.Store.WriteTag(&object.TagObj{
		TargetHash: target,
		Name:       name,
		Tagger:     tagger,
		Timestamp:  timestamp,
		Message:    strings.TrimSpace(message),
	})
	if err != nil {
		return "", fmt.Errorf("create tag: write tag object: %w", err)
	}
	if err := r.UpdateRef("refs/tags/"+name, tagHash); err != nil {
		return "", fmt.Errorf("create tag: %w", err)
	}
	return tagHash, nil
}
