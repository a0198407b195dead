package object

// Hash is a 64-character hex-encoded SHA-256 digest.
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
	TypeTag    ObjectType = "tag"
)

const (
	// Tree mode constants compatible with Git's canonical mode strings.
	TreeModeDir        = "40000"
	TreeModeFile       = "100644"
	TreeModeExecutable = "100755"
	TreeModeSymlink    = "120000"
)

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object.
type TreeEntry struct {
	Name        string
	IsDir       bool
	Mode        string
	BlobHash    Hash
	SubtreeHash Hash
}

// TreeObj holds a sorted list of tree entries.
type TreeObj struct {
	Entries []TreeEntry // sorted by Name
}

// CommitObj represents a commit pointing to a tree with metadata. Committer
// fields may be empty, in which case the author acted as committer.
type CommitObj struct {
	TreeHash           Hash
	Parents            []Hash
	Author             string
	Timestamp          int64
	Committer          string
	CommitterTimestamp int64
	Signature          string
	Message            string
}

// TagObj is an annotated tag pointing at another object, usually a commit.
type TagObj struct {
	TargetHash Hash
	Name       string
	Tagger     string
	Timestamp  int64
	Message    string
}

// Summary returns the first line of the commit message.
func (c *CommitObj) Summary() string {
	for i := 0; i < len(c.Message); i++ {
		if c.Message[i] == '\n' {
			return c.Message[:i]
		}
	}
	return c.Message
}

// CommitterOr returns the committer identity, falling back to the author
// for commits that carry no separate committer.
func (c *CommitObj) CommitterOr() string {
	if c.Committer != "" {
		return c.Committer
	}
	return c.Author
}

// CommitTime returns the committer timestamp when present, else the author
// timestamp.
func (c *CommitObj) CommitTime() int64 {
	if c.Committer != "" {
		return c.CommitterTimestamp
	}
	return c.Timestamp
}
