package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the site-wide configuration, loaded from a TOML file. Every
// field has a usable default so a minimal file only needs store_dir and
// output_dir.
type Config struct {
	// Title shown on the top-level index page.
	Title string `toml:"title"`

	// StoreDir holds the public repositories, one directory each.
	StoreDir string `toml:"store_dir"`

	// PrivateStoreDir holds the private repositories.
	PrivateStoreDir string `toml:"private_store_dir"`

	// OutputDir is the root for public repository pages.
	OutputDir string `toml:"output_dir"`

	// PrivateOutputDir is the root for private repository pages. Private
	// repos never appear under OutputDir or on its index.
	PrivateOutputDir string `toml:"private_output_dir"`

	// CloneURL is the base clone URL; the repository name is appended.
	CloneURL string `toml:"clone_url"`

	// LogPageSize is the number of commits per log page.
	LogPageSize int `toml:"log_page_size"`

	// MaxBlobLines caps rendered blob pages; longer files are truncated
	// with a visible notice. The raw copy is always complete.
	MaxBlobLines int `toml:"max_blob_lines"`

	// MaxDiffLines caps rendered hunk lines per commit page.
	MaxDiffLines int `toml:"max_diff_lines"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Title:        "repositories",
		LogPageSize:  50,
		MaxBlobLines: 5000,
		MaxDiffLines: 3000,
	}
}

// LoadConfig reads a TOML config file and applies defaults for anything the
// file leaves unset.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.StoreDir == "" {
		return fmt.Errorf("config: store_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("config: output_dir is required")
	}
	if c.PrivateOutputDir == "" {
		c.PrivateOutputDir = filepath.Join(c.OutputDir, "private")
	}
	if c.PrivateStoreDir == "" {
		c.PrivateStoreDir = filepath.Join(c.StoreDir, "private")
	}
	if c.LogPageSize <= 0 {
		return fmt.Errorf("config: log_page_size must be positive")
	}
	if c.MaxBlobLines <= 0 {
		return fmt.Errorf("config: max_blob_lines must be positive")
	}
	if c.MaxDiffLines <= 0 {
		return fmt.Errorf("config: max_diff_lines must be positive")
	}
	return nil
}

// StoreRoot picks the repository store by visibility.
func (c *Config) StoreRoot(private bool) string {
	if private {
		return c.PrivateStoreDir
	}
	return c.StoreDir
}

// OutputRoot picks the output root for a repository by visibility.
func (c *Config) OutputRoot(private bool) string {
	if private {
		return c.PrivateOutputDir
	}
	return c.OutputDir
}

// RepoCloneURL builds the clone URL for a repository, or "" when no base is
// configured.
func (c *Config) RepoCloneURL(name string) string {
	if c.CloneURL == "" {
		return ""
	}
	return strings.TrimRight(c.CloneURL, "/") + "/" + name
}

// ExpandPath resolves ~ and relative paths against the current directory.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(path)
}
