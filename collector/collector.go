// Package collector turns React source files into the per-component IR
// consumed by the statemap engine. Parsing uses the tree-sitter javascript
// grammar, which also covers JSX; file access goes through viant/afs so
// sources may live on any supported file system. Collection is best-effort:
// a file that cannot be read or parsed becomes a per-file error, never a
// failed run.
package collector

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/olafglad/react-state-map-sub000/ir"
	"github.com/olafglad/react-state-map-sub000/statemap"
)

// Config controls which files are collected. Patterns are matched against
// the path relative to the collection root using filepath.Match per path
// segment suffix.
type Config struct {
	Include   []string
	Exclude   []string
	SkipTests bool
}

// DefaultConfig collects .jsx and .tsx sources and skips the usual build and
// dependency directories.
func DefaultConfig() *Config {
	return &Config{
		Include: []string{"*.jsx", "*.tsx"},
		Exclude: []string{
			"node_modules", ".git", "dist", "build", ".next", "coverage",
		},
		SkipTests: true,
	}
}

// Collector extracts ir.Component records from source trees.
type Collector struct {
	config *Config
	fs     afs.Service
}

// New creates a Collector with the provided configuration; nil falls back to
// DefaultConfig.
func New(config *Config) *Collector {
	if config == nil {
		config = DefaultConfig()
	}
	return &Collector{config: config, fs: afs.New()}
}

// Collect walks root, collects every matching file and returns the records
// merged in file-path-sorted order so downstream id minting stays
// deterministic, together with the per-file failures.
func (c *Collector) Collect(ctx context.Context, root string) ([]*ir.Component, []*statemap.FileError, error) {
	var paths []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			if c.excluded(info.Name()) {
				return false, nil
			}
			return true, nil
		}
		if c.matches(info.Name()) {
			paths = append(paths, url.Join(baseURL, path.Join(parent, info.Name())))
		}
		return true, nil
	}
	if err := c.fs.Walk(ctx, root, visitor); err != nil {
		return nil, nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(paths)

	var components []*ir.Component
	var failures []*statemap.FileError
	for _, path := range paths {
		collected, err := c.CollectFile(ctx, path)
		if err != nil {
			failures = append(failures, &statemap.FileError{FilePath: path, Message: err.Error()})
			continue
		}
		components = append(components, collected...)
	}
	return components, failures, nil
}

// CollectFile reads and collects a single source file.
func (c *Collector) CollectFile(ctx context.Context, path string) ([]*ir.Component, error) {
	src, err := c.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return c.CollectSource(ctx, src, path)
}

// CollectSource parses source bytes and extracts zero or more component
// records. The path is recorded on every component for diagnostics.
func (c *Collector) CollectSource(ctx context.Context, src []byte, path string) ([]*ir.Component, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return extractComponents(tree.RootNode(), src, path), nil
}

func (c *Collector) excluded(name string) bool {
	for _, pattern := range c.config.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok || pattern == name {
			return true
		}
	}
	return false
}

func (c *Collector) matches(name string) bool {
	if c.excluded(name) {
		return false
	}
	if c.config.SkipTests && (strings.Contains(name, ".test.") || strings.Contains(name, ".spec.")) {
		return false
	}
	for _, pattern := range c.config.Include {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
