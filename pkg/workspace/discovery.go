// Package workspace discovers the sub-packages of a project tree: every
// directory below the root that carries its own package.json descriptor.
package workspace

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DescriptorFile marks a directory as a workspace.
const DescriptorFile = "package.json"

// excludedDirs are never descended into during discovery. Fixed, not
// configurable.
var excludedDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".turbo":       {},
	".next":        {},
	"dist":         {},
	"coverage":     {},
	"build":        {},
}

// IsExcludedDir reports whether a directory name belongs to the fixed
// exclusion set.
func IsExcludedDir(name string) bool {
	_, ok := excludedDirs[name]
	return ok
}

// Matcher prunes additional subtrees during discovery, typically backed by
// gitignore-style patterns.
type Matcher interface {
	Ignored(relPath string, isDir bool) bool
}

// Options tune discovery beyond the fixed exclusion set.
type Options struct {
	// ExcludeGlobs are doublestar patterns matched against root-relative
	// directory paths; a match prunes the whole subtree.
	ExcludeGlobs []string
	// Ignore, when non-nil, prunes directories the matcher reports as
	// ignored.
	Ignore Matcher
}

// Discover walks the tree under root and returns every directory holding a
// DescriptorFile, in depth-first lexical order. The root itself is never
// included, even when it has a descriptor. Unreadable subtrees are skipped
// silently; Discover never fails.
func Discover(root string) []string {
	return DiscoverWith(root, Options{})
}

// DiscoverWith is Discover with extra pruning options layered on top of the
// fixed exclusion set.
func DiscoverWith(root string, opts Options) []string {
	workspaces := []string{}
	walk(root, root, opts, &workspaces)
	return workspaces
}

func walk(root, dir string, opts Options, workspaces *[]string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Permission errors, races, broken paths: this subtree simply
		// contributes nothing.
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			if entry.Type().IsRegular() && entry.Name() == DescriptorFile && dir != root {
				*workspaces = append(*workspaces, dir)
			}
			continue
		}
		if IsExcludedDir(entry.Name()) {
			continue
		}
		child := filepath.Join(dir, entry.Name())
		if pruned(root, child, opts) {
			continue
		}
		walk(root, child, opts, workspaces)
	}
}

func pruned(root, dir string, opts Options) bool {
	if len(opts.ExcludeGlobs) == 0 && opts.Ignore == nil {
		return false
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, glob := range opts.ExcludeGlobs {
		if ok, err := doublestar.Match(glob, rel); err == nil && ok {
			return true
		}
	}
	if opts.Ignore != nil && opts.Ignore.Ignored(rel, true) {
		return true
	}
	return false
}
