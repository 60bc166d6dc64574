// Package ignore provides gitignore-based pruning for workspace discovery
// using go-git's gitignore support.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// DefaultIgnoreFile is the repo-level override file consulted by NewMatcher.
const DefaultIgnoreFile = ".licensegateignore"

// Matcher prunes discovery subtrees based on layered ignore patterns.
type Matcher struct {
	matcher gitignore.Matcher
}

// NewMatcher builds a matcher rooted at root with layered patterns:
// 1. standard git ignore files (.gitignore, .git/info/exclude) when
//    useGitignore is set
// 2. the repo-level ignoreFile (DefaultIgnoreFile when empty)
// A missing ignore file is not an error; the corresponding layer is empty.
func NewMatcher(root string, ignoreFile string, useGitignore bool) *Matcher {
	var patterns []gitignore.Pattern

	if useGitignore {
		fs := osfs.New(root)
		if gitPatterns, err := gitignore.ReadPatterns(fs, nil); err == nil {
			patterns = append(patterns, gitPatterns...)
		}
	}

	if ignoreFile == "" {
		ignoreFile = DefaultIgnoreFile
	}
	for _, line := range readIgnoreFile(filepath.Join(root, ignoreFile)) {
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}

	return &Matcher{matcher: gitignore.NewMatcher(patterns)}
}

// Ignored reports whether the root-relative path should be pruned.
func (m *Matcher) Ignored(relPath string, isDir bool) bool {
	if m == nil || m.matcher == nil {
		return false
	}
	return m.matcher.Match(strings.Split(filepath.ToSlash(relPath), "/"), isDir)
}

// readIgnoreFile returns the non-comment, non-blank pattern lines of path.
func readIgnoreFile(path string) []string {
	file, err := os.Open(path) // #nosec G304 -- path is rooted at the scan root
	if err != nil {
		return nil
	}
	defer func() { _ = file.Close() }()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}
