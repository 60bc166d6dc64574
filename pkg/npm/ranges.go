package npm

import (
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// RangeAdvisory flags a dependency whose installed version does not satisfy
// the range its workspace declared. Advisories are informational and never
// affect compliance classification.
type RangeAdvisory struct {
	Workspace string `json:"workspace"`
	Package   string `json:"package"`
	Declared  string `json:"declared"`
	Installed string `json:"installed"`
}

// RangeMismatches compares each declared dependency range of the workspace
// against the installed version. Ranges that are not semver constraints
// (tags, git URLs, workspace: protocol) are skipped, as is anything the
// resolver would skip.
func RangeMismatches(workspaceDir string) []RangeAdvisory {
	manifest, ok := ReadManifest(filepath.Join(workspaceDir, ManifestFile))
	if !ok {
		return nil
	}

	var advisories []RangeAdvisory
	for _, name := range manifest.DependencyNames() {
		declared := manifest.Dependencies[name]
		constraint, err := semver.NewConstraint(normalizeRange(declared))
		if err != nil {
			continue
		}
		installed, ok := readInstalled(workspaceDir, name)
		if !ok || installed.Version == "" {
			continue
		}
		version, err := semver.NewVersion(installed.Version)
		if err != nil {
			continue
		}
		if !constraint.Check(version) {
			advisories = append(advisories, RangeAdvisory{
				Workspace: workspaceDir,
				Package:   name,
				Declared:  declared,
				Installed: installed.Version,
			})
		}
	}
	return advisories
}

// normalizeRange strips npm range syntax that Masterminds/semver does not
// understand but whose remainder is still a valid constraint.
func normalizeRange(r string) string {
	r = strings.TrimSpace(r)
	switch r {
	case "", "*", "latest":
		return "*"
	}
	return r
}
