package npm

import (
	"path/filepath"

	"github.com/fulmenhq/licensegate/pkg/compliance"
)

// ResolveLicenses reads the workspace descriptor at workspaceDir and
// resolves each declared production dependency to the license and version
// of its installed copy. Keys are "name@version", with the version taken
// from the installed descriptor rather than the requested range.
//
// A missing or unparsable workspace descriptor yields an empty set. A
// dependency whose installed descriptor cannot be located, read, or parsed
// is skipped; the remaining dependencies still resolve. ResolveLicenses
// never fails.
//
// Installation location is resolved per workspace rather than globally:
// hoisting package managers may physically store a dependency elsewhere
// and symlink it into the local node_modules, so the expected path is
// canonicalized before reading.
func ResolveLicenses(workspaceDir string) *compliance.PackageSet {
	set := compliance.NewPackageSet()

	manifest, ok := ReadManifest(filepath.Join(workspaceDir, ManifestFile))
	if !ok {
		return set
	}

	for _, name := range manifest.DependencyNames() {
		installed, ok := readInstalled(workspaceDir, name)
		if !ok {
			continue
		}
		license := installed.LicenseString()
		if license == "" {
			license = compliance.UnknownLicense
		}
		version := installed.Version
		if version == "" {
			version = compliance.UnknownVersion
		}
		set.Set(name+"@"+version, compliance.Package{
			License: license,
			Version: version,
		})
	}
	return set
}

// readInstalled locates the installed descriptor for a dependency of the
// workspace, following symlinks to the physical install location.
func readInstalled(workspaceDir, name string) (*Manifest, bool) {
	descriptor := filepath.Join(workspaceDir, nodeModulesDir, name, ManifestFile)
	resolved, err := filepath.EvalSymlinks(descriptor)
	if err != nil {
		return nil, false
	}
	return ReadManifest(resolved)
}
