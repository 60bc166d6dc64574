package scan

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/licensegate/pkg/compliance"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// addWorkspace creates a workspace with one installed dependency.
func addWorkspace(t *testing.T, root, wsRel, depName, depManifest string) {
	t.Helper()
	ws := filepath.Join(root, filepath.FromSlash(wsRel))
	writeFile(t, filepath.Join(ws, "package.json"),
		`{"name": "`+wsRel+`", "dependencies": {"`+depName+`": "^1.0.0"}}`)
	writeFile(t, filepath.Join(ws, "node_modules", depName, "package.json"), depManifest)
}

func TestRunAllowedDependency(t *testing.T) {
	root := t.TempDir()
	addWorkspace(t, root, "apps/app1", "mit-pkg", `{"license": "MIT", "version": "1.0.0"}`)

	result, err := Run(context.Background(), Options{Root: root})
	require.NoError(t, err)

	assert.Equal(t, compliance.Summary{Total: 1, Allowed: 1, Violations: 0}, result.Report.Summary)
	assert.Empty(t, result.Report.Violations)
	assert.Len(t, result.Workspaces, 1)
}

func TestRunProhibitedDependency(t *testing.T) {
	root := t.TempDir()
	addWorkspace(t, root, "apps/app1", "gpl-pkg", `{"license": "GPL-3.0", "version": "1.0.0"}`)

	result, err := Run(context.Background(), Options{Root: root})
	require.NoError(t, err)

	assert.Equal(t, compliance.Summary{Total: 1, Allowed: 0, Violations: 1}, result.Report.Summary)
	require.Len(t, result.Report.Violations, 1)
	assert.Equal(t, compliance.Violation{
		Package: "gpl-pkg@1.0.0",
		License: "GPL-3.0",
		Version: "1.0.0",
	}, result.Report.Violations[0])
}

func TestRunMissingLicenseFieldIsViolation(t *testing.T) {
	root := t.TempDir()
	addWorkspace(t, root, "apps/app1", "mystery-pkg", `{"version": "2.0.0"}`)

	result, err := Run(context.Background(), Options{Root: root})
	require.NoError(t, err)

	require.Len(t, result.Report.Violations, 1)
	assert.Equal(t, compliance.UnknownLicense, result.Report.Violations[0].License)
}

func TestRunDeduplicatesAcrossWorkspaces(t *testing.T) {
	root := t.TempDir()
	shared := `{"license": "MIT", "version": "3.0.0"}`
	addWorkspace(t, root, "apps/app1", "shared-pkg", shared)
	addWorkspace(t, root, "apps/app2", "shared-pkg", shared)

	result, err := Run(context.Background(), Options{Root: root})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Report.Summary.Total, "same name@version counts once")
	assert.Len(t, result.Workspaces, 2)
}

func TestRunCustomAllowlistOverridesDefaults(t *testing.T) {
	root := t.TempDir()
	addWorkspace(t, root, "apps/app1", "apache-pkg", `{"license": "Apache-2.0", "version": "1.0.0"}`)
	configPath := filepath.Join(root, ".licenserc.json")
	writeFile(t, configPath, `{"allowedLicenses": ["MIT"]}`)

	result, err := Run(context.Background(), Options{Root: root, ConfigPath: configPath})
	require.NoError(t, err)

	assert.Equal(t, compliance.Summary{Total: 1, Allowed: 0, Violations: 1}, result.Report.Summary)
	assert.Equal(t, []string{"MIT"}, result.Report.AllowedLicenses)
}

func TestRunNeverDiscoversInsideNodeModules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "package.json"), `{"name": "pkg"}`)

	result, err := Run(context.Background(), Options{Root: root})
	require.NoError(t, err)
	assert.Empty(t, result.Workspaces)
	assert.Equal(t, 0, result.Report.Summary.Total)
}

func TestRunIsIdempotent(t *testing.T) {
	root := t.TempDir()
	addWorkspace(t, root, "apps/app1", "mit-pkg", `{"license": "MIT", "version": "1.0.0"}`)
	addWorkspace(t, root, "apps/app2", "gpl-pkg", `{"license": "GPL-2.0", "version": "2.0.0"}`)

	first, err := Run(context.Background(), Options{Root: root})
	require.NoError(t, err)
	second, err := Run(context.Background(), Options{Root: root})
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first.Report)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second.Report)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestRunViolationOrderFollowsDiscoveryOrder(t *testing.T) {
	root := t.TempDir()
	// Workspaces discover lexically: app-a before app-b.
	addWorkspace(t, root, "apps/app-a", "first-bad", `{"license": "GPL-3.0", "version": "1.0.0"}`)
	addWorkspace(t, root, "apps/app-b", "second-bad", `{"license": "SSPL-1.0", "version": "2.0.0"}`)

	result, err := Run(context.Background(), Options{Root: root, Concurrency: 4})
	require.NoError(t, err)

	require.Len(t, result.Report.Violations, 2)
	assert.Equal(t, "first-bad@1.0.0", result.Report.Violations[0].Package)
	assert.Equal(t, "second-bad@2.0.0", result.Report.Violations[1].Package)
}

func TestRunRangeAdvisories(t *testing.T) {
	root := t.TempDir()
	ws := filepath.Join(root, "apps", "app1")
	writeFile(t, filepath.Join(ws, "package.json"),
		`{"dependencies": {"stale-pkg": "^2.0.0"}}`)
	writeFile(t, filepath.Join(ws, "node_modules", "stale-pkg", "package.json"),
		`{"license": "MIT", "version": "1.0.0"}`)

	result, err := Run(context.Background(), Options{Root: root, CheckRanges: true})
	require.NoError(t, err)
	require.Len(t, result.RangeAdvisories, 1)
	assert.Equal(t, "stale-pkg", result.RangeAdvisories[0].Package)
}

func TestRunCancelledContext(t *testing.T) {
	root := t.TempDir()
	addWorkspace(t, root, "apps/app1", "mit-pkg", `{"license": "MIT", "version": "1.0.0"}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Options{Root: root})
	assert.ErrorIs(t, err, context.Canceled)
}
