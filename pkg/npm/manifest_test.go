package npm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadManifestMissingOrMalformed(t *testing.T) {
	_, ok := ReadManifest(filepath.Join(t.TempDir(), ManifestFile))
	assert.False(t, ok, "missing file")

	path := filepath.Join(t.TempDir(), ManifestFile)
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))
	_, ok = ReadManifest(path)
	assert.False(t, ok, "malformed file")
}

func TestDependencyNamesPreserveDeclarationOrder(t *testing.T) {
	manifest, ok := parseManifest([]byte(`{
		"name": "ws",
		"dependencies": {
			"zebra": "^1.0.0",
			"alpha": "~2.0.0",
			"middle": "3.0.0"
		},
		"devDependencies": {
			"eslint": "^9.0.0"
		}
	}`))
	require.True(t, ok)
	assert.Equal(t, []string{"zebra", "alpha", "middle"}, manifest.DependencyNames())
}

func TestDevDependenciesAreNotResolved(t *testing.T) {
	manifest, ok := parseManifest([]byte(`{"devDependencies": {"eslint": "^9.0.0"}}`))
	require.True(t, ok)
	assert.Empty(t, manifest.DependencyNames())
}

func TestLicenseFieldForms(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"plain string", `{"license": "MIT"}`, "MIT"},
		{"legacy object", `{"license": {"type": "Apache-2.0", "url": "https://example.com"}}`, "Apache-2.0"},
		{"absent", `{}`, ""},
		{"unusable shape", `{"license": 42}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manifest, ok := parseManifest([]byte(tt.body))
			require.True(t, ok)
			assert.Equal(t, tt.expected, manifest.LicenseString())
		})
	}
}

func TestOrderedKeysToleratesNestedValues(t *testing.T) {
	keys := orderedKeys([]byte(`{"a": {"x": [1, 2]}, "b": "v", "c": [{"y": true}]}`))
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}
