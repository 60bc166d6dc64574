package sbom

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/licensegate/pkg/compliance"
)

func TestGenerateCycloneDX(t *testing.T) {
	set := compliance.NewPackageSet()
	set.Set("mit-pkg@1.0.0", compliance.Package{License: "MIT", Version: "1.0.0"})
	set.Set("@scope/lib@2.3.4", compliance.Package{License: "Apache-2.0", Version: "2.3.4"})
	set.Set("mystery@0.1.0", compliance.Package{License: compliance.UnknownLicense, Version: "0.1.0"})

	data, err := GenerateCycloneDX(set, "monorepo")
	require.NoError(t, err)

	var bom struct {
		BOMFormat string `json:"bomFormat"`
		Metadata struct {
			Component struct {
				Name string `json:"name"`
			} `json:"component"`
		} `json:"metadata"`
		Components []struct {
			BOMRef     string `json:"bom-ref"`
			Name       string `json:"name"`
			Version    string `json:"version"`
			PackageURL string `json:"purl"`
			Licenses   []struct {
				License struct {
					Name string `json:"name"`
				} `json:"license"`
			} `json:"licenses"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(data, &bom))

	assert.Equal(t, "CycloneDX", bom.BOMFormat)
	assert.Equal(t, "monorepo", bom.Metadata.Component.Name)
	require.Len(t, bom.Components, 3)

	assert.Equal(t, "mit-pkg", bom.Components[0].Name)
	assert.Equal(t, "pkg:npm/mit-pkg@1.0.0", bom.Components[0].PackageURL)
	require.Len(t, bom.Components[0].Licenses, 1)
	assert.Equal(t, "MIT", bom.Components[0].Licenses[0].License.Name)

	assert.Equal(t, "@scope/lib", bom.Components[1].Name)
	assert.Equal(t, "2.3.4", bom.Components[1].Version)

	// Unknown licenses are omitted from the component rather than invented.
	assert.Empty(t, bom.Components[2].Licenses)
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		key      string
		version  string
		expected string
	}{
		{"mit-pkg@1.0.0", "1.0.0", "mit-pkg"},
		{"@scope/lib@2.3.4", "2.3.4", "@scope/lib"},
		{"odd@UNKNOWN", "UNKNOWN", "odd"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, packageName(tt.key, tt.version))
	}
}
