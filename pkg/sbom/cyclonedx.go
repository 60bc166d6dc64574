// Package sbom renders a resolved package set as a CycloneDX software bill
// of materials.
package sbom

import (
	"fmt"
	"strings"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"
	"github.com/package-url/packageurl-go"

	"github.com/fulmenhq/licensegate/pkg/buildinfo"
	"github.com/fulmenhq/licensegate/pkg/compliance"
)

// GenerateCycloneDX creates a CycloneDX 1.5 JSON BOM covering every package
// in set, in the set's insertion order. projectName names the root
// application component.
func GenerateCycloneDX(set *compliance.PackageSet, projectName string) ([]byte, error) {
	bom := cdx.NewBOM()
	bom.SerialNumber = "urn:uuid:" + uuid.New().String()
	bom.Version = 1

	bom.Metadata = &cdx.Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Tools: &cdx.ToolsChoice{
			Tools: &[]cdx.Tool{
				{
					Vendor:  "fulmenhq",
					Name:    "licensegate",
					Version: buildinfo.BinaryVersion,
				},
			},
		},
		Component: &cdx.Component{
			Type: cdx.ComponentTypeApplication,
			Name: projectName,
		},
	}

	components := make([]cdx.Component, 0, set.Len())
	for _, key := range set.Keys() {
		pkg, _ := set.Get(key)
		components = append(components, buildComponent(key, pkg))
	}
	bom.Components = &components

	var buf strings.Builder
	encoder := cdx.NewBOMEncoder(&buf, cdx.BOMFileFormatJSON)
	encoder.SetPretty(true)
	if err := encoder.Encode(bom); err != nil {
		return nil, fmt.Errorf("encode CycloneDX: %w", err)
	}
	return []byte(buf.String()), nil
}

func buildComponent(key string, pkg compliance.Package) cdx.Component {
	name := packageName(key, pkg.Version)

	component := cdx.Component{
		Type:       cdx.ComponentTypeLibrary,
		BOMRef:     key,
		Name:       name,
		Version:    pkg.Version,
		PackageURL: npmPURL(name, pkg.Version),
	}
	if pkg.License != "" && pkg.License != compliance.UnknownLicense {
		component.Licenses = &cdx.Licenses{
			{License: &cdx.License{Name: pkg.License}},
		}
	}
	return component
}

// packageName strips the "@version" suffix from a set key. Scoped names
// keep their leading "@scope/" prefix.
func packageName(key, version string) string {
	if version != "" && strings.HasSuffix(key, "@"+version) {
		return strings.TrimSuffix(key, "@"+version)
	}
	if idx := strings.LastIndex(key, "@"); idx > 0 {
		return key[:idx]
	}
	return key
}

func npmPURL(name, version string) string {
	namespace := ""
	if strings.HasPrefix(name, "@") {
		if idx := strings.Index(name, "/"); idx > 0 {
			namespace = name[:idx]
			name = name[idx+1:]
		}
	}
	if version == compliance.UnknownVersion {
		version = ""
	}
	return packageurl.NewPackageURL(packageurl.TypeNPM, namespace, name, version, nil, "").ToString()
}
