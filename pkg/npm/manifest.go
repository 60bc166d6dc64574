// Package npm reads package.json descriptors and resolves a workspace's
// direct production dependencies to the license metadata of their
// installed copies.
package npm

import (
	"bytes"
	"encoding/json"
	"os"
)

// ManifestFile is the npm package descriptor name.
const ManifestFile = "package.json"

// nodeModulesDir is where installed dependencies live, per workspace.
const nodeModulesDir = "node_modules"

// Manifest is the subset of package.json that license resolution needs.
// devDependencies are parsed but deliberately never resolved.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	License         licenseField      `json:"license"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`

	dependencyOrder []string
}

// licenseField tolerates the legacy object form {"type": "...", "url": ...}
// alongside the modern plain-string form. Anything else reads as empty.
type licenseField string

func (l *licenseField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = licenseField(s)
		return nil
	}
	var legacy struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &legacy); err == nil {
		*l = licenseField(legacy.Type)
		return nil
	}
	*l = ""
	return nil
}

// LicenseString returns the declared license identifier, or "" when absent.
func (m *Manifest) LicenseString() string {
	return string(m.License)
}

// DependencyNames returns the production dependency names in declaration
// order, as written in the descriptor.
func (m *Manifest) DependencyNames() []string {
	return m.dependencyOrder
}

// ReadManifest parses the descriptor at path. The second return value is
// false on any read or parse failure; callers treat that as "descriptor
// absent" and move on.
func ReadManifest(path string) (*Manifest, bool) {
	data, err := os.ReadFile(path) // #nosec G304 -- descriptor paths derive from the scan root
	if err != nil {
		return nil, false
	}
	return parseManifest(data)
}

func parseManifest(data []byte) (*Manifest, bool) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}

	// encoding/json maps drop declaration order; recover it with a token
	// scan so downstream reporting is deterministic.
	var raw struct {
		Dependencies json.RawMessage `json:"dependencies"`
	}
	if err := json.Unmarshal(data, &raw); err == nil && len(raw.Dependencies) > 0 {
		m.dependencyOrder = orderedKeys(raw.Dependencies)
	}
	return &m, true
}

// orderedKeys extracts the top-level keys of a JSON object in document order.
func orderedKeys(raw json.RawMessage) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return keys
		}
	}
	return keys
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); ok && (delim == '{' || delim == '[') {
		for dec.More() {
			if err := skipValue(dec); err != nil {
				return err
			}
		}
		_, err = dec.Token() // closing delim
		return err
	}
	return nil
}
