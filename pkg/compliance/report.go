// Package compliance classifies resolved package licenses against an
// allowlist plus a fixed copyleft denylist and aggregates the outcome
// into a report.
package compliance

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// UnknownLicense is the sentinel recorded when an installed package
// declares no license.
const UnknownLicense = "UNKNOWN"

// UnknownVersion is the sentinel recorded when an installed package
// declares no version.
const UnknownVersion = "UNKNOWN"

// Package holds the license metadata resolved for one installed package.
type Package struct {
	License string `json:"license" yaml:"license"`
	Version string `json:"version" yaml:"version"`
}

// Violation identifies one package whose license failed the allow check.
type Violation struct {
	Package string `json:"package"`
	License string `json:"license" yaml:"license"`
	Version string `json:"version" yaml:"version"`
}

// Summary carries the aggregate counts for a report.
// Invariant: Total == Allowed + Violations.
type Summary struct {
	Total      int `json:"total" yaml:"total"`
	Allowed    int `json:"allowed" yaml:"allowed"`
	Violations int `json:"violations" yaml:"violations"`
}

// Report is the immutable result of one compliance evaluation.
// Licenses and Violations preserve the insertion order of the package set.
type Report struct {
	Summary         Summary     `json:"summary" yaml:"summary"`
	AllowedLicenses []string    `json:"allowedLicenses" yaml:"allowedLicenses"`
	Licenses        *PackageSet `json:"licenses" yaml:"licenses"`
	Violations      []Violation `json:"violations" yaml:"violations"`
}

// PackageSet is an insertion-ordered mapping of "name@version" keys to
// resolved packages. Re-setting an existing key overwrites the value but
// keeps the key's original position, matching the semantics of merging
// per-workspace results into one shared mapping.
type PackageSet struct {
	keys     []string
	packages map[string]Package
}

// NewPackageSet returns an empty set.
func NewPackageSet() *PackageSet {
	return &PackageSet{packages: make(map[string]Package)}
}

// Set records pkg under key. Last writer wins; the first insertion
// determines iteration position.
func (s *PackageSet) Set(key string, pkg Package) {
	if _, ok := s.packages[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.packages[key] = pkg
}

// Get returns the package stored under key.
func (s *PackageSet) Get(key string) (Package, bool) {
	pkg, ok := s.packages[key]
	return pkg, ok
}

// Len returns the number of distinct keys.
func (s *PackageSet) Len() int {
	return len(s.keys)
}

// Keys returns the keys in insertion order.
func (s *PackageSet) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Merge folds other into s, preserving s's existing key positions.
func (s *PackageSet) Merge(other *PackageSet) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		s.Set(key, other.packages[key])
	}
}

// Clone returns an independent copy of the set.
func (s *PackageSet) Clone() *PackageSet {
	out := NewPackageSet()
	for _, key := range s.keys {
		out.Set(key, s.packages[key])
	}
	return out
}

// MarshalJSON renders the set as a JSON object whose keys appear in
// insertion order.
func (s *PackageSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.packages[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML renders the set as a mapping node so key order survives the
// YAML output format as well.
func (s *PackageSet) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range s.keys {
		keyNode := &yaml.Node{}
		keyNode.SetString(key)
		valNode := &yaml.Node{}
		if err := valNode.Encode(s.packages[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}
