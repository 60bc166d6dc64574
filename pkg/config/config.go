// Package config loads the optional .licenserc descriptor that customizes
// the allowed-license list. Every failure mode (missing file, bad syntax,
// wrong shape) falls back to the built-in defaults; loading never fails.
package config

import (
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/licensegate/pkg/logger"
)

// DefaultConfigFile is consulted in the working directory when no explicit
// path is given.
const DefaultConfigFile = ".licenserc.json"

// DefaultAllowedLicenses is the built-in allowlist used whenever no custom
// list is configured. A configured list fully replaces it; the two are
// never merged.
var DefaultAllowedLicenses = []string{
	"MIT",
	"Apache-2.0",
	"BSD-2-Clause",
	"BSD-3-Clause",
	"ISC",
	"0BSD",
	"CC0-1.0",
	"Python-2.0",
	"Unlicense",
}

// Config holds the compliance configuration. ExcludedPackages and Notes are
// accepted in the schema but not enforced at runtime; they are reserved for
// future use.
type Config struct {
	AllowedLicenses  []string          `mapstructure:"allowedLicenses" json:"allowedLicenses"`
	ExcludedPackages []string          `mapstructure:"excludedPackages" json:"excludedPackages,omitempty"`
	Notes            map[string]string `mapstructure:"notes" json:"notes,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	allowed := make([]string, len(DefaultAllowedLicenses))
	copy(allowed, DefaultAllowedLicenses)
	return &Config{AllowedLicenses: allowed}
}

// Load reads the descriptor at path (DefaultConfigFile when path is empty)
// and returns the resulting configuration. Any read, parse, or shape error
// degrades to Default; Load never returns an error.
func Load(path string) *Config {
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied config path
	if err != nil {
		logger.Debug("no license config found, using built-in allowlist", logger.String("path", path))
		return Default()
	}

	doc, ok := decodeDocument(data)
	if !ok {
		logger.Warn("license config is not valid JSON/YAML, using built-in allowlist", logger.String("path", path))
		return Default()
	}
	if !validateDocument(doc) {
		logger.Warn("license config does not match schema, using built-in allowlist", logger.String("path", path))
		return Default()
	}

	// Decode the normalized document directly so map keys keep their
	// case; the notes mapping is keyed by license identifier.
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &cfg})
	if err != nil {
		return Default()
	}
	if err := decoder.Decode(doc); err != nil {
		logger.Warn("license config could not be decoded, using built-in allowlist", logger.String("path", path))
		return Default()
	}
	// A present allowedLicenses key replaces the defaults verbatim, even
	// when empty. An absent key keeps them.
	if _, present := doc["allowedLicenses"]; !present {
		cfg.AllowedLicenses = Default().AllowedLicenses
	} else if cfg.AllowedLicenses == nil {
		cfg.AllowedLicenses = []string{}
	}
	return &cfg
}

// decodeDocument parses data into a generic document for schema validation
// and decoding. JSON is a YAML subset, so one decoder covers both config
// variants.
func decodeDocument(data []byte) (map[string]interface{}, bool) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, false
	}
	// Scalar or sequence top levels are structurally wrong for a config.
	root, ok := normalizeKeys(doc).(map[string]interface{})
	if !ok {
		return nil, false
	}
	return root, true
}

// normalizeKeys converts yaml.v3 map[interface{}]interface{} nodes into
// map[string]interface{} so gojsonschema can walk them.
func normalizeKeys(doc interface{}) interface{} {
	switch node := doc.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(node))
		for k, v := range node {
			if key, ok := k.(string); ok {
				out[key] = normalizeKeys(v)
			}
		}
		return out
	case map[string]interface{}:
		for k, v := range node {
			node[k] = normalizeKeys(v)
		}
		return node
	case []interface{}:
		for i, v := range node {
			node[i] = normalizeKeys(v)
		}
		return node
	default:
		return doc
	}
}

func validateDocument(doc interface{}) bool {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return false
	}
	return result.Valid()
}
