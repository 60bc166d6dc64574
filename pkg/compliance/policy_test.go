package compliance

import (
	"testing"
)

func TestIsAllowed(t *testing.T) {
	defaultList := []string{"MIT", "Apache-2.0", "BSD-3-Clause", "ISC"}

	tests := []struct {
		name     string
		license  string
		allowed  []string
		expected bool
	}{
		{
			name:     "exact match",
			license:  "Apache-2.0",
			allowed:  defaultList,
			expected: true,
		},
		{
			name:     "case-insensitive match",
			license:  "apache-2.0",
			allowed:  defaultList,
			expected: true,
		},
		{
			name:     "compound expression matches on substring",
			license:  "MIT OR Apache-2.0",
			allowed:  []string{"Apache-2.0"},
			expected: true,
		},
		{
			name:     "empty license",
			license:  "",
			allowed:  defaultList,
			expected: false,
		},
		{
			name:     "unknown sentinel",
			license:  "UNKNOWN",
			allowed:  defaultList,
			expected: false,
		},
		{
			name:     "not in allowlist",
			license:  "WTFPL",
			allowed:  defaultList,
			expected: false,
		},
		{
			name:     "prohibited even when allowlisted",
			license:  "GPL-3.0",
			allowed:  []string{"GPL-3.0"},
			expected: false,
		},
		{
			name:     "prohibited beats compound allow",
			license:  "MIT OR GPL-2.0",
			allowed:  defaultList,
			expected: false,
		},
		{
			name:     "lowercase copyleft marker",
			license:  "Custom copyleft license",
			allowed:  []string{"Custom copyleft license"},
			expected: false,
		},
		{
			name:     "empty allowlist rejects everything",
			license:  "MIT",
			allowed:  []string{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAllowed(tt.license, tt.allowed); got != tt.expected {
				t.Errorf("IsAllowed(%q, %v) = %v, want %v", tt.license, tt.allowed, got, tt.expected)
			}
		})
	}
}

func TestIsProhibited(t *testing.T) {
	tests := []struct {
		license  string
		expected bool
	}{
		{"GPL-3.0", true},
		{"gpl-2.0", true},
		{"LGPL-2.1", true},
		{"AGPL-3.0-only", true},
		{"SSPL-1.0", true},
		{"BUSL-1.1", true},
		{"Strong Copyleft", true},
		{"MIT", false},
		{"Apache-2.0", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsProhibited(tt.license); got != tt.expected {
			t.Errorf("IsProhibited(%q) = %v, want %v", tt.license, got, tt.expected)
		}
	}
}
