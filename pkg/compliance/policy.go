package compliance

import (
	"regexp"
	"strings"
)

// prohibitedPatterns disqualify a license unconditionally, regardless of
// the allowlist. Not configurable.
var prohibitedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)GPL`),
	regexp.MustCompile(`(?i)LGPL`),
	regexp.MustCompile(`(?i)AGPL`),
	regexp.MustCompile(`(?i)SSPL`),
	regexp.MustCompile(`(?i)BUSL`),
	regexp.MustCompile(`(?i)Copyleft`),
}

// IsProhibited reports whether license matches any copyleft denylist pattern.
func IsProhibited(license string) bool {
	for _, pattern := range prohibitedPatterns {
		if pattern.MatchString(license) {
			return true
		}
	}
	return false
}

// IsAllowed reports whether license passes the compliance check against
// allowedLicenses. Prohibited patterns take precedence over the allowlist.
// Matching is case-insensitive substring containment, not exact SPDX
// identifier comparison: "MIT OR Apache-2.0" passes an allowlist holding
// either identifier.
func IsAllowed(license string, allowedLicenses []string) bool {
	if license == "" || license == UnknownLicense {
		return false
	}
	if IsProhibited(license) {
		return false
	}
	normalized := strings.ToUpper(license)
	for _, allowed := range allowedLicenses {
		if strings.Contains(normalized, strings.ToUpper(allowed)) {
			return true
		}
	}
	return false
}

// Evaluate classifies every package in set against allowedLicenses and
// returns the aggregated report. Pure computation: no failure mode.
func Evaluate(set *PackageSet, allowedLicenses []string) *Report {
	report := &Report{
		AllowedLicenses: allowedLicenses,
		Licenses:        NewPackageSet(),
		Violations:      []Violation{},
	}
	if set == nil {
		return report
	}

	report.Licenses = set.Clone()
	for _, key := range set.Keys() {
		pkg, _ := set.Get(key)
		if IsAllowed(pkg.License, allowedLicenses) {
			report.Summary.Allowed++
			continue
		}
		report.Summary.Violations++
		report.Violations = append(report.Violations, Violation{
			Package: key,
			License: pkg.License,
			Version: pkg.Version,
		})
	}
	report.Summary.Total = report.Summary.Allowed + report.Summary.Violations
	return report
}
