// Package secretslens implements the supplemented Security subsystem
// (see SPEC_FULL.md, resolved Open Question #1: security is a 9th,
// independent Genome section). It scans file content for common
// hard-coded-secret shapes, grounded on
// original_source/repogenome/subsystems/security.py's pattern-based
// scanning approach, translated into Go regular expressions rather than
// an external secret-scanning SDK (none is present anywhere in the
// retrieval pack; a small closed pattern set is the correct scope here
// since Non-goals exclude a general vulnerability scanner).
package secretslens

import (
	"regexp"

	"repogenome/internal/genome"
)

// finding pairs a compiled pattern with the label reported for a match.
type finding struct {
	label   string
	pattern *regexp.Regexp
	weight  float64
}

var findings = []finding{
	{"hard-coded AWS access key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`), 0.9},
	{"hard-coded private key block", regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`), 1.0},
	{"hard-coded generic API key assignment", regexp.MustCompile(`(?i)(api[_-]?key|secret|token)\s*[:=]\s*["'][A-Za-z0-9_\-]{16,}["']`), 0.6},
	{"hard-coded password assignment", regexp.MustCompile(`(?i)password\s*[:=]\s*["'][^"']{4,}["']`), 0.5},
}

// Scan inspects a single file's content and returns a Security entry if
// any pattern matched, or ok=false if the file is clean.
func Scan(content []byte) (genome.Security, bool) {
	text := string(content)
	var labels []string
	var severity float64
	for _, f := range findings {
		if f.pattern.Match([]byte(text)) {
			labels = append(labels, f.label)
			if f.weight > severity {
				severity = f.weight
			}
		}
	}
	if len(labels) == 0 {
		return genome.Security{}, false
	}
	return genome.Security{Severity: severity, Findings: labels}, true
}
