// Package team provides canonical team identifiers for prephoops.
//
// Bracket pages render the same school under many spellings ("Almond-Bancroft",
// "Almond Bancroft H.S.", "ALMOND-BANCROFT HIGH SCHOOL"). The team package folds
// these variants into a stable, source-namespaced identifier so that games
// scraped from different pages of the same source key to the same team.
package team

import (
	"regexp"
	"strings"
)

var (
	// Trailing school-type suffixes that vary between renderings of the
	// same school name.
	suffixPattern = regexp.MustCompile(`(?i)\s+(high school|sr\.? high|jr\.?/sr\.? high|h\.?s\.?|hs)$`)

	nonSlugPattern    = regexp.MustCompile(`[^a-z0-9]+`)
	edgeDashesPattern = regexp.MustCompile(`^-+|-+$`)
)

// CanonicalID maps a raw team display name to a stable identifier namespaced
// by source (e.g. "wiaa:almond-bancroft"). It is deterministic and idempotent:
// feeding a previously produced slug back in yields the same slug.
func CanonicalID(namespace, rawName string) string {
	return namespace + ":" + Slug(rawName)
}

// Slug normalizes a display name to a lowercase hyphenated token.
// School-type suffixes are dropped, punctuation is folded to hyphens,
// and runs of separators collapse to a single hyphen.
func Slug(rawName string) string {
	name := strings.TrimSpace(rawName)
	name = suffixPattern.ReplaceAllString(name, "")
	name = strings.ToLower(name)

	name = nonSlugPattern.ReplaceAllString(name, "-")
	name = edgeDashesPattern.ReplaceAllString(name, "")

	if name == "" {
		return "unknown"
	}
	return name
}
