// Package validation provides input validation utilities.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a human-readable name: lowercase,
// non-alphanumeric runs collapsed to a single hyphen, leading/trailing
// hyphens trimmed.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = nonAlnumRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// WithSuffix returns the nth probe candidate for a base slug: the bare
// candidate for n == 0, then "base-1", "base-2", ...
func WithSuffix(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

var reservedSlugs = map[string]struct{}{
	"admin":    {},
	"api":      {},
	"auth":     {},
	"bio":      {},
	"pay":      {},
	"store":    {},
	"stores":   {},
	"checkout": {},
	"payments": {},
	"settings": {},
	"swagger":  {},
	"metrics":  {},
	"health":   {},
	"signin":   {},
	"signup":   {},
}

// ValidateSlug checks slug format and reserved names for user-supplied slugs.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug must not be empty")
	}
	if len(slug) > 64 {
		return fmt.Errorf("slug must not exceed 64 characters")
	}
	if Slugify(slug) != slug {
		return fmt.Errorf("slug may contain only lowercase letters, numbers, and single hyphens")
	}
	if _, exists := reservedSlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}
	return nil
}
