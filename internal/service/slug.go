// Package service implements the business logic layer.
package service

import (
	"context"
	"strings"

	"vendio/internal/models"
	"vendio/internal/observability"
	"vendio/internal/validation"
)

// maxSlugProbes bounds the sequential search for a free slug. The unique
// index on the slug column is the real guarantee; the probe just makes the
// common case cheap.
const maxSlugProbes = 50

// maxSlugBaseLen leaves room under the slug length cap for a "-N" suffix.
const maxSlugBaseLen = 60

// allocateSlug derives a slug from name and probes taken() for the first
// free candidate: base, base-1, base-2, ... The entity label feeds the slug
// retry metric.
func allocateSlug(ctx context.Context, name, entity string, taken func(ctx context.Context, slug string) (bool, error)) (string, error) {
	base := validation.Slugify(name)
	if base == "" {
		return "", models.NewValidationError("Name must contain at least one letter or number")
	}
	if len(base) > maxSlugBaseLen {
		base = strings.Trim(base[:maxSlugBaseLen], "-")
	}

	for n := 0; n < maxSlugProbes; n++ {
		candidate := validation.WithSuffix(base, n)
		if err := validation.ValidateSlug(candidate); err != nil {
			// Reserved base; skip straight to suffixed candidates.
			continue
		}
		inUse, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			if n > 0 {
				observability.SlugRetries.WithLabelValues(entity).Inc()
			}
			return candidate, nil
		}
	}
	return "", models.NewConflictError("Could not allocate a unique slug")
}
