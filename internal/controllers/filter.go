package controllers

import (
	"strings"

	"mediadeck/internal/models"
)

// FilterMedia derives the visible subset of the cached collection. It is
// pure: it never fetches, never mutates its input and never re-sorts, so
// result order equals cache order.
//
// A non-empty trimmed query matches case-insensitively against title OR
// director; a type filter other than "all" requires type equality. Both
// predicates compose with AND.
func FilterMedia(list []models.Media, query, typeFilter string) []models.Media {
	filtered := make([]models.Media, 0, len(list))

	q := strings.ToLower(strings.TrimSpace(query))
	byType := typeFilter != "" && typeFilter != models.TypeFilterAll

	for _, m := range list {
		if q != "" {
			title := strings.ToLower(m.Title)
			director := strings.ToLower(m.Director)
			if !strings.Contains(title, q) && !strings.Contains(director, q) {
				continue
			}
		}

		if byType && string(m.Type) != typeFilter {
			continue
		}

		filtered = append(filtered, m)
	}

	return filtered
}
