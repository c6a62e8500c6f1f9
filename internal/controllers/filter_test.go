package controllers

import (
	"reflect"
	"testing"

	"mediadeck/internal/models"
)

func sampleCache() []models.Media {
	return []models.Media{
		{ID: 1, Title: "Inception", Director: "Nolan", Type: models.MediaTypeMovie},
		{ID: 2, Title: "Breaking Bad", Director: "Gilligan", Type: models.MediaTypeTV},
		{ID: 3, Title: "Interstellar", Director: "Nolan", Type: models.MediaTypeMovie},
		{ID: 4, Title: "The Wire", Director: "Simon", Type: models.MediaTypeTV},
	}
}

func ids(list []models.Media) []int64 {
	out := make([]int64, 0, len(list))
	for _, m := range list {
		out = append(out, m.ID)
	}
	return out
}

func TestFilterMedia(t *testing.T) {
	cache := sampleCache()

	tests := []struct {
		name       string
		query      string
		typeFilter string
		want       []int64
	}{
		{"query matches title", "incep", "all", []int64{1}},
		{"type filter only", "", "TV Show", []int64{2, 4}},
		{"identity", "", "all", []int64{1, 2, 3, 4}},
		{"query is case-insensitive", "NOLAN", "all", []int64{1, 3}},
		{"query matches director", "gilligan", "all", []int64{2}},
		{"query is trimmed", "  incep  ", "all", []int64{1}},
		{"no match", "zzz", "all", []int64{}},
		{"predicates compose with AND", "incep", "TV Show", []int64{}},
		{"query and type together", "nolan", "Movie", []int64{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterMedia(cache, tt.query, tt.typeFilter))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterMedia(%q, %q) = %v, want %v", tt.query, tt.typeFilter, got, tt.want)
			}
		})
	}
}

func TestFilterMediaIdentity(t *testing.T) {
	cache := sampleCache()

	got := FilterMedia(cache, "", models.TypeFilterAll)
	if !reflect.DeepEqual(got, cache) {
		t.Errorf("identity filter changed the list: got %v", ids(got))
	}
}

func TestFilterMediaIsPure(t *testing.T) {
	cache := sampleCache()
	before := make([]models.Media, len(cache))
	copy(before, cache)

	first := FilterMedia(cache, "nolan", "Movie")
	second := FilterMedia(cache, "nolan", "Movie")

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated application with identical inputs differed")
	}
	if !reflect.DeepEqual(cache, before) {
		t.Error("filter mutated its input")
	}
}

func TestFilterMediaComposition(t *testing.T) {
	cache := sampleCache()

	combos := []struct {
		query      string
		typeFilter string
	}{
		{"nolan", "Movie"},
		{"the", "TV Show"},
		{"incep", "TV Show"},
		{"", "Movie"},
	}

	for _, combo := range combos {
		combined := FilterMedia(cache, combo.query, combo.typeFilter)

		byQuery := FilterMedia(cache, combo.query, models.TypeFilterAll)
		byType := FilterMedia(cache, "", combo.typeFilter)

		typeIDs := make(map[int64]bool)
		for _, m := range byType {
			typeIDs[m.ID] = true
		}
		intersection := make([]models.Media, 0)
		for _, m := range byQuery {
			if typeIDs[m.ID] {
				intersection = append(intersection, m)
			}
		}

		if !reflect.DeepEqual(combined, intersection) {
			t.Errorf("filter(%q, %q) = %v, want intersection %v",
				combo.query, combo.typeFilter, ids(combined), ids(intersection))
		}
	}
}

func TestFilterMediaStableOrder(t *testing.T) {
	// Cache order is server order; the reducer must not re-sort
	cache := []models.Media{
		{ID: 9, Title: "Zodiac", Director: "Fincher", Type: models.MediaTypeMovie},
		{ID: 3, Title: "Alien", Director: "Scott", Type: models.MediaTypeMovie},
		{ID: 7, Title: "Arrival", Director: "Villeneuve", Type: models.MediaTypeMovie},
	}

	got := ids(FilterMedia(cache, "", "Movie"))
	want := []int64{9, 3, 7}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order changed: got %v, want %v", got, want)
	}
}
