package models

// MediaType represents the kind of catalog entry (movie or TV show)
type MediaType string

const (
	MediaTypeMovie MediaType = "Movie"
	MediaTypeTV    MediaType = "TV Show"
)

// Valid reports whether the type is one of the two recognized tags
func (t MediaType) Valid() bool {
	return t == MediaTypeMovie || t == MediaTypeTV
}

// TypeFilterAll is the type filter value that matches every record
const TypeFilterAll = "all"
