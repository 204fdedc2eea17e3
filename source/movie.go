package source

import "fmt"

// Movie is the informational record of a catalog item.
// The authoritative duration comes from the media element once loaded.
type Movie struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title,omitempty"`
	Description   string  `json:"description,omitempty"`
	Year          int     `json:"year,omitempty"`
	Duration      int     `json:"duration,omitempty"` // minutes
	Rating        float64 `json:"rating,omitempty"`
	PosterURL     string  `json:"poster_url,omitempty"`
	AgeRating     string  `json:"age_rating,omitempty"`
}

// DurationHint returns the catalog duration in seconds, or 0 if unknown.
func (m Movie) DurationHint() float64 {
	return float64(m.Duration * 60)
}

// String returns the title with the release year when known.
func (m Movie) String() string {
	if m.Year > 0 {
		return fmt.Sprintf("%s (%d)", m.Title, m.Year)
	}
	return m.Title
}
