package api

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/kinogram/kino/source"
)

type watchRequest struct {
	Progress  int    `json:"progress"`
	SessionID string `json:"session_id,omitempty"`
}

// movieDetail is the subset of the backend movie representation the player needs.
type movieDetail struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Description   string  `json:"description"`
	Year          int     `json:"year"`
	Duration      int     `json:"duration"`
	OurRating     decimal `json:"our_rating"`
	IMDbRating    decimal `json:"imdb_rating"`
	PosterURL     string  `json:"poster_url"`
	AgeRating     string  `json:"age_rating"`
}

func (d movieDetail) movie() source.Movie {
	rating := float64(d.OurRating)
	if rating == 0 {
		rating = float64(d.IMDbRating)
	}

	return source.Movie{
		ID:            d.ID,
		Title:         d.Title,
		OriginalTitle: d.OriginalTitle,
		Description:   d.Description,
		Year:          d.Year,
		Duration:      d.Duration,
		Rating:        rating,
		PosterURL:     d.PosterURL,
		AgeRating:     d.AgeRating,
	}
}

// decimal accepts both JSON numbers and the quoted decimals the backend serializes.
type decimal float64

func (d *decimal) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = 0
		return nil
	}

	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("decimal %q: %w", b, err)
	}
	*d = decimal(v)
	return nil
}
