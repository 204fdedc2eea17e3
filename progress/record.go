package progress

import (
	"fmt"
	"time"

	"github.com/kinogram/kino/util"
)

// Record is the saved position of one media item on this device.
type Record struct {
	MediaID   string    `json:"media_id"`
	Title     string    `json:"title,omitempty"`
	Year      int       `json:"year,omitempty"`
	Position  float64   `json:"position"`
	Duration  float64   `json:"duration,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Percent returns how much of the media has been watched, from 0 to 100.
func (r *Record) Percent() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return util.Clamp(r.Position/r.Duration*100, 0, 100)
}

func (r *Record) String() string {
	title := r.Title
	if title == "" {
		title = "#" + r.MediaID
	} else if r.Year > 0 {
		title = fmt.Sprintf("%s (%d)", title, r.Year)
	}

	if r.Duration <= 0 {
		return fmt.Sprintf("%s : %s", title, util.FormatTime(r.Position))
	}
	return fmt.Sprintf("%s : %s / %s", title, util.FormatTime(r.Position), util.FormatTime(r.Duration))
}
