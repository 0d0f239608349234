package recipe

import "time"

// Accepted star range for an app rating.
const (
	// MinRating is the lowest accepted rating.
	MinRating = 1
	// MaxRating is the highest accepted rating.
	MaxRating = 5
)

// Rating is one entry in the global app ratings log.
type Rating struct {
	User      string `json:"user"`
	Rating    int    `json:"rating"`
	Timestamp string `json:"timestamp"`
}

// NewRating builds a rating record stamped with at in ISO-8601 UTC.
func NewRating(user string, value int, at time.Time) (Rating, error) {
	if value < MinRating || value > MaxRating {
		return Rating{}, ErrInvalidRating
	}
	return Rating{
		User:      user,
		Rating:    value,
		Timestamp: at.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}, nil
}
