package workout

import "time"

// ListOptions filters workout listings. Zero bounds are open.
type ListOptions struct {
	From      time.Time
	To        time.Time
	Ascending bool
	Limit     int
}
