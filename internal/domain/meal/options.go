package meal

import "time"

// ListOptions filters meal listings. Zero bounds are open.
type ListOptions struct {
	From      time.Time
	To        time.Time
	Ascending bool
	Limit     int
}
