package domain

import "time"

// Subscription is a user's personal link to a feed
type Subscription struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	FeedID     int64     `json:"feed_id"`
	FeedURL    string    `json:"feed_url"`
	CategoryID *int64    `json:"category_id,omitempty"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
}

// SubscribeRequest describes a subscription to create, CategoryID 0 means uncategorized
type SubscribeRequest struct {
	UserID     string
	URL        string
	CategoryID int64
	Title      string
}

// Category is a user-owned grouping label for subscriptions
type Category struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ImportStatus is the outcome of one takeout entry
type ImportStatus string

// import entry outcomes
const (
	ImportCreated           ImportStatus = "created"
	ImportAlreadySubscribed ImportStatus = "already-subscribed"
	ImportSkippedNoURL      ImportStatus = "skipped: no-url"
	ImportFailed            ImportStatus = "failed"
)

// ImportEntry is the per-entry record of an import
type ImportEntry struct {
	Title    string       `json:"title"`
	URL      string       `json:"url,omitempty"`
	Category string       `json:"category,omitempty"`
	Status   ImportStatus `json:"status"`
	Error    string       `json:"error,omitempty"`
}

// ImportReport summarizes a takeout import
type ImportReport struct {
	Created           int           `json:"created"`
	AlreadySubscribed int           `json:"already_subscribed"`
	SkippedNoURL      int           `json:"skipped_no_url"`
	Failed            int           `json:"failed"`
	Entries           []ImportEntry `json:"entries"`
}

// Add records an entry outcome and updates the counters
func (r *ImportReport) Add(e ImportEntry) {
	switch e.Status {
	case ImportCreated:
		r.Created++
	case ImportAlreadySubscribed:
		r.AlreadySubscribed++
	case ImportSkippedNoURL:
		r.SkippedNoURL++
	case ImportFailed:
		r.Failed++
	}
	r.Entries = append(r.Entries, e)
}
