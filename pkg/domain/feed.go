package domain

import "time"

// Feed represents one remote syndication source shared by all its subscribers
type Feed struct {
	ID           int64
	URL          string // canonical
	Title        string
	LastSynced   *time.Time // nil if never synced
	LastAttempt  *time.Time
	FailureCount int
	FailureKind  FailureKind
	LastError    string
	ETag         string
	LastModified string
	CreatedAt    time.Time
}

// FailureKind tells transient network failures from persistent parse failures
type FailureKind string

// failure kinds recorded on a feed
const (
	FailureNone  FailureKind = ""
	FailureFetch FailureKind = "fetch"
	FailureParse FailureKind = "parse"
)

// SyncFailure describes a failed sync attempt to be recorded on the feed
type SyncFailure struct {
	Kind    FailureKind
	Message string
	At      time.Time
}

// SyncCommit is the result of a successful sync pass, persisted atomically
type SyncCommit struct {
	FeedID       int64
	Title        string
	ETag         string
	LastModified string
	SyncedAt     time.Time
	Items        []Item
}

// SyncResult is returned by a sync pass
type SyncResult struct {
	FeedID      int64     `json:"feed_id"`
	Skipped     bool      `json:"skipped"`
	NotModified bool      `json:"not_modified"`
	Entries     int       `json:"entries"`
	NewItems    int       `json:"new_items"`
	SyncedAt    time.Time `json:"synced_at"`
}

// BatchReport summarizes a trigger run over several feeds
type BatchReport struct {
	Feeds    int `json:"feeds"`
	Synced   int `json:"synced"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	NewItems int `json:"new_items"`
}
