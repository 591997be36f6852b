package domain

import (
	"iter"
	"time"
)

// Item is a single entry of a feed, shared read-only by all subscribers
type Item struct {
	ID          int64     `json:"id"`
	FeedID      int64     `json:"feed_id"`
	DedupKey    string    `json:"-"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Content     string    `json:"content"`
	Published   time.Time `json:"published"`
	Undated     bool      `json:"undated"`
	ContentHash string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserItem is an item as seen by one subscriber
type UserItem struct {
	Item
	SubscriptionID int64  `json:"subscription_id"`
	CategoryID     *int64 `json:"category_id,omitempty"`
	FeedTitle      string `json:"feed_title"`
}

// ItemFilter narrows unread items, zero values mean no filter
type ItemFilter struct {
	CategoryID int64
	FeedID     int64
	Limit      int
}

// RawEntry is a parsed feed entry before deduplication
type RawEntry struct {
	GUID      string // rss guid or atom id
	Title     string
	Link      string
	Content   string // full content if present, summary otherwise
	Published time.Time
	Undated   bool // no date in the document, Published is the parse time
}

// ParsedFeed is the normalized result of parsing a feed document
type ParsedFeed struct {
	Title   string
	Format  string // rss or atom
	Entries iter.Seq[RawEntry]
}

// DedupKey identifies an entry within one feed across repeated polls
type DedupKey struct {
	FeedID int64
	Value  string
}

// String returns the key value as stored
func (k DedupKey) String() string { return k.Value }
