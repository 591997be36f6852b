package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/feedsync/pkg/domain"
)

// key prefixes keep values from different sources from colliding
const (
	keyPrefixID   = "id:"
	keyPrefixLink = "link:"
	keyPrefixHash = "hash:"
)

// KeyFor computes the dedup key of an entry within a feed.
// Precedence is the native id (guid/atom id), then the link, then a hash of title and published time.
func KeyFor(feedID int64, e domain.RawEntry) domain.DedupKey {
	if guid := strings.TrimSpace(e.GUID); guid != "" {
		return domain.DedupKey{FeedID: feedID, Value: keyPrefixID + guid}
	}
	if link := strings.TrimSpace(e.Link); link != "" {
		return domain.DedupKey{FeedID: feedID, Value: keyPrefixLink + link}
	}

	// published of an undated entry is the parse time, so content stands in for it
	second := e.Published.UTC().Format(time.RFC3339Nano)
	if e.Undated {
		second = e.Content
	}
	return domain.DedupKey{FeedID: feedID, Value: keyPrefixHash + hashOf(strings.TrimSpace(e.Title), second)}
}

var (
	stripPolicy     *bluemonday.Policy
	stripPolicyOnce sync.Once
)

// ContentHash returns a hash of entry title and the plain text of its content.
// Markup is stripped, so changes in formatting only don't change the hash.
func ContentHash(e domain.RawEntry) string {
	stripPolicyOnce.Do(func() { stripPolicy = bluemonday.StrictPolicy() })
	text := strings.Join(strings.Fields(stripPolicy.Sanitize(e.Content)), " ")
	return hashOf(strings.TrimSpace(e.Title), text)
}

func hashOf(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
