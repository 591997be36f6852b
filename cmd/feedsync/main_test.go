package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedsync/pkg/config"
	"github.com/umputun/feedsync/pkg/domain"
)

const testFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Test Feed</title>
<item><guid>a</guid><title>first</title><pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate></item>
<item><guid>b</guid><title>second</title><pubDate>Tue, 03 Jan 2006 15:04:05 GMT</pubDate></item>
</channel></rss>`

func TestMain(m *testing.M) {
	lgr.Setup(lgr.Out(io.Discard), lgr.Err(io.Discard))
	os.Exit(m.Run())
}

func testDSN(t *testing.T) string {
	t.Helper()
	return "file:" + filepath.Join(t.TempDir(), "feedsync.db") + "?mode=rwc&_txlock=immediate"
}

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0o600))

	err := run(context.Background(), Opts{Config: configPath})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_ImportAndSync(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testFeed))
	}))
	defer ts.Close()

	archive := filepath.Join(t.TempDir(), "subscriptions.xml")
	list := fmt.Sprintf(`<opml version="1.0"><body><outline title="Tech" text="Tech">`+
		`<outline text="test" xmlUrl="%s/feed"/><outline text="no url"/></outline></body></opml>`, ts.URL)
	require.NoError(t, os.WriteFile(archive, []byte(list), 0o600))

	opts := Opts{DB: testDSN(t)}
	opts.Import.File = archive
	opts.Import.User = "alice"
	require.NoError(t, run(context.Background(), opts))
	assert.Equal(t, int32(1), hits.Load(), "imported feed synced once")

	// items are stored and visible to the user
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Database.DSN = opts.DB
	a, err := newApp(context.Background(), cfg)
	require.NoError(t, err)
	defer a.repos.Close()
	items, err := a.registry.UnreadItems(context.Background(), "alice", domain.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Title)
	assert.Equal(t, "test", items[0].FeedTitle, "subscription title from the list")

	// sync-all right after is skipped by min interval
	require.NoError(t, run(context.Background(), Opts{DB: opts.DB, SyncAll: true}))
	assert.Equal(t, int32(1), hits.Load())
}

func TestRun_ImportRequiresUser(t *testing.T) {
	opts := Opts{DB: testDSN(t)}
	opts.Import.File = "whatever.xml"
	err := run(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import.user")
}

func TestRun_ServerStartStop(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	configPath := filepath.Join(t.TempDir(), "feedsync.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("schedule:\n  enabled: false\n"), 0o600))

	opts := Opts{Config: configPath, DB: testDSN(t), Listen: fmt.Sprintf("127.0.0.1:%d", port)}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, opts) }()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/ping")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Post(base+"/api/v1/users/alice/subscriptions", "application/json",
		strings.NewReader(`{"url":"example.com/feed","category":"News"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sub domain.Subscription
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sub))
	assert.Equal(t, "https://example.com/feed", sub.FeedURL)
	require.NotNil(t, sub.CategoryID)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run didn't stop")
	}
}
