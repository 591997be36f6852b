package takeout

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedsync/pkg/domain"
)

const readerTakeout = `<?xml version="1.0" encoding="UTF-8"?>
<opml version="1.0">
	<head><title>alice subscriptions in Google Reader</title></head>
	<body>
		<outline title="Hacker News" text="Hacker News" type="rss" xmlUrl="https://news.ycombinator.com/rss" htmlUrl="https://news.ycombinator.com"/>
		<outline title="Tech" text="Tech">
			<outline text="Go Blog" title="Go Blog" type="rss" xmlUrl="https://go.dev/blog/feed.atom"/>
			<outline text="Dead feed" title="Dead feed" type="rss" xmlUrl=""/>
			<outline title="Nested">
				<outline text="Rust Blog" type="rss" xmlUrl=" https://blog.rust-lang.org/feed.xml "/>
			</outline>
		</outline>
		<outline text="Tagged" type="rss" xmlUrl="https://example.com/tagged" category="/News/World,/Other"/>
		<unknown foo="bar"/>
	</body>
</opml>`

func TestParseSubscriptions(t *testing.T) {
	entries, err := ParseSubscriptions([]byte(readerTakeout))
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Title: "Hacker News", URL: "https://news.ycombinator.com/rss"},
		{Title: "Go Blog", URL: "https://go.dev/blog/feed.atom", Category: "Tech"},
		{Title: "Dead feed", URL: "", Category: "Tech"},
		{Title: "Rust Blog", URL: "https://blog.rust-lang.org/feed.xml", Category: "Nested"},
		{Title: "Tagged", URL: "https://example.com/tagged", Category: "World"},
	}, entries)
}

func TestParseSubscriptions_Zip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("Takeout/README.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("readme"))
	require.NoError(t, err)
	w, err = zw.Create("Takeout/Reader/alice@example.com-subscriptions.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(readerTakeout))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	entries, err := ParseSubscriptions(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, entries, 5)
	assert.Equal(t, "Hacker News", entries[0].Title)
}

func TestParseSubscriptions_Charset(t *testing.T) {
	doc := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<opml><body><outline text=\"Caf\xe9\" xmlUrl=\"https://example.com/cafe\"/></body></opml>")
	entries, err := ParseSubscriptions(doc)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Café", entries[0].Title)
}

func TestParseSubscriptions_Errors(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("other.txt")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	tbl := []struct {
		name string
		data []byte
	}{
		{"not xml", []byte("just text")},
		{"broken xml", []byte("<opml><body><outline text='a'></body>")},
		{"other root", []byte("<rss><channel/></rss>")},
		{"zip without list", buf.Bytes()},
		{"broken zip", append([]byte("PK\x03\x04"), []byte("garbage")...)},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSubscriptions(tt.data)
			require.ErrorIs(t, err, domain.ErrMalformedDocument)
		})
	}
}

func TestCategoryAttr(t *testing.T) {
	assert.Equal(t, "Go", categoryAttr("/Tech/Go,/News"))
	assert.Equal(t, "News", categoryAttr("News"))
	assert.Empty(t, categoryAttr(""))
	assert.Empty(t, categoryAttr("/"))
}
