package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haytac/emojiril/internal/proxy"
	"github.com/haytac/emojiril/internal/rewriter"
	"github.com/haytac/emojiril/internal/shortname"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>News :fire:</title>
  <link>https://example.com</link>
  <description>Daily :wave:</description>
  <item>
    <title>Release :tada:</title>
    <link>https://example.com/1</link>
    <guid>1</guid>
    <description><![CDATA[<p>Shipped :tada: <a href=":tada:">notes</a></p>]]></description>
  </item>
</channel>
</rss>`

func newFetcher() *GoFeedFetcher {
	f := NewGoFeedFetcher(proxy.NewHTTPClientFactory(5*time.Second), nil, "emojiril-test")
	f.InitialDelay = time.Millisecond
	f.MaxDelay = 5 * time.Millisecond
	return f
}

func TestFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "emojiril-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer ts.Close()

	parsed, err := newFetcher().Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "News :fire:", parsed.Title)
	require.Len(t, parsed.Items, 1)
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer ts.Close()

	_, err := newFetcher().Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
}

func TestFetch_ClientErrorNotRetried(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer ts.Close()

	_, err := newFetcher().Fetch(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestRewriteFeed(t *testing.T) {
	reg := shortname.New()
	require.NoError(t, reg.Register("fire", shortname.Literal("🔥")))
	require.NoError(t, reg.Register("wave", shortname.Literal("👋")))
	require.NoError(t, reg.Register("tada", shortname.Literal("🎉")))

	parsed, err := gofeed.NewParser().ParseString(sampleRSS)
	require.NoError(t, err)

	stats, err := RewriteFeed(parsed, rewriter.New(reg))
	require.NoError(t, err)
	assert.Equal(t, "News 🔥", parsed.Title)
	assert.Equal(t, "Daily 👋", parsed.Description)
	assert.Equal(t, "Release 🎉", parsed.Items[0].Title)
	assert.Equal(t, `<p>Shipped 🎉 <a href=":tada:">notes</a></p>`, parsed.Items[0].Description)
	assert.Equal(t, 4, stats.Replaced)
}

func TestRewriteFeed_ResolverError(t *testing.T) {
	reg := shortname.New()
	require.NoError(t, reg.Register("tada", shortname.Resolver(func(string) (string, error) {
		return "", errors.New("nope")
	})))

	parsed, err := gofeed.NewParser().ParseString(sampleRSS)
	require.NoError(t, err)

	_, err = RewriteFeed(parsed, rewriter.New(reg))
	assert.ErrorContains(t, err, "item 0 title")
	assert.Equal(t, "Release :tada:", parsed.Items[0].Title)
	assert.Equal(t, "News :fire:", parsed.Title)
}
