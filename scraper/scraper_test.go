package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/automuse/studio/ideas"
	"github.com/automuse/studio/model"
	"github.com/automuse/studio/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rssDocument(items ...string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Fixture Feed</title>
<link>https://fixture.example.com</link>
%s
</channel></rss>`, strings.Join(items, "\n"))
}

func rssItem(title, link, description string) string {
	return fmt.Sprintf(`<item>
<title>%s</title>
<link>%s</link>
<description><![CDATA[%s]]></description>
</item>`, title, link, description)
}

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestInferFeedType(t *testing.T) {
	assert.Equal(t, model.FeedTypeRss, InferFeedType("https://example.com/rss"))
	assert.Equal(t, model.FeedTypeRss, InferFeedType("https://example.com/FEED.XML"))
	assert.Equal(t, model.FeedTypeRss, InferFeedType("https://blog.example.com/feed"))
	assert.Equal(t, model.FeedTypeBlog, InferFeedType("https://example.com/blog"))
	assert.Equal(t, model.FeedTypeBlog, InferFeedType("https://example.com/posts/index.html"))
	assert.Equal(t, model.FeedTypeManual, InferFeedType("https://example.com/about"))
}

func TestCreateFeedSourceInfersType(t *testing.T) {
	db := utils.CreateTestDB(t)

	source, err := CreateFeedSource(db, "https://example.com/rss", "Example", "")
	require.NoError(t, err)
	assert.Equal(t, model.FeedTypeRss, source.Type)
	assert.True(t, source.IsActive)

	_, err = CreateFeedSource(db, "", "Example", "")
	assert.Error(t, err)
	_, err = CreateFeedSource(db, "https://example.com/rss", "", "")
	assert.Error(t, err)
}

func TestScrapeUnknownAndInactiveSources(t *testing.T) {
	db := utils.CreateTestDB(t)

	result := Scrape(db, "no-such-id")
	assert.False(t, result.Success)

	source, err := CreateFeedSource(db, "https://example.com/rss", "Example", "")
	require.NoError(t, err)
	require.NoError(t, db.Model(source).Update("is_active", false).Error)

	result = Scrape(db, source.Id)
	assert.False(t, result.Success)

	// No fetch was attempted, so lastChecked stays unset.
	var refreshed model.FeedSource
	require.NoError(t, db.Where("id = ?", source.Id).First(&refreshed).Error)
	assert.Nil(t, refreshed.LastChecked)
}

func TestScrapeCreatesIdeasAndSkipsDuplicates(t *testing.T) {
	db := utils.CreateTestDB(t)
	server := serveFeed(t, rssDocument(
		rssItem("First post", "https://fixture.example.com/1", "<p>Plain <b>text</b> body</p>"),
		rssItem("Second post", "https://fixture.example.com/2", "Another body"),
	))

	source, err := CreateFeedSource(db, server.URL, "Fixture", model.FeedTypeRss)
	require.NoError(t, err)

	result := Scrape(db, source.Id)
	require.True(t, result.Success, result.Message)
	assert.Equal(t, 2, result.ArticlesFound)
	assert.Equal(t, 2, result.IdeasCreated)
	assert.Equal(t, 0, result.DuplicatesSkipped)

	var idea model.Idea
	require.NoError(t, db.Where("canonical_url = ?", "https://fixture.example.com/1").First(&idea).Error)
	assert.Equal(t, "First post", *idea.Title)
	assert.Equal(t, "Plain text body", *idea.Summary)
	assert.Equal(t, model.IdeaStatusNew, idea.Status)

	// Second run finds the same articles, creates nothing.
	result = Scrape(db, source.Id)
	require.True(t, result.Success)
	assert.Equal(t, 0, result.IdeasCreated)
	assert.Equal(t, 2, result.DuplicatesSkipped)
}

func TestScrapeHandlesAtomEntries(t *testing.T) {
	db := utils.CreateTestDB(t)
	server := serveFeed(t, `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
<title>Fixture Atom</title>
<entry>
<title>Atom post</title>
<link href="https://fixture.example.com/atom/1"/>
<id>urn:uuid:atom-1</id>
<summary><![CDATA[<p>Atom <em>body</em></p>]]></summary>
</entry>
</feed>`)

	source, err := CreateFeedSource(db, server.URL, "Atom Fixture", model.FeedTypeRss)
	require.NoError(t, err)

	result := Scrape(db, source.Id)
	require.True(t, result.Success, result.Message)
	assert.Equal(t, 1, result.IdeasCreated)

	var idea model.Idea
	require.NoError(t, db.Where("canonical_url = ?", "https://fixture.example.com/atom/1").First(&idea).Error)
	assert.Equal(t, "Atom post", *idea.Title)
	assert.Equal(t, "Atom body", *idea.Summary)
}

func TestScrapeCapsArticlesPerRun(t *testing.T) {
	db := utils.CreateTestDB(t)

	var items []string
	for i := 0; i < MaxArticlesPerScrape+5; i++ {
		items = append(items, rssItem(
			fmt.Sprintf("Post %d", i),
			fmt.Sprintf("https://fixture.example.com/%d", i),
			"body"))
	}
	server := serveFeed(t, rssDocument(items...))

	source, err := CreateFeedSource(db, server.URL, "Fixture", model.FeedTypeRss)
	require.NoError(t, err)

	result := Scrape(db, source.Id)
	require.True(t, result.Success)
	assert.Equal(t, MaxArticlesPerScrape, result.ArticlesFound)
	assert.Equal(t, MaxArticlesPerScrape, result.IdeasCreated)
}

func TestScrapeSkipsItemsMissingLinkOrTitle(t *testing.T) {
	db := utils.CreateTestDB(t)
	server := serveFeed(t, rssDocument(
		rssItem("", "https://fixture.example.com/1", "no title"),
		`<item><title>No link</title><description>x</description></item>`,
		rssItem("Good", "https://fixture.example.com/2", "body"),
	))

	source, err := CreateFeedSource(db, server.URL, "Fixture", model.FeedTypeRss)
	require.NoError(t, err)

	result := Scrape(db, source.Id)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.IdeasCreated)
}

func TestScrapeTruncatesLongSummaries(t *testing.T) {
	db := utils.CreateTestDB(t)
	long := strings.Repeat("word ", 100)
	server := serveFeed(t, rssDocument(
		rssItem("Long", "https://fixture.example.com/long", long),
	))

	source, err := CreateFeedSource(db, server.URL, "Fixture", model.FeedTypeRss)
	require.NoError(t, err)

	result := Scrape(db, source.Id)
	require.True(t, result.Success)

	var idea model.Idea
	require.NoError(t, db.Where("canonical_url = ?", "https://fixture.example.com/long").First(&idea).Error)
	assert.LessOrEqual(t, len([]rune(*idea.Summary)), 203)
	assert.True(t, strings.HasSuffix(*idea.Summary, "..."))
}

func TestScrapeEmptyFeedStillUpdatesLastChecked(t *testing.T) {
	db := utils.CreateTestDB(t)
	server := serveFeed(t, rssDocument())

	source, err := CreateFeedSource(db, server.URL, "Fixture", model.FeedTypeRss)
	require.NoError(t, err)

	result := Scrape(db, source.Id)
	require.True(t, result.Success)
	assert.Equal(t, 0, result.IdeasCreated)

	var refreshed model.FeedSource
	require.NoError(t, db.Where("id = ?", source.Id).First(&refreshed).Error)
	require.NotNil(t, refreshed.LastChecked)
	assert.WithinDuration(t, time.Now(), *refreshed.LastChecked, time.Minute)
}

func TestScrapeTotalFailureLeavesFallbackIdea(t *testing.T) {
	db := utils.CreateTestDB(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	source, err := CreateFeedSource(db, server.URL, "Broken Feed", model.FeedTypeRss)
	require.NoError(t, err)

	result := Scrape(db, source.Id)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)

	var idea model.Idea
	require.NoError(t, db.Where("title = ?", "Scrape failed: Broken Feed").First(&idea).Error)
	assert.Equal(t, model.IdeaInputTypeText, idea.InputType)
	assert.Equal(t, server.URL, idea.InputValue)

	var refreshed model.FeedSource
	require.NoError(t, db.Where("id = ?", source.Id).First(&refreshed).Error)
	assert.NotNil(t, refreshed.LastChecked)
}

func TestScrapeAllActiveSkipsInactiveSources(t *testing.T) {
	db := utils.CreateTestDB(t)
	server := serveFeed(t, rssDocument(
		rssItem("Post", "https://fixture.example.com/1", "body"),
	))

	active, err := CreateFeedSource(db, server.URL, "Active", model.FeedTypeRss)
	require.NoError(t, err)
	inactive, err := CreateFeedSource(db, server.URL+"/other", "Inactive", model.FeedTypeRss)
	require.NoError(t, err)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	results := ScrapeAllActive(db)
	require.Len(t, results, 1)
	assert.True(t, results[active.Id].Success)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "", StripHTML(""))
	assert.Equal(t, "plain", StripHTML("plain"))
	assert.Equal(t, "a b c", StripHTML("<div><p>a</p> <span>b</span>\n\tc</div>"))
	assert.Equal(t, "keep text", StripHTML(`<a href="x">keep</a> <!-- comment --> text`))
}

// Full editorial flow: scrape a registered feed into Ideas, approve one for
// two platforms, schedule one draft with the default delay, then cancel it.
func TestScrapeToScheduleFlow(t *testing.T) {
	db := utils.CreateTestDB(t)
	server := serveFeed(t, rssDocument(
		rssItem("Agents in production", "https://fixture.example.com/agents", "How we run them"),
	))

	source, err := CreateFeedSource(db, server.URL, "Fixture", model.FeedTypeRss)
	require.NoError(t, err)

	result := Scrape(db, source.Id)
	require.True(t, result.Success)
	require.Equal(t, 1, result.IdeasCreated)

	var idea model.Idea
	require.NoError(t, db.Where("canonical_url = ?", "https://fixture.example.com/agents").First(&idea).Error)

	created, err := ideas.Approve(db, idea.Id, []string{"blog", "linkedin"}, "")
	require.NoError(t, err)
	require.Equal(t, 2, created)

	views, total, err := ideas.ListDrafts(db, model.SelectionStatusDraft, "", 10, 0)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	before := time.Now()
	_, err = ideas.ApproveDraft(db, nil, views[0].Id, nil)
	require.NoError(t, err)

	scheduled, err := ideas.ListScheduledPosts(db)
	require.NoError(t, err)
	require.Len(t, scheduled, 1)
	require.NotNil(t, scheduled[0].ScheduledAt)
	assert.WithinDuration(t, before.Add(24*time.Hour), *scheduled[0].ScheduledAt, time.Minute)

	cancelled, err := ideas.CancelScheduledPost(db, nil, scheduled[0].Id)
	require.NoError(t, err)
	require.True(t, cancelled)

	scheduled, err = ideas.ListScheduledPosts(db)
	require.NoError(t, err)
	assert.Len(t, scheduled, 0)
}
