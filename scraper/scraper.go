package scraper

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/automuse/studio/model"
	"github.com/automuse/studio/utils"
	Logger "github.com/automuse/studio/utils/log"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// MaxArticlesPerScrape caps how many entries a single scrape turns into
	// Ideas.
	MaxArticlesPerScrape = 10

	// summaryMaxRunes is the cap on the HTML-stripped entry description.
	summaryMaxRunes = 200

	fetchTimeout = 30 * time.Second
)

// ScrapeResult reports one scrape attempt back to the admin UI. Failures are
// data, not errors: the HTTP layer renders Message instead of crashing.
type ScrapeResult struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	ArticlesFound     int    `json:"articlesFound"`
	IdeasCreated      int    `json:"ideasCreated"`
	DuplicatesSkipped int    `json:"duplicatesSkipped"`
}

// InferFeedType guesses the source type from the URL shape when the admin
// didn't pick one.
func InferFeedType(feedURL string) string {
	lower := strings.ToLower(feedURL)
	if strings.Contains(lower, "/rss") || strings.Contains(lower, "/feed") || strings.Contains(lower, ".xml") {
		return model.FeedTypeRss
	}
	if strings.Contains(lower, "blog") || strings.Contains(lower, "/posts") {
		return model.FeedTypeBlog
	}
	return model.FeedTypeManual
}

// CreateFeedSource registers a feed, inferring the type when absent.
func CreateFeedSource(db *gorm.DB, feedURL string, name string, feedType string) (*model.FeedSource, error) {
	if feedURL == "" || name == "" {
		return nil, fmt.Errorf("feed url and name are required")
	}
	if feedType == "" {
		feedType = InferFeedType(feedURL)
	}
	source := model.FeedSource{
		Id:       uuid.New().String(),
		Url:      feedURL,
		Name:     name,
		Type:     feedType,
		IsActive: true,
	}
	if err := db.Create(&source).Error; err != nil {
		return nil, err
	}
	return &source, nil
}

// Scrape fetches a feed source and turns its entries into new Ideas.
//
// Failure policy: individual bad articles are skipped without aborting the
// batch, but a total failure (network, HTTP status, unparsable body) still
// leaves a trace: LastChecked is updated and a single fallback Idea
// describing the failure is created, so the admin always sees feedback.
func Scrape(db *gorm.DB, feedSourceID string) *ScrapeResult {
	var source model.FeedSource
	if result := db.Where("id = ?", feedSourceID).First(&source); result.RowsAffected != 1 {
		return &ScrapeResult{Success: false, Message: fmt.Sprintf("unknown feed source %s", feedSourceID)}
	}
	if !source.IsActive {
		return &ScrapeResult{Success: false, Message: fmt.Sprintf("feed source %s is inactive", source.Name)}
	}

	// From here on a fetch is attempted, LastChecked moves regardless of
	// outcome.
	defer func() {
		now := time.Now()
		db.Model(&source).Update("last_checked", now)
	}()

	feed, err := fetchFeed(source.Url)
	if err != nil {
		Logger.Log.Error("scrape failed for ", source.Url, ": ", err)
		utils.Incr("scraper.failures", []string{"source:" + source.Name})
		createFallbackIdea(db, &source, err)
		return &ScrapeResult{Success: false, Message: err.Error()}
	}

	items := feed.Items
	if len(items) > MaxArticlesPerScrape {
		items = items[:MaxArticlesPerScrape]
	}

	result := &ScrapeResult{Success: true, ArticlesFound: len(items)}
	for _, item := range items {
		if item.Link == "" || item.Title == "" {
			continue
		}
		created, err := createIdeaFromItem(db, item)
		if err != nil {
			// One broken article never aborts the batch.
			Logger.Log.Warn("skip article ", item.Link, ": ", err)
			continue
		}
		if created {
			result.IdeasCreated++
		} else {
			result.DuplicatesSkipped++
		}
	}

	utils.Incr("scraper.articles", []string{"source:" + source.Name})
	result.Message = fmt.Sprintf("found %d articles, created %d ideas, skipped %d duplicates",
		result.ArticlesFound, result.IdeasCreated, result.DuplicatesSkipped)
	return result
}

// ScrapeAllActive runs one scrape per active source, sequentially. Invoked
// by the cron entrypoint.
func ScrapeAllActive(db *gorm.DB) map[string]*ScrapeResult {
	var sources []model.FeedSource
	db.Where("is_active = ?", true).Find(&sources)

	results := make(map[string]*ScrapeResult, len(sources))
	for _, source := range sources {
		results[source.Id] = Scrape(db, source.Id)
	}
	return results
}

func fetchFeed(feedURL string) (*gofeed.Feed, error) {
	client := &http.Client{Timeout: fetchTimeout}
	req, err := http.NewRequest(http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", utils.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed fetch returned status %d", resp.StatusCode)
	}

	// gofeed handles RSS <item> and Atom <entry> alike, including CDATA
	// unwrapping.
	return gofeed.NewParser().Parse(resp.Body)
}

func createIdeaFromItem(db *gorm.DB, item *gofeed.Item) (bool, error) {
	title := strings.TrimSpace(item.Title)
	summary := utils.TruncateString(strings.TrimSpace(StripHTML(item.Description)), summaryMaxRunes)
	canonical := item.Link

	keyPoints := item.Categories
	if keyPoints == nil {
		keyPoints = []string{}
	}

	idea := model.Idea{
		Id:           uuid.New().String(),
		InputType:    model.IdeaInputTypeUrl,
		InputValue:   item.Link,
		Title:        &title,
		CanonicalUrl: &canonical,
		Summary:      &summary,
		KeyPoints:    model.StringList(keyPoints),
		Status:       model.IdeaStatusNew,
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&idea)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// createFallbackIdea records a total scrape failure as an Idea so the admin
// queue shows it even when nobody reads the logs.
func createFallbackIdea(db *gorm.DB, source *model.FeedSource, cause error) {
	title := fmt.Sprintf("Scrape failed: %s", source.Name)
	summary := utils.TruncateString(cause.Error(), summaryMaxRunes)
	idea := model.Idea{
		Id:         uuid.New().String(),
		InputType:  model.IdeaInputTypeText,
		InputValue: source.Url,
		Title:      &title,
		Summary:    &summary,
		KeyPoints:  model.StringList([]string{"Check whether the feed URL is still valid"}),
		Status:     model.IdeaStatusNew,
	}
	if err := db.Create(&idea).Error; err != nil {
		Logger.Log.Error("fail to create fallback idea: ", err)
	}
}

// StripHTML renders markup down to its text content.
func StripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	var sb strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			sb.WriteString(tokenizer.Token().Data)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
