package ideas

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/automuse/studio/model"
	"github.com/automuse/studio/utils"
	Logger "github.com/automuse/studio/utils/log"
	"github.com/gocolly/colly"
)

// Summary is the generated editorial material attached to an Idea.
type Summary struct {
	Title     string
	Summary   string
	KeyPoints []string
}

// SummaryProvider turns raw input into title/summary/key-points. The default
// placeholder implementation is deterministic; swap in any text-analysis
// provider behind the same contract.
type SummaryProvider interface {
	Summarize(inputValue string, inputType string) (*Summary, error)
}

// PlaceholderProvider derives fixed-format strings from the input. It stands
// in for an external summarization call and never fails.
type PlaceholderProvider struct{}

func (PlaceholderProvider) Summarize(inputValue string, inputType string) (*Summary, error) {
	if inputType == model.IdeaInputTypeUrl {
		host := inputValue
		if u, err := url.Parse(inputValue); err == nil && u.Host != "" {
			host = u.Host
		}
		return &Summary{
			Title:   fmt.Sprintf("Idea from %s", host),
			Summary: fmt.Sprintf("Captured from %s", inputValue),
			KeyPoints: []string{
				"Review the source material",
				"Identify the angle for our audience",
				"Draft platform-specific copy",
			},
		}, nil
	}

	firstLine := inputValue
	if idx := strings.IndexAny(inputValue, "\n."); idx > 0 {
		firstLine = inputValue[:idx]
	}
	return &Summary{
		Title:   utils.TruncateString(strings.TrimSpace(firstLine), 80),
		Summary: utils.TruncateString(strings.TrimSpace(inputValue), 200),
		KeyPoints: []string{
			"Review the captured note",
			"Identify the angle for our audience",
			"Draft platform-specific copy",
		},
	}, nil
}

// PageTitleProvider fetches url inputs and lifts the page <title> and meta
// description into the Summary. Falls back to the placeholder output for
// text inputs or when the fetch fails, so Ingest never depends on the
// network being up.
type PageTitleProvider struct {
	fallback PlaceholderProvider
}

func NewPageTitleProvider() *PageTitleProvider {
	return &PageTitleProvider{}
}

func (p *PageTitleProvider) Summarize(inputValue string, inputType string) (*Summary, error) {
	base, _ := p.fallback.Summarize(inputValue, inputType)
	if inputType != model.IdeaInputTypeUrl {
		return base, nil
	}

	c := colly.NewCollector(colly.UserAgent(utils.UserAgent))
	c.OnHTML("title", func(e *colly.HTMLElement) {
		if t := strings.TrimSpace(e.Text); t != "" {
			base.Title = utils.TruncateString(t, 120)
		}
	})
	c.OnHTML(`meta[name="description"]`, func(e *colly.HTMLElement) {
		if d := strings.TrimSpace(e.Attr("content")); d != "" {
			base.Summary = utils.TruncateString(d, 200)
		}
	})
	if err := c.Visit(inputValue); err != nil {
		Logger.Log.Warn("page title fetch failed, using placeholder summary: ", err)
	}
	c.Wait()
	return base, nil
}
