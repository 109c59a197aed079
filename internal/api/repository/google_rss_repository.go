package repository

import (
	"context"
	"fmt"
	"net/url"

	"stock-research-api/internal/api/dto"
	"stock-research-api/pkg/logger"
	"stock-research-api/pkg/utils"

	"github.com/mmcdole/gofeed"
)

type googleRSSRepository struct {
	log    *logger.Logger
	parser *gofeed.Parser
}

// NewGoogleRSSRepository creates the keyless Google News RSS client, the final
// fallback in the news aggregation chain.
func NewGoogleRSSRepository(log *logger.Logger) RSSRepository {
	return &googleRSSRepository{
		log:    log,
		parser: gofeed.NewParser(),
	}
}

// GetNews searches the Google News RSS feed for the query.
func (r *googleRSSRepository) GetNews(ctx context.Context, query string) ([]dto.NewsItem, error) {
	feedURL := fmt.Sprintf("https://news.google.com/rss/search?q=%s&hl=ja&gl=JP&ceid=JP:ja", url.QueryEscape(query))
	return r.GetFeedItems(ctx, feedURL)
}

// GetFeedItems fetches an arbitrary RSS feed and maps its items.
func (r *googleRSSRepository) GetFeedItems(ctx context.Context, feedURL string) ([]dto.NewsItem, error) {
	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("url", feedURL))
		return nil, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	items := make([]dto.NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it.Link == "" {
			continue
		}
		item := dto.NewsItem{
			Title:   utils.SafeText(it.Title),
			Snippet: utils.SafeText(it.Description),
			Source:  feedSourceName(feed, it),
			Date:    it.Published,
			Link:    it.Link,
		}
		if it.PublishedParsed != nil {
			item.PublishedAt = *it.PublishedParsed
		}
		items = append(items, item)
	}
	return items, nil
}

func feedSourceName(feed *gofeed.Feed, item *gofeed.Item) string {
	if item.Custom != nil {
		if src, ok := item.Custom["source"]; ok && src != "" {
			return src
		}
	}
	if feed.Title != "" {
		return feed.Title
	}
	return "Google News"
}
