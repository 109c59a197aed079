package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stock-research-api/pkg/logger"
	"stock-research-api/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
)

type articleRepository struct {
	log        *logger.Logger
	httpClient *http.Client
}

// NewArticleRepository creates a fetcher that extracts the readable body of a
// news article, used to enrich AI news-analysis prompts.
func NewArticleRepository(log *logger.Logger) ArticleRepository {
	return &articleRepository{
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetContent downloads url and returns its main text content.
func (r *articleRepository) GetContent(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for article: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja-JP,ja;q=0.9,en;q=0.5")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to fetch article", logger.ErrorField(err), logger.StringField("url", url))
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read article body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to extract article content: %w", err)
	}

	htmlDoc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse extracted content: %w", err)
	}

	content := strings.TrimSpace(htmlDoc.Text())
	for _, ch := range []string{"\n", "\t", "\r", "\f"} {
		content = strings.ReplaceAll(content, ch, "")
	}
	return utils.SafeText(content), nil
}
