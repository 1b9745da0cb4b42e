package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const wikipediaBaseURL = "https://en.wikipedia.org"

// WikipediaFetcher looks the topic up as an article title first and falls
// back to the search API for the remaining results. Each hit contributes its
// summary extract.
type WikipediaFetcher struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

func NewWikipediaFetcher(client *http.Client) *WikipediaFetcher {
	return &WikipediaFetcher{
		client:    client,
		baseURL:   wikipediaBaseURL,
		userAgent: "notecraft-be/1.0 (study notes generator)",
	}
}

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type wikiSummary struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// FetchByTopic skips a title whose summary request fails so the documents
// already collected survive. It returns an error only when it collected
// nothing and at least one request failed.
func (f *WikipediaFetcher) FetchByTopic(ctx context.Context, topic string, maxResults int) ([]Document, error) {
	if maxResults <= 0 {
		maxResults = 1
	}

	docs := make([]Document, 0, maxResults)
	seen := make(map[string]bool, maxResults)
	var errs []error

	add := func(title string) {
		key := strings.ReplaceAll(title, "_", " ")
		if seen[key] || len(docs) >= maxResults {
			return
		}
		seen[key] = true

		summary, err := f.summary(ctx, title)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", title, err))
			return
		}
		if doc, ok := summary.document(); ok {
			docs = append(docs, doc)
			seen[doc.Title] = true
		}
	}

	add(topic)

	if len(docs) < maxResults {
		titles, err := f.search(ctx, topic, maxResults)
		if err != nil {
			errs = append(errs, err)
		}
		for _, title := range titles {
			add(title)
		}
	}

	if len(docs) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return docs, nil
}

// document rejects missing pages, disambiguation pages and empty extracts.
func (s *wikiSummary) document() (Document, bool) {
	if s == nil || s.Type == "disambiguation" || strings.TrimSpace(s.Extract) == "" {
		return Document{}, false
	}
	return Document{
		Title: s.Title,
		Text:  s.Title + "\n" + strings.TrimSpace(s.Extract),
		URL:   s.ContentURLs.Desktop.Page,
	}, true
}

func (f *WikipediaFetcher) search(ctx context.Context, topic string, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", topic)
	params.Set("srlimit", strconv.Itoa(limit))
	params.Set("format", "json")

	body, status, err := f.get(ctx, "/w/api.php?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("wikipedia search error: status %d, body: %s", status, string(body))
	}

	var res wikiSearchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode wikipedia search: %w", err)
	}

	titles := make([]string, 0, len(res.Query.Search))
	for _, s := range res.Query.Search {
		titles = append(titles, s.Title)
	}
	return titles, nil
}

// summary returns nil without error when the page does not exist.
func (f *WikipediaFetcher) summary(ctx context.Context, title string) (*wikiSummary, error) {
	path := "/api/rest_v1/page/summary/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	body, status, err := f.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("wikipedia summary error: status %d, body: %s", status, string(body))
	}

	var s wikiSummary
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("decode wikipedia summary: %w", err)
	}
	return &s, nil
}

func (f *WikipediaFetcher) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create wikipedia request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read wikipedia response: %w", err)
	}
	return body, resp.StatusCode, nil
}
