package corpus

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const arxivBaseURL = "http://export.arxiv.org/api/query"

// ArxivFetcher queries the arXiv Atom API and keeps title + abstract only.
type ArxivFetcher struct {
	client  *http.Client
	baseURL string
}

func NewArxivFetcher(client *http.Client) *ArxivFetcher {
	return &ArxivFetcher{client: client, baseURL: arxivBaseURL}
}

type arxivFeed struct {
	Entries []struct {
		ID      string `xml:"id"`
		Title   string `xml:"title"`
		Summary string `xml:"summary"`
	} `xml:"entry"`
}

func (f *ArxivFetcher) FetchByTopic(ctx context.Context, topic string, maxResults int) ([]Document, error) {
	params := url.Values{}
	params.Set("search_query", "all:"+topic)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create arxiv request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read arxiv response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decode arxiv feed: %w", err)
	}

	docs := make([]Document, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		title := collapseSpace(e.Title)
		summary := collapseSpace(e.Summary)
		if summary == "" {
			continue
		}
		docs = append(docs, Document{
			Title: title,
			Text:  title + "\n" + summary,
			URL:   strings.TrimSpace(e.ID),
		})
		if len(docs) == maxResults {
			break
		}
	}
	return docs, nil
}

// collapseSpace folds the hard-wrapped lines arXiv returns into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
