package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const googleSearchURL = "https://www.googleapis.com/customsearch/v1"

// Provider returns image URLs for a query, best match first.
type Provider interface {
	Search(ctx context.Context, query string, count int) ([]string, error)
}

// GoogleProvider uses the Custom Search JSON API in image mode.
type GoogleProvider struct {
	apiKey  string
	cx      string
	baseURL string
	client  *http.Client
}

func NewGoogleProvider(apiKey, cx string, timeout time.Duration) *GoogleProvider {
	return &GoogleProvider{
		apiKey:  apiKey,
		cx:      cx,
		baseURL: googleSearchURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type googleSearchResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *GoogleProvider) Search(ctx context.Context, query string, count int) ([]string, error) {
	// The API caps num at 10.
	if count < 1 {
		count = 1
	} else if count > 10 {
		count = 10
	}

	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("cx", p.cx)
	params.Set("q", query)
	params.Set("searchType", "image")
	params.Set("num", strconv.Itoa(count))
	params.Set("safe", "active")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create image search request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image search response: %w", err)
	}

	var res googleSearchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode image search response (status %d): %w", resp.StatusCode, err)
	}
	if res.Error != nil {
		return nil, fmt.Errorf("image search error %d: %s", res.Error.Code, res.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image search error: status %d", resp.StatusCode)
	}

	urls := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		if item.Link != "" {
			urls = append(urls, item.Link)
		}
	}
	return urls, nil
}
