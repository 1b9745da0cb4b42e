package corpus

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const pubmedBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// PubmedFetcher uses the E-utilities two step flow: esearch for ids, then
// efetch for the abstracts.
type PubmedFetcher struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewPubmedFetcher(client *http.Client, apiKey string) *PubmedFetcher {
	return &PubmedFetcher{client: client, baseURL: pubmedBaseURL, apiKey: apiKey}
}

type esearchResponse struct {
	Result struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type pubmedArticleSet struct {
	Articles []struct {
		PMID     string   `xml:"MedlineCitation>PMID"`
		Title    string   `xml:"MedlineCitation>Article>ArticleTitle"`
		Abstract []string `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	} `xml:"PubmedArticle"`
}

func (f *PubmedFetcher) FetchByTopic(ctx context.Context, topic string, maxResults int) ([]Document, error) {
	ids, err := f.search(ctx, topic, maxResults)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Document{}, nil
	}

	params := f.params()
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")
	params.Set("rettype", "abstract")

	body, err := f.get(ctx, "/efetch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("decode pubmed efetch: %w", err)
	}

	docs := make([]Document, 0, len(set.Articles))
	for _, a := range set.Articles {
		title := strings.TrimSpace(a.Title)
		abstract := strings.TrimSpace(strings.Join(a.Abstract, "\n"))
		// Articles without an abstract carry no useful context.
		if title == "" || abstract == "" {
			continue
		}
		docs = append(docs, Document{
			Title: title,
			Text:  title + "\n" + abstract,
			URL:   "https://pubmed.ncbi.nlm.nih.gov/" + strings.TrimSpace(a.PMID) + "/",
		})
	}
	return docs, nil
}

func (f *PubmedFetcher) search(ctx context.Context, topic string, maxResults int) ([]string, error) {
	params := f.params()
	params.Set("term", topic)
	params.Set("retmax", strconv.Itoa(maxResults))
	params.Set("retmode", "json")

	body, err := f.get(ctx, "/esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var res esearchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode pubmed esearch: %w", err)
	}
	return res.Result.IDList, nil
}

func (f *PubmedFetcher) params() url.Values {
	params := url.Values{}
	params.Set("db", "pubmed")
	if f.apiKey != "" {
		params.Set("api_key", f.apiKey)
	}
	return params
}

func (f *PubmedFetcher) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create pubmed request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pubmed request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read pubmed response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pubmed error: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
