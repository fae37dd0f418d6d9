// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/article-engine/internal/httputil"
	"github.com/pdiddy/article-engine/pkg/types"
)

// serpAPIBase is the SERP API search endpoint. Declared as a var so tests
// can substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search.json"

// LiveResearch queries a SERP API for keyword research data.
type LiveResearch struct {
	Client *http.Client
	Config types.ResearchConfig
}

// serpResponse mirrors the subset of the SERP API response the pipeline
// consumes.
type serpResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	RelatedQuestions []struct {
		Question string `json:"question"`
	} `json:"related_questions"`
	RelatedSearches []struct {
		Query string `json:"query"`
	} `json:"related_searches"`
}

// Fetch queries the SERP API and maps the response into ResearchData.
// Rate-limited and server-error responses are retried with backoff; failures
// surviving the retries are tagged transient, unparseable bodies malformed.
func (r *LiveResearch) Fetch(ctx context.Context, keyword string) (types.ResearchData, error) {
	maxResults := r.Config.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	params := url.Values{
		"q":       {keyword},
		"num":     {fmt.Sprintf("%d", maxResults)},
		"api_key": {r.Config.APIKey},
	}

	req, err := http.NewRequest(http.MethodGet, serpAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return types.ResearchData{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, r.Client, req, 0)
	if err != nil {
		return types.ResearchData{}, fmt.Errorf("SERP API request: %v: %w", err, ErrTransient)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.ResearchData{}, fmt.Errorf("SERP API returned HTTP %d: %w", resp.StatusCode, ErrTransient)
	}

	var sr serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return types.ResearchData{}, fmt.Errorf("parsing SERP response: %v: %w", err, ErrMalformed)
	}

	data := types.ResearchData{Keyword: keyword}
	for i, o := range sr.OrganicResults {
		if i >= maxResults {
			break
		}
		data.SERPResults = append(data.SERPResults, types.SERPResult{
			Title:   o.Title,
			URL:     o.Link,
			Snippet: o.Snippet,
		})
	}
	for _, q := range sr.RelatedQuestions {
		data.RelatedQuestions = append(data.RelatedQuestions, q.Question)
	}
	for _, s := range sr.RelatedSearches {
		data.RelatedKeywords = append(data.RelatedKeywords, s.Query)
	}

	if len(data.SERPResults) == 0 && len(data.RelatedQuestions) == 0 {
		return types.ResearchData{}, fmt.Errorf("SERP response carried no results: %w", ErrMalformed)
	}
	return data, nil
}
