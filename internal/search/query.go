package search

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/audiolabapp/audiolab-server/internal/domain"
)

// SearchParams configures a transcript search.
type SearchParams struct {
	Query       string          // Full-text query over transcripts
	Language    domain.Language // Optional exact language filter
	MinDuration float64         // Seconds; 0 means unbounded
	MaxDuration float64         // Seconds; 0 means unbounded
	Limit       int             // Max hits to return (default 20)
	Offset      int             // Pagination offset
}

// Hit is one transcript match.
type Hit struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Language string  `json:"language,omitempty"`
	Format   string  `json:"format,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Fragment string  `json:"fragment,omitempty"` // Highlighted transcript excerpt
}

// Result is a page of transcript matches.
type Result struct {
	Hits  []Hit         `json:"hits"`
	Total uint64        `json:"total"`
	Took  time.Duration `json:"took"`
}

// Search runs a full-text query over indexed transcripts.
func (s *Index) Search(ctx context.Context, params SearchParams) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), limit, params.Offset, false)
	req.Fields = []string{"language", "format", "duration"}
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Highlight.AddField("transcript")

	searchResult, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("transcript search: %w", err)
	}

	result := &Result{
		Hits:  make([]Hit, 0, len(searchResult.Hits)),
		Total: searchResult.Total,
		Took:  searchResult.Took,
	}

	for _, hit := range searchResult.Hits {
		h := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if lang, ok := hit.Fields["language"].(string); ok {
			h.Language = lang
		}
		if format, ok := hit.Fields["format"].(string); ok {
			h.Format = format
		}
		if d, ok := hit.Fields["duration"].(float64); ok {
			h.Duration = d
		}
		if fragments, ok := hit.Fragments["transcript"]; ok && len(fragments) > 0 {
			h.Fragment = fragments[0]
		}
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if params.Query != "" {
		textQueries := []query.Query{}

		// Stemmed match carries the most weight.
		match := bleve.NewMatchQuery(params.Query)
		match.SetField("transcript")
		match.SetBoost(3.0)
		textQueries = append(textQueries, match)

		// Fuzzy matching for typo tolerance.
		fuzzy := bleve.NewFuzzyQuery(params.Query)
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("transcript")
		fuzzy.SetBoost(0.8)
		textQueries = append(textQueries, fuzzy)

		// Prefix query for partial words (minimum 2 chars).
		if len(params.Query) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefix.SetField("transcript")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.Language != "" {
		lq := bleve.NewTermQuery(string(params.Language))
		lq.SetField("language")
		queries = append(queries, lq)
	}

	if params.MinDuration > 0 || params.MaxDuration > 0 {
		min := params.MinDuration
		max := params.MaxDuration
		if max == 0 {
			max = math.MaxFloat64
		}
		rq := bleve.NewNumericRangeQuery(&min, &max)
		rq.SetField("duration")
		queries = append(queries, rq)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	return bleve.NewConjunctionQuery(queries...)
}
