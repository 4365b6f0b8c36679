package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/audiolabapp/audiolab-server/internal/domain"
	"github.com/audiolabapp/audiolab-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search-transcripts",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search transcripts",
		Description: "Full-text search over audio transcripts",
		Tags:        []string{"Search"},
	}, s.handleSearchTranscripts)
}

// === DTOs ===

// SearchInput contains parameters for searching transcripts.
type SearchInput struct {
	Query       string  `query:"q" doc:"Search query over transcript text"`
	Language    string  `query:"language" doc:"Exact language filter (e.g. english)"`
	MinDuration float64 `query:"min_duration" doc:"Minimum audio duration in seconds"`
	MaxDuration float64 `query:"max_duration" doc:"Maximum audio duration in seconds"`
	Limit       int     `query:"limit" doc:"Max results (default 20)"`
	Offset      int     `query:"offset" doc:"Pagination offset"`
}

// SearchHitResult is a single transcript match.
type SearchHitResult struct {
	ID       string  `json:"id" doc:"Audio record ID"`
	Score    float64 `json:"score" doc:"Search relevance score"`
	Language string  `json:"language,omitempty" doc:"Detected language"`
	Format   string  `json:"format,omitempty" doc:"Audio format"`
	Duration float64 `json:"duration,omitempty" doc:"Duration in seconds"`
	Fragment string  `json:"fragment,omitempty" doc:"Highlighted transcript excerpt"`
}

// SearchResponse contains transcript search results.
type SearchResponse struct {
	Query  string            `json:"query" doc:"Original search query"`
	Total  uint64            `json:"total" doc:"Total matches"`
	TookMs int64             `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits   []SearchHitResult `json:"hits" doc:"Search results"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

func (s *Server) handleSearchTranscripts(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if s.searchIndex == nil {
		return nil, huma.Error503ServiceUnavailable("transcript search is disabled")
	}

	lang := domain.Language(input.Language)
	if input.Language != "" && !lang.Valid() {
		return nil, huma.Error400BadRequest("unrecognized language: " + input.Language)
	}

	result, err := s.searchIndex.Search(ctx, search.SearchParams{
		Query:       input.Query,
		Language:    lang,
		MinDuration: input.MinDuration,
		MaxDuration: input.MaxDuration,
		Limit:       input.Limit,
		Offset:      input.Offset,
	})
	if err != nil {
		s.logger.Error("transcript search failed", "query", input.Query, "error", err)
		return nil, huma.Error500InternalServerError("search failed")
	}

	resp := SearchResponse{
		Query:  input.Query,
		Total:  result.Total,
		TookMs: result.Took.Milliseconds(),
		Hits:   make([]SearchHitResult, 0, len(result.Hits)),
	}
	for _, hit := range result.Hits {
		resp.Hits = append(resp.Hits, SearchHitResult{
			ID:       hit.ID,
			Score:    hit.Score,
			Language: hit.Language,
			Format:   hit.Format,
			Duration: hit.Duration,
			Fragment: hit.Fragment,
		})
	}

	return &SearchOutput{Body: resp}, nil
}
