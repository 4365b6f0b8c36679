package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for transcript documents.
//
// Transcripts get English stemming and term vectors for highlighting;
// language and format are exact-match keyword fields for filtering;
// duration and updated_at are numeric for range queries and sorting.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// Transcript text is the primary search target.
	transcriptFieldMapping := bleve.NewTextFieldMapping()
	transcriptFieldMapping.Analyzer = en.AnalyzerName
	transcriptFieldMapping.Store = true
	transcriptFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("transcript", transcriptFieldMapping)

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	languageFieldMapping := bleve.NewTextFieldMapping()
	languageFieldMapping.Analyzer = keyword.Name
	languageFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("language", languageFieldMapping)

	formatFieldMapping := bleve.NewTextFieldMapping()
	formatFieldMapping.Analyzer = keyword.Name
	formatFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("format", formatFieldMapping)

	durationFieldMapping := bleve.NewNumericFieldMapping()
	durationFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("duration", durationFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
