package search

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolabapp/audiolab-server/internal/domain"
)

func setupTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := NewIndex(Options{
		DataPath: t.TempDir(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, idx.Close())
	})

	return idx
}

func indexedAudio(id, transcript string, lang domain.Language) *domain.Audio {
	a := domain.NewAudio(id, "/tmp/"+id+".wav", domain.FormatWAV)
	a.Transcript = transcript
	a.DetectedLanguage = lang
	return a
}

func TestIndex_SearchByTranscriptText(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexTranscript(indexedAudio("aud-one", "the quick brown fox jumps over the lazy dog", domain.LanguageEnglish)))
	require.NoError(t, idx.IndexTranscript(indexedAudio("aud-two", "weather forecast for tomorrow is sunny", domain.LanguageEnglish)))

	result, err := idx.Search(context.Background(), SearchParams{Query: "fox"})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "aud-one", result.Hits[0].ID)
	assert.NotEmpty(t, result.Hits[0].Fragment)
}

func TestIndex_LanguageFilter(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexTranscript(indexedAudio("aud-en", "hello morning news", domain.LanguageEnglish)))
	require.NoError(t, idx.IndexTranscript(indexedAudio("aud-fr", "hello morning news", domain.LanguageFrench)))

	result, err := idx.Search(context.Background(), SearchParams{
		Query:    "morning",
		Language: domain.LanguageFrench,
	})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "aud-fr", result.Hits[0].ID)
	assert.Equal(t, "french", result.Hits[0].Language)
}

func TestIndex_EmptyTranscriptRemovesDocument(t *testing.T) {
	idx := setupTestIndex(t)

	audio := indexedAudio("aud-gone", "soon to be removed", domain.LanguageEnglish)
	require.NoError(t, idx.IndexTranscript(audio))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	audio.Transcript = ""
	require.NoError(t, idx.IndexTranscript(audio))

	count, err = idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndex_MatchAllWhenNoQuery(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexTranscript(indexedAudio("aud-a", "first transcript", domain.LanguageEnglish)))
	require.NoError(t, idx.IndexTranscript(indexedAudio("aud-b", "second transcript", domain.LanguageGerman)))

	result, err := idx.Search(context.Background(), SearchParams{})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)
}

func TestIndex_ReopenKeepsDocuments(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	idx, err := NewIndex(Options{DataPath: dir, Logger: logger})
	require.NoError(t, err)
	require.NoError(t, idx.IndexTranscript(indexedAudio("aud-keep", "persisted across restarts", domain.LanguageEnglish)))
	require.NoError(t, idx.Close())

	reopened, err := NewIndex(Options{DataPath: dir, Logger: logger})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestNoopIndexer(t *testing.T) {
	var indexer TranscriptIndexer = &NoopIndexer{}
	assert.NoError(t, indexer.IndexTranscript(indexedAudio("aud-x", "ignored", domain.LanguageEnglish)))
	assert.NoError(t, indexer.DeleteTranscript("aud-x"))
}
