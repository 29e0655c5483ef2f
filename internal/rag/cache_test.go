package rag

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinsim/internal/casefile"
	"clinsim/internal/models"
)

func TestCaseCacheBuildsOnce(t *testing.T) {
	dir := t.TempDir()
	writeCaseFixtures(t, dir)
	embedder := newStubEmbedder(nil)
	cache := NewCaseCache(NewIndexer(casefile.NewStore(dir), embedder))

	require.False(t, cache.Loaded("peds001"))

	first, err := cache.Get(context.Background(), "peds001")
	require.NoError(t, err)
	require.True(t, cache.Loaded("peds001"))
	batches := embedder.batchCount()
	require.Greater(t, batches, 0)

	second, err := cache.Get(context.Background(), "peds001")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, batches, embedder.batchCount(), "cached case must not reindex")
}

func TestCaseCacheConcurrentGet(t *testing.T) {
	dir := t.TempDir()
	writeCaseFixtures(t, dir)
	cache := NewCaseCache(NewIndexer(casefile.NewStore(dir), newStubEmbedder(nil)))

	stores := make([]*models.CaseStore, 4)
	var wg sync.WaitGroup
	for i := range stores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store, err := cache.Get(context.Background(), "peds001")
			assert.NoError(t, err)
			stores[i] = store
		}(i)
	}
	wg.Wait()

	for _, store := range stores {
		assert.Same(t, stores[0], store)
	}
}

func TestTranscriptCacheReusesUnchangedTranscript(t *testing.T) {
	embedder := newStubEmbedder(nil)
	cache := NewTranscriptCache(NewIndexer(casefile.NewStore(t.TempDir()), embedder))

	transcript := "Student: When did the cough start exactly?\n" +
		"Patient: It started about three days ago at night."

	first, err := cache.Resolve(context.Background(), "peds001", transcript)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Equal(t, 1, embedder.batchCount())

	second, err := cache.Resolve(context.Background(), "peds001", transcript)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, embedder.batchCount(), "identical transcript must not reembed")
}

func TestTranscriptCacheRebuildsOnChange(t *testing.T) {
	embedder := newStubEmbedder(nil)
	cache := NewTranscriptCache(NewIndexer(casefile.NewStore(t.TempDir()), embedder))

	transcript := "Student: When did the cough start exactly?\n" +
		"Patient: It started about three days ago at night."
	_, err := cache.Resolve(context.Background(), "peds001", transcript)
	require.NoError(t, err)

	grown := transcript + "\nStudent: Has there been any fever alongside the cough?"
	docs, err := cache.Resolve(context.Background(), "peds001", grown)
	require.NoError(t, err)
	assert.Equal(t, 2, embedder.batchCount(), "changed transcript must rebuild the store")
	require.Len(t, docs, 3)
	assert.Equal(t, 2, docs[2].Metadata.TurnNumber)
}

func TestTranscriptCacheEmptyTranscript(t *testing.T) {
	embedder := newStubEmbedder(nil)
	cache := NewTranscriptCache(NewIndexer(casefile.NewStore(t.TempDir()), embedder))

	docs, err := cache.Resolve(context.Background(), "peds001", "")
	require.NoError(t, err)
	assert.Nil(t, docs)
	assert.Zero(t, embedder.batchCount())

	transcript := "Patient: It started about three days ago at night."
	indexed, err := cache.Resolve(context.Background(), "peds001", transcript)
	require.NoError(t, err)
	require.NotEmpty(t, indexed)

	// An empty transcript afterwards still serves the cached store.
	cached, err := cache.Resolve(context.Background(), "peds001", "")
	require.NoError(t, err)
	assert.Equal(t, indexed, cached)
}
