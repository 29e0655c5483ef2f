package rag

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"clinsim/internal/models"
)

// CaseCache memoizes indexed case stores for the lifetime of the process.
// Concurrent requests for the same uncached case share a single index
// build through the singleflight group; nothing is ever evicted.
type CaseCache struct {
	indexer *Indexer

	mu      sync.RWMutex
	entries map[string]*models.CaseStore
	group   singleflight.Group
}

func NewCaseCache(indexer *Indexer) *CaseCache {
	return &CaseCache{
		indexer: indexer,
		entries: make(map[string]*models.CaseStore),
	}
}

// Loaded reports whether the case is already cached.
func (c *CaseCache) Loaded(caseID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[caseID]
	return ok
}

// Get returns the cached store for a case, building it on first access.
func (c *CaseCache) Get(ctx context.Context, caseID string) (*models.CaseStore, error) {
	c.mu.RLock()
	store, ok := c.entries[caseID]
	c.mu.RUnlock()
	if ok {
		return store, nil
	}

	v, err, _ := c.group.Do(caseID, func() (any, error) {
		c.mu.RLock()
		store, ok := c.entries[caseID]
		c.mu.RUnlock()
		if ok {
			return store, nil
		}
		log.Info().Str("case_id", caseID).Msg("Case not cached, indexing on demand")
		built, err := c.indexer.BuildCaseStore(ctx, caseID)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[caseID] = built
		c.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.CaseStore), nil
}

// TranscriptCache holds the last indexed transcript per case together
// with its content digest. A digest change replaces the whole entry.
type TranscriptCache struct {
	indexer *Indexer

	mu      sync.RWMutex
	entries map[string]*models.TranscriptStore
}

func NewTranscriptCache(indexer *Indexer) *TranscriptCache {
	return &TranscriptCache{
		indexer: indexer,
		entries: make(map[string]*models.TranscriptStore),
	}
}

// Resolve returns the transcript documents for a case, reindexing first
// when the transcript text differs from the cached digest. An empty
// transcript never triggers indexing; whatever was cached still applies.
func (c *TranscriptCache) Resolve(ctx context.Context, caseID, transcript string) ([]models.Document, error) {
	c.mu.RLock()
	entry := c.entries[caseID]
	c.mu.RUnlock()

	if transcript != "" {
		hash := HashTranscript(transcript)
		if entry == nil || entry.Hash != hash {
			log.Info().Str("case_id", caseID).Msg("Processing patient transcript for retrieval (new or updated transcript)")
			docs, err := c.indexer.IndexTranscript(ctx, transcript)
			if err != nil {
				return nil, err
			}
			entry = &models.TranscriptStore{Documents: docs, Hash: hash}
			c.mu.Lock()
			c.entries[caseID] = entry
			c.mu.Unlock()
		}
	}

	if entry == nil {
		return nil, nil
	}
	return entry.Documents, nil
}
