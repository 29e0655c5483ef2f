package rag

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"clinsim/internal/casefile"
	"clinsim/internal/embedding"
	"clinsim/internal/models"
	"clinsim/internal/parser"
)

// Indexer turns case records and transcripts into embedded document stores.
type Indexer struct {
	cases    *casefile.Store
	embedder embedding.Provider
}

func NewIndexer(cases *casefile.Store, embedder embedding.Provider) *Indexer {
	return &Indexer{cases: cases, embedder: embedder}
}

// IndexCase loads one variant of a case record and produces its embedded
// documents plus, for the physician variant, the embedded key history
// points. A record that cannot be loaded or parsed degrades to an empty
// store; an embedding provider failure aborts the build.
func (ix *Indexer) IndexCase(ctx context.Context, caseID, variant string) ([]models.Document, []models.KeyPoint, error) {
	var fields []models.CaseField
	var pointTexts []string

	switch variant {
	case models.VariantPatient:
		record, err := ix.cases.LoadPatientCase(caseID)
		if err != nil {
			log.Warn().Err(err).Str("case_id", caseID).Str("variant", variant).Msg("Case record unavailable, indexing skipped")
			return nil, nil, nil
		}
		fields = record.Fields()
	case models.VariantPhysician:
		record, err := ix.cases.LoadPhysicianCase(caseID)
		if err != nil {
			log.Warn().Err(err).Str("case_id", caseID).Str("variant", variant).Msg("Case record unavailable, indexing skipped")
			return nil, nil, nil
		}
		fields = record.Fields()
		pointTexts = record.KeyPointTexts()
	default:
		return nil, nil, fmt.Errorf("unknown case variant %q", variant)
	}

	keyPoints, err := ix.embedKeyPoints(ctx, pointTexts)
	if err != nil {
		return nil, nil, err
	}

	chunks := parser.ChunkCase(variant, fields)
	docs, err := ix.embedChunks(ctx, chunks)
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("case_id", caseID).Str("variant", variant).Int("chunks", len(docs)).Msg("Indexed case record")
	return docs, keyPoints, nil
}

// BuildCaseStore indexes both variants of a case, concurrently.
func (ix *Indexer) BuildCaseStore(ctx context.Context, caseID string) (*models.CaseStore, error) {
	var store models.CaseStore
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, _, err := ix.IndexCase(ctx, caseID, models.VariantPatient)
		store.PatientDocs = docs
		return err
	})
	g.Go(func() error {
		docs, points, err := ix.IndexCase(ctx, caseID, models.VariantPhysician)
		store.PhysicianDocs = docs
		store.PhysicianKeyPoints = points
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &store, nil
}

// IndexTranscript chunks and embeds the accumulated patient transcript.
// A transcript with no retained lines yields an empty store.
func (ix *Indexer) IndexTranscript(ctx context.Context, transcript string) ([]models.Document, error) {
	chunks := parser.ChunkTranscript(transcript)
	if len(chunks) == 0 {
		log.Warn().Msg("No meaningful chunks found in patient transcript after overlap processing")
		return nil, nil
	}
	return ix.embedChunks(ctx, chunks)
}

func (ix *Indexer) embedChunks(ctx context.Context, chunks []models.Chunk) ([]models.Document, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	vectors, err := ix.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, &models.ServiceError{Op: "embedding", Err: err}
	}
	if len(vectors) != len(chunks) {
		return nil, &models.ServiceError{Op: "embedding", Err: fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks))}
	}
	docs := make([]models.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = models.Document{
			Text:      chunk.Text,
			Embedding: vectors[i],
			Metadata: models.DocMetadata{
				Source:     chunk.Source,
				Path:       chunk.Path,
				Level:      chunk.Level,
				TurnNumber: chunk.TurnNumber,
				Keywords:   chunk.Keywords,
			},
		}
	}
	return docs, nil
}

func (ix *Indexer) embedKeyPoints(ctx context.Context, pointTexts []string) ([]models.KeyPoint, error) {
	if len(pointTexts) == 0 {
		return nil, nil
	}
	vectors, err := ix.embedder.EmbedDocuments(ctx, pointTexts)
	if err != nil {
		return nil, &models.ServiceError{Op: "embedding", Err: err}
	}
	points := make([]models.KeyPoint, len(pointTexts))
	for i, text := range pointTexts {
		points[i] = models.KeyPoint{Point: text, Embedding: vectors[i]}
	}
	return points, nil
}

// HashTranscript digests the raw transcript text for change detection.
func HashTranscript(transcript string) string {
	sum := md5.Sum([]byte(transcript))
	return hex.EncodeToString(sum[:])
}
