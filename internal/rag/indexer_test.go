package rag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinsim/internal/casefile"
	"clinsim/internal/models"
)

const patientFixture = `{
  "summary": {"chief_complaint": "cough"},
  "system_prompt": "You are a four year old with a cough.",
  "symptoms": ["cough", "runny nose"],
  "patient_responses": {"fever": "I felt hot last night."}
}`

const physicianFixture = `{
  "summary": {"diagnosis": "viral URI"},
  "system_prompt": "You are the attending physician teaching a student.",
  "keyHistoryPoints": [
    {"point": "Asks about fever"},
    {"point": "Asks about vaccination history"}
  ],
  "differentialDiagnosis": ["croup", "bronchiolitis"]
}`

const catalogFixture = `[
  {"id": "peds001", "title": "Pediatric cough", "summary": "A four year old with three days of cough.", "specialty": "Pediatrics"}
]`

func writeCaseFixtures(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cases"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "patient_cases.json"), []byte(catalogFixture), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cases", "peds001_patient.json"), []byte(patientFixture), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cases", "peds001_physician.json"), []byte(physicianFixture), 0o644))
}

func TestIndexCaseMissingRecord(t *testing.T) {
	indexer := NewIndexer(casefile.NewStore(t.TempDir()), newStubEmbedder(nil))

	docs, points, err := indexer.IndexCase(context.Background(), "nosuch", models.VariantPatient)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Empty(t, points)
}

func TestIndexCasePatient(t *testing.T) {
	dir := t.TempDir()
	writeCaseFixtures(t, dir)
	indexer := NewIndexer(casefile.NewStore(dir), newStubEmbedder(nil))

	docs, points, err := indexer.IndexCase(context.Background(), "peds001", models.VariantPatient)
	require.NoError(t, err)
	require.NotEmpty(t, docs)
	assert.Empty(t, points)

	for _, doc := range docs {
		assert.NotEmpty(t, doc.Text)
		assert.Len(t, doc.Embedding, 2)
	}
}

func TestIndexCasePhysicianKeyPoints(t *testing.T) {
	dir := t.TempDir()
	writeCaseFixtures(t, dir)
	embedder := newStubEmbedder(nil)
	indexer := NewIndexer(casefile.NewStore(dir), embedder)

	docs, points, err := indexer.IndexCase(context.Background(), "peds001", models.VariantPhysician)
	require.NoError(t, err)
	require.NotEmpty(t, docs)

	require.Len(t, points, 2)
	assert.Equal(t, "Asks about fever", points[0].Point)
	assert.Equal(t, "Asks about vaccination history", points[1].Point)
	assert.NotEmpty(t, points[0].Embedding)

	// The key point field is also chunked generically for retrieval.
	found := false
	for _, doc := range docs {
		if doc.Metadata.Source == "physician keyHistoryPoints" {
			found = true
			break
		}
	}
	assert.True(t, found, "keyHistoryPoints chunks missing from document store")
}

func TestBuildCaseStore(t *testing.T) {
	dir := t.TempDir()
	writeCaseFixtures(t, dir)
	indexer := NewIndexer(casefile.NewStore(dir), newStubEmbedder(nil))

	store, err := indexer.BuildCaseStore(context.Background(), "peds001")
	require.NoError(t, err)
	assert.NotEmpty(t, store.PatientDocs)
	assert.NotEmpty(t, store.PhysicianDocs)
	assert.Len(t, store.PhysicianKeyPoints, 2)
}

type failingEmbedder struct{}

func (failingEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return nil, errors.New("provider down")
}

func (failingEmbedder) EmbedDocuments(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("provider down")
}

func TestIndexCaseEmbeddingFailure(t *testing.T) {
	dir := t.TempDir()
	writeCaseFixtures(t, dir)
	indexer := NewIndexer(casefile.NewStore(dir), failingEmbedder{})

	_, _, err := indexer.IndexCase(context.Background(), "peds001", models.VariantPatient)
	require.Error(t, err)
	var svcErr *models.ServiceError
	assert.ErrorAs(t, err, &svcErr)
}

func TestHashTranscript(t *testing.T) {
	text := "Student: When did the cough start?\nPatient: Three days ago."
	assert.Equal(t, HashTranscript(text), HashTranscript(text))
	assert.NotEqual(t, HashTranscript(text), HashTranscript(text+"!"))
}
