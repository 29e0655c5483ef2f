package models

// DocMetadata describes where a retrievable chunk came from.
// Case chunks carry Path and Level; transcript chunks carry TurnNumber.
type DocMetadata struct {
	Source     string   `json:"source"`
	Path       string   `json:"path,omitempty"`
	Level      int      `json:"level"`
	TurnNumber int      `json:"turn_number,omitempty"`
	Keywords   []string `json:"keywords"`
}

// Document is a chunk of retrievable, embedded text.
type Document struct {
	Text      string      `json:"text"`
	Embedding []float32   `json:"embedding"`
	Metadata  DocMetadata `json:"metadata"`
}

// Chunk is a unit of chunked text before embedding. Case chunks carry
// Path and Level; transcript chunks carry TurnNumber.
type Chunk struct {
	Text       string
	Source     string
	Path       string
	Level      int
	TurnNumber int
	Keywords   []string
}

// KeyPoint is an expected clinical history item from the physician file,
// embedded once at indexing time and shared read-only across turns.
type KeyPoint struct {
	Point     string    `json:"point"`
	Embedding []float32 `json:"embedding"`
}

// CaseStore holds everything indexed for one case.
type CaseStore struct {
	PatientDocs        []Document
	PhysicianDocs      []Document
	PhysicianKeyPoints []KeyPoint
}

// TranscriptStore holds the indexed transcript for one case plus the
// digest of the source text used for change detection.
type TranscriptStore struct {
	Documents []Document
	Hash      string
}

// CoverageReport is the outcome of matching the student's questions
// against a case's key history points.
type CoverageReport struct {
	Summary string   `json:"summary"`
	Covered []string `json:"covered"`
	Missed  []string `json:"missed"`
}
