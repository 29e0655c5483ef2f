package rag

import (
	"context"
	"strings"

	"clinsim/internal/embedding"
	"clinsim/internal/models"
)

const noQuestionsSummary = "The student did not ask any discernible questions during the patient interaction."

// CoverageAnalyzer matches the student's transcript questions against a
// case's pre-embedded key history points.
type CoverageAnalyzer struct {
	embedder  embedding.Provider
	threshold float64
}

func NewCoverageAnalyzer(embedder embedding.Provider, threshold float64) *CoverageAnalyzer {
	return &CoverageAnalyzer{embedder: embedder, threshold: threshold}
}

// Analyze determines which key points the student's questions covered.
// A point counts as covered at the first student line whose embedding
// reaches the similarity threshold (inclusive); the rest stay missed in
// their original order.
func (a *CoverageAnalyzer) Analyze(ctx context.Context, transcript string, keyPoints []models.KeyPoint) (*models.CoverageReport, error) {
	var questions []string
	for _, line := range strings.Split(transcript, "\n") {
		if strings.HasPrefix(line, models.StudentLinePrefix) {
			questions = append(questions, strings.TrimSpace(line[len(models.StudentLinePrefix):]))
		}
	}

	if len(questions) == 0 {
		missed := make([]string, len(keyPoints))
		for i, point := range keyPoints {
			missed[i] = point.Point
		}
		return &models.CoverageReport{
			Summary: noQuestionsSummary,
			Covered: []string{},
			Missed:  missed,
		}, nil
	}

	vectors, err := a.embedder.EmbedDocuments(ctx, questions)
	if err != nil {
		return nil, &models.ServiceError{Op: "embedding", Err: err}
	}

	covered := []string{}
	missed := []string{}
	for _, point := range keyPoints {
		hit := false
		for _, vec := range vectors {
			if embedding.CosineSimilarity(point.Embedding, vec) >= a.threshold {
				hit = true
				break
			}
		}
		if hit {
			covered = append(covered, point.Point)
		} else {
			missed = append(missed, point.Point)
		}
	}

	return &models.CoverageReport{
		Summary: coverageSummary(covered, missed),
		Covered: covered,
		Missed:  missed,
	}, nil
}

func coverageSummary(covered, missed []string) string {
	var b strings.Builder
	b.WriteString("Student's History Taking Performance:\n\n")
	if len(covered) > 0 {
		b.WriteString("Information Successfully Elicited:\n- " + strings.Join(covered, "\n- ") + "\n")
	} else {
		b.WriteString("No specific key information points were identified as successfully elicited.\n")
	}
	if len(missed) > 0 {
		b.WriteString("\nInformation Potentially Missed (Areas for Further Inquiry):\n- " + strings.Join(missed, "\n- ") + "\n")
	} else if len(covered) > 0 {
		b.WriteString("\nAll identified key information points were successfully elicited.\n")
	}
	return b.String()
}
