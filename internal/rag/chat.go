package rag

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"clinsim/internal/llmservice"
	"clinsim/internal/models"
)

const missedPointQueryPrefix = "Information missed by student: "

// ChatService composes indexing, retrieval and coverage analysis into one
// grounded chat turn and delegates the completion to the LLM client.
type ChatService struct {
	cases       *CaseCache
	transcripts *TranscriptCache
	retriever   *Retriever
	coverage    *CoverageAnalyzer
	completer   llmservice.Completer
}

func NewChatService(cases *CaseCache, transcripts *TranscriptCache, retriever *Retriever, coverage *CoverageAnalyzer, completer llmservice.Completer) *ChatService {
	return &ChatService{
		cases:       cases,
		transcripts: transcripts,
		retriever:   retriever,
		coverage:    coverage,
		completer:   completer,
	}
}

// Preload builds and caches the case store ahead of the first chat turn.
// It reports whether the case was already cached.
func (s *ChatService) Preload(ctx context.Context, caseID string) (bool, error) {
	if s.cases.Loaded(caseID) {
		return true, nil
	}
	_, err := s.cases.Get(ctx, caseID)
	return false, err
}

// Chat runs one grounded chat turn. Unknown chat types bypass grounding
// entirely and forward the message list unmodified.
func (s *ChatService) Chat(ctx context.Context, req models.ChatRequest) (models.ChatMessage, error) {
	if len(req.Messages) == 0 || req.CaseID == "" {
		return models.ChatMessage{}, models.ValidationError("messages and caseId are required")
	}

	if req.ChatType != models.ChatTypePatient && req.ChatType != models.ChatTypePhysician {
		log.Warn().Str("chat_type", req.ChatType).Msg("Unknown chat type, proceeding without retrieval context")
		return s.completer.Complete(ctx, req.Messages)
	}

	store, err := s.cases.Get(ctx, req.CaseID)
	if err != nil {
		return models.ChatMessage{}, err
	}

	pool := store.PatientDocs
	physician := req.ChatType == models.ChatTypePhysician
	if physician {
		pool = store.PhysicianDocs
	}

	var transcriptMsg *models.ChatMessage
	var report *models.CoverageReport
	if physician {
		transcriptMsg = findTranscriptMessage(req.Messages)
		transcriptText := ""
		if transcriptMsg != nil {
			transcriptText = stripSentinel(transcriptMsg.Content)
		}

		transcriptDocs, err := s.transcripts.Resolve(ctx, req.CaseID, transcriptText)
		if err != nil {
			return models.ChatMessage{}, err
		}
		pool = append(append([]models.Document{}, pool...), transcriptDocs...)

		if transcriptMsg != nil && len(store.PhysicianKeyPoints) > 0 {
			report, err = s.coverage.Analyze(ctx, transcriptText, store.PhysicianKeyPoints)
			if err != nil {
				return models.ChatMessage{}, err
			}
			log.Debug().Str("case_id", req.CaseID).Msg("Performance analysis summary:\n" + report.Summary)
		}
	}

	conversation := conversationMessages(req.Messages)

	var queries []string
	if len(conversation) > 0 && conversation[len(conversation)-1].Content != "" {
		queries = append(queries, conversation[len(conversation)-1].Content)
	}
	if report != nil {
		for _, point := range report.Missed {
			queries = append(queries, missedPointQueryPrefix+point)
		}
	}

	grounding := ""
	if len(queries) > 0 && len(pool) > 0 {
		retrieved, err := s.retriever.Retrieve(ctx, queries, pool)
		if err != nil {
			return models.ChatMessage{}, err
		}
		grounding = ContextBlock(retrieved)
		log.Debug().Str("case_id", req.CaseID).Str("chat_type", req.ChatType).Int("documents", len(retrieved)).Msg("Retrieved combined context")
	}

	augmented := []models.ChatMessage{
		{Role: models.RoleSystem, Content: req.Messages[0].Content},
	}
	if grounding != "" {
		augmented = append(augmented, models.ChatMessage{
			Role:    models.RoleSystem,
			Content: models.GroundingPreamble + "\n" + grounding,
		})
	}
	if physician {
		if transcriptMsg != nil {
			augmented = append(augmented, *transcriptMsg)
		}
		if report != nil {
			augmented = append(augmented, models.ChatMessage{
				Role:    models.RoleSystem,
				Content: models.CoveragePreamble + "\n" + report.Summary,
			})
		}
	}
	augmented = append(augmented, conversation...)

	return s.completer.Complete(ctx, augmented)
}

func isTranscriptMessage(m models.ChatMessage) bool {
	return m.Role == models.RoleSystem && strings.HasPrefix(m.Content, models.TranscriptSentinel)
}

func findTranscriptMessage(messages []models.ChatMessage) *models.ChatMessage {
	for i := range messages {
		if isTranscriptMessage(messages[i]) {
			return &messages[i]
		}
	}
	return nil
}

func stripSentinel(content string) string {
	return strings.TrimLeft(strings.TrimPrefix(content, models.TranscriptSentinel), "\n")
}

// conversationMessages filters the caller's message list down to the
// actual dialogue: system messages and the transcript payload are carried
// separately during prompt assembly.
func conversationMessages(messages []models.ChatMessage) []models.ChatMessage {
	var out []models.ChatMessage
	for _, m := range messages {
		if m.Role == models.RoleSystem {
			continue
		}
		out = append(out, m)
	}
	return out
}
