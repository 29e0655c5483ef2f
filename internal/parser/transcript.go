package parser

import (
	"strings"

	"clinsim/internal/models"
)

const (
	// transcriptOverlap is the number of preceding retained lines folded
	// into each transcript chunk.
	transcriptOverlap = 2
	// minTranscriptLine filters out greetings and other one-word noise.
	minTranscriptLine = 21
)

// ChunkTranscript splits a raw newline-delimited transcript into
// overlapping line-windowed chunks tagged with their turn order. Lines
// whose trimmed length is below the noise threshold are dropped before
// windowing, and the window never reaches before the first retained line.
func ChunkTranscript(transcript string) []models.Chunk {
	var lines []string
	for _, line := range strings.Split(transcript, "\n") {
		if len(strings.TrimSpace(line)) >= minTranscriptLine {
			lines = append(lines, line)
		}
	}

	var chunks []models.Chunk
	for i, line := range lines {
		text := line
		for j := 1; j <= transcriptOverlap; j++ {
			if i-j < 0 {
				break
			}
			text = lines[i-j] + "\n" + text
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Text:       text,
			Source:     models.TranscriptSource,
			TurnNumber: i,
			Keywords:   ExtractKeywords(text),
		})
	}
	return chunks
}
