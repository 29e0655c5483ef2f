package rag

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
)

// stubEmbedder returns fixed vectors for known texts and a deterministic
// unit vector derived from the text otherwise. It records batch calls so
// tests can assert how often indexing actually ran.
type stubEmbedder struct {
	vectors map[string][]float32

	mu         sync.Mutex
	docBatches [][]string
	queryCalls int
}

func newStubEmbedder(vectors map[string][]float32) *stubEmbedder {
	return &stubEmbedder{vectors: vectors}
}

func (s *stubEmbedder) vec(text string) []float32 {
	if v, ok := s.vectors[text]; ok {
		return v
	}
	h := fnv.New32a()
	h.Write([]byte(text))
	angle := float64(h.Sum32()%3600) / 3600 * 2 * math.Pi
	return []float32{float32(math.Cos(angle)), float32(math.Sin(angle))}
}

func (s *stubEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	s.queryCalls++
	s.mu.Unlock()
	return s.vec(text), nil
}

func (s *stubEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	s.docBatches = append(s.docBatches, texts)
	s.mu.Unlock()
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = s.vec(text)
	}
	return vectors, nil
}

func (s *stubEmbedder) batchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docBatches)
}

func (s *stubEmbedder) batchesWithFirst(text string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, batch := range s.docBatches {
		if len(batch) > 0 && batch[0] == text {
			n++
		}
	}
	return n
}
