package rag

import (
	"context"
	"sort"
	"strings"

	"clinsim/internal/config"
	"clinsim/internal/embedding"
	"clinsim/internal/models"
	"clinsim/internal/parser"
)

// ScoredDocument is a pooled document with its combined relevance score
// for one query.
type ScoredDocument struct {
	models.Document
	Score float64
}

// Retriever ranks a document pool against one or more queries using a
// hybrid score: cosine similarity plus a weighted keyword-overlap bonus.
type Retriever struct {
	embedder embedding.Provider
	cfg      config.RetrievalConfig
}

func NewRetriever(embedder embedding.Provider, cfg config.RetrievalConfig) *Retriever {
	return &Retriever{embedder: embedder, cfg: cfg}
}

// Retrieve scores the whole pool per query, keeps the top KInitial
// candidates of each query, then deduplicates by exact text keeping the
// best-scoring instance and returns the top KFinal overall. KInitial
// over-fetches per query so a multi-query batch cannot starve any single
// query's best matches during the final truncation.
func (r *Retriever) Retrieve(ctx context.Context, queries []string, pool []models.Document) ([]ScoredDocument, error) {
	if len(queries) == 0 || len(pool) == 0 {
		return nil, nil
	}

	var candidates []ScoredDocument
	for _, query := range queries {
		vec, err := r.embedder.EmbedQuery(ctx, query)
		if err != nil {
			return nil, &models.ServiceError{Op: "embedding", Err: err}
		}
		queryKeywords := keywordSet(parser.ExtractKeywords(query))

		scored := make([]ScoredDocument, len(pool))
		for i, doc := range pool {
			semantic := embedding.CosineSimilarity(vec, doc.Embedding)
			overlap := 0
			for _, kw := range doc.Metadata.Keywords {
				if _, ok := queryKeywords[kw]; ok {
					overlap++
				}
			}
			scored[i] = ScoredDocument{
				Document: doc,
				Score:    semantic + r.cfg.KeywordWeight*float64(overlap),
			}
		}
		sortByScore(scored)
		k := r.cfg.KInitial
		if k > len(scored) {
			k = len(scored)
		}
		candidates = append(candidates, scored[:k]...)
	}

	best := make(map[string]ScoredDocument, len(candidates))
	for _, cand := range candidates {
		if existing, ok := best[cand.Text]; !ok || cand.Score > existing.Score {
			best[cand.Text] = cand
		}
	}
	unique := make([]ScoredDocument, 0, len(best))
	for _, doc := range best {
		unique = append(unique, doc)
	}
	sortByScore(unique)
	if len(unique) > r.cfg.KFinal {
		unique = unique[:r.cfg.KFinal]
	}
	return unique, nil
}

// ContextBlock joins the retrieved texts into a single grounding block,
// ranking order preserved, blank line between documents.
func ContextBlock(docs []ScoredDocument) string {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}
	return strings.Join(texts, "\n\n")
}

func sortByScore(docs []ScoredDocument) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Score != docs[j].Score {
			return docs[i].Score > docs[j].Score
		}
		return docs[i].Text < docs[j].Text
	})
}

func keywordSet(keywords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		set[kw] = struct{}{}
	}
	return set
}
