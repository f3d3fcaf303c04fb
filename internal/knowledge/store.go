// Package knowledge is the in-memory retrieval store behind the question
// agent. Study material is split into passages and indexed with chromem-go.
package knowledge

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"

	chromem "github.com/philippgille/chromem-go"
)

const collectionName = "knowledge"

// Passage is one indexed chunk of study material.
type Passage struct {
	ID         string
	Source     string
	Text       string
	Similarity float32
}

// Store holds passages in a chromem-go collection.
type Store struct {
	collection *chromem.Collection
	seq        atomic.Uint64
}

// NewStore creates an empty store that embeds passages and queries with fn.
func NewStore(fn chromem.EmbeddingFunc) (*Store, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, fn)
	if err != nil {
		return nil, fmt.Errorf("create knowledge collection: %w", err)
	}
	return &Store{collection: col}, nil
}

// AddText chunks text and indexes every chunk under source. It returns the
// number of passages added.
func (s *Store) AddText(ctx context.Context, source, text string) (int, error) {
	chunks := Chunk(text, DefaultChunkRunes)
	if len(chunks) == 0 {
		return 0, nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:       fmt.Sprintf("p%d", s.seq.Add(1)),
			Content:  c,
			Metadata: map[string]string{"source": source},
		}
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return 0, fmt.Errorf("index %s: %w", source, err)
	}
	return len(docs), nil
}

// Count returns the number of indexed passages.
func (s *Store) Count() int {
	return s.collection.Count()
}

// Search returns up to n passages most similar to query. Passages whose
// text repeats an earlier, better match are dropped.
func (s *Store) Search(ctx context.Context, query string, n int) ([]Passage, error) {
	count := s.collection.Count()
	if n <= 0 || count == 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	// Over-fetch so duplicates do not leave the result short.
	limit := min(n*2, count)
	results, err := s.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("knowledge query: %w", err)
	}

	seen := make(map[string]bool, len(results))
	out := make([]Passage, 0, n)
	for _, r := range results {
		key := normalize(r.Content)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Passage{
			ID:         r.ID,
			Source:     r.Metadata["source"],
			Text:       r.Content,
			Similarity: r.Similarity,
		})
		if len(out) == n {
			break
		}
	}
	return out, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
