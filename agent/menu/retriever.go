// Package menu ingests chunked menu text into an in-process similarity
// index and answers top-k passage lookups for grounding menu replies.
package menu

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	contractx "github.com/bellavista/concierge/agent/contract"
)

// NotAvailableNotice is the sentinel returned by Query before any
// successful ingestion. Callers get it as a normal result, never an error.
const NotAvailableNotice = "Menu information is not available yet."

// Embedder is the external embedding collaborator.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

type Config struct {
	ChunkSize      int           `split_words:"true" default:"500"`
	ChunkOverlap   int           `split_words:"true" default:"50"`
	MinIngestChars int           `split_words:"true" default:"100"`
	TopK           int           `split_words:"true" default:"3"`
	Timeout        time.Duration `split_words:"true" default:"15s"`
}

// index is an immutable snapshot. Ingestion builds a fresh one off to the
// side and swaps the pointer, so queries never observe a half-built index.
type index struct {
	source  string
	chunks  []Chunk
	vectors [][]float64
}

type Retriever struct {
	embedder Embedder
	cfg      Config

	mu  sync.RWMutex
	idx *index
}

var _ contractx.Retriever = (*Retriever)(nil)

func NewRetriever(embedder Embedder, cfg Config) (*Retriever, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 500
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = 0
	}
	if cfg.MinIngestChars <= 0 {
		cfg.MinIngestChars = 100
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Retriever{embedder: embedder, cfg: cfg}, nil
}

// Ingest chunks and embeds raw menu text, then atomically replaces the
// current index. A failed ingestion leaves the previous index intact.
func (r *Retriever) Ingest(ctx context.Context, source, raw string) error {
	text := strings.TrimSpace(raw)
	if len(text) < r.cfg.MinIngestChars {
		return fmt.Errorf("%w: extracted text too short (%d chars, need %d)", contractx.ErrValidation, len(text), r.cfg.MinIngestChars)
	}

	pieces := splitChunks(text, r.cfg.ChunkSize, r.cfg.ChunkOverlap)
	chunks := make([]Chunk, len(pieces))
	texts := make([]string, len(pieces))
	for i, piece := range pieces {
		chunks[i] = Chunk{ID: i, Source: source, Text: piece}
		texts[i] = piece
	}

	embedCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	vectors, err := r.embedder.Embed(embedCtx, texts)
	if err != nil {
		return fmt.Errorf("%w: embed chunks: %v", contractx.ErrRetrievalUnavailable, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: embedder returned %d vectors for %d chunks", contractx.ErrRetrievalUnavailable, len(vectors), len(chunks))
	}

	fresh := &index{source: source, chunks: chunks, vectors: vectors}

	r.mu.Lock()
	r.idx = fresh
	r.mu.Unlock()
	return nil
}

// ChunkCount reports the size of the current index, zero when unbuilt.
func (r *Retriever) ChunkCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.idx == nil {
		return 0
	}
	return len(r.idx.chunks)
}

// Query returns up to k passages ordered by similarity. With no index
// built it returns the single NotAvailableNotice sentinel and no error.
func (r *Retriever) Query(ctx context.Context, question string, k int) ([]string, error) {
	r.mu.RLock()
	snapshot := r.idx
	r.mu.RUnlock()

	if snapshot == nil {
		return []string{NotAvailableNotice}, nil
	}
	if k <= 0 {
		k = r.cfg.TopK
	}

	embedCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	vectors, err := r.embedder.Embed(embedCtx, []string{question})
	if err != nil || len(vectors) != 1 {
		return nil, fmt.Errorf("%w: embed query: %v", contractx.ErrRetrievalUnavailable, err)
	}
	query := vectors[0]

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, 0, len(snapshot.chunks))
	for i, vec := range snapshot.vectors {
		ranked = append(ranked, scored{idx: i, score: cosine(query, vec)})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]string, 0, k)
	for _, s := range ranked[:k] {
		out = append(out, snapshot.chunks[s.idx].Text)
	}
	return out, nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
