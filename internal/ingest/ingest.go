// Package ingest validates and batches (content, embedding) pairs into
// the store.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"

	"github.com/nickcecere/semstore/internal/store"
	"github.com/nickcecere/semstore/internal/vector"
)

// Document is one (content, embedding) pair to be ingested.
type Document struct {
	Content   string
	Embedding []float32
}

// ValidationError reports the first document in a batch that failed
// validation. The whole batch is rejected; nothing is ingested.
type ValidationError struct {
	Index int    // position of the offending document in the batch
	Field string // "content" or "embedding"
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("document %d: invalid %s: %v", e.Index, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Options configures the pipeline's validation policy.
type Options struct {
	// AllowEmptyContent permits documents with empty content.
	AllowEmptyContent bool

	// SkipDuplicates drops documents whose content hash is already in
	// the store (or appeared earlier in the same batch) instead of
	// ingesting them again.
	SkipDuplicates bool
}

// Result reports what a call to Ingest did.
type Result struct {
	IDs     []int64 // assigned ids, in order of the ingested documents
	Skipped int     // duplicates dropped (only with SkipDuplicates)
}

// Pipeline validates batches and delegates to the store.
type Pipeline struct {
	store store.Store
	opts  Options
}

// New creates a Pipeline writing to st.
func New(st store.Store, opts Options) *Pipeline {
	return &Pipeline{store: st, opts: opts}
}

// Ingest validates every document and commits the batch atomically.
// On any validation failure the whole batch is rejected with a
// *ValidationError identifying the offending index, and the store is
// left unchanged.
func (p *Pipeline) Ingest(ctx context.Context, docs []Document) (*Result, error) {
	dims := p.store.Dimensions()

	for i, doc := range docs {
		if doc.Content == "" && !p.opts.AllowEmptyContent {
			return nil, &ValidationError{Index: i, Field: "content", Err: errors.New("content is empty")}
		}
		if len(doc.Embedding) != dims {
			return nil, &ValidationError{
				Index: i,
				Field: "embedding",
				Err:   fmt.Errorf("%w: got %d, store expects %d", vector.ErrDimensionMismatch, len(doc.Embedding), dims),
			}
		}
		if vector.IsZero(doc.Embedding) {
			return nil, &ValidationError{Index: i, Field: "embedding", Err: vector.ErrDegenerateVector}
		}
	}

	batch := make([]store.Document, 0, len(docs))
	skipped := 0
	seen := make(map[string]struct{})
	for _, doc := range docs {
		hash := HashContent(doc.Content)

		if p.opts.SkipDuplicates {
			if _, dup := seen[hash]; dup {
				skipped++
				continue
			}
			known, err := p.store.HasContentHash(ctx, hash)
			if err != nil {
				return nil, err
			}
			if known {
				skipped++
				continue
			}
			seen[hash] = struct{}{}
		}

		batch = append(batch, store.Document{
			Content:     doc.Content,
			Embedding:   doc.Embedding,
			ContentHash: hash,
		})
	}

	if len(batch) == 0 {
		log.Debug("Nothing to ingest", "input", len(docs), "skipped", skipped)
		return &Result{Skipped: skipped}, nil
	}

	ids, err := p.store.InsertBatch(ctx, batch)
	if err != nil {
		return nil, err
	}

	log.Debug("Ingested batch", "count", len(ids), "skipped", skipped)
	return &Result{IDs: ids, Skipped: skipped}, nil
}

// HashContent returns the content hash used for duplicate detection.
func HashContent(content string) string {
	return fmt.Sprintf("xxh64:%016x", xxhash.Sum64String(content))
}
