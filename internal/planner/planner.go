// Package planner answers top-k similarity queries against a store.
package planner

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nickcecere/semstore/internal/store"
	"github.com/nickcecere/semstore/internal/vector"
)

// tieEpsilon bounds how close two distances must be to count as a tie.
// Tied candidates rank by ascending id.
const tieEpsilon = 1e-12

// Mode selects how a search is executed.
type Mode int

const (
	// ModeExact scans every record and computes distances in-process.
	// Results are the true k nearest under the configured metric.
	ModeExact Mode = iota

	// ModeIndexed pushes ranking down into the database's vector
	// index. Best-effort: reported distances come from the index and
	// are not guaranteed to be the exact minima.
	ModeIndexed
)

func (m Mode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeIndexed:
		return "indexed"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ParseMode parses a mode name as used in config files.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "exact", "":
		return ModeExact, nil
	case "indexed", "approx":
		return ModeIndexed, nil
	default:
		return 0, fmt.Errorf("unsupported search mode: %q", name)
	}
}

// Result is one ranked record. Score is 1 - Distance, so results are
// ascending by distance and descending by score.
type Result struct {
	ID       int64   `json:"id"`
	Content  string  `json:"content"`
	Distance float64 `json:"distance"`
	Score    float64 `json:"score"`
}

// Options configures a search.
type Options struct {
	// K is the maximum number of results. K <= 0 yields no results.
	K int

	// Mode selects exact or indexed execution.
	Mode Mode

	// MinScore filters results below this similarity score.
	MinScore float64
}

// DefaultOptions returns the default search configuration: a single
// exact nearest neighbor.
func DefaultOptions() Options {
	return Options{K: 1, Mode: ModeExact}
}

// Planner executes top-k similarity queries against a store.
type Planner struct {
	store  store.Store
	metric vector.Metric
}

// New creates a Planner over st using the given metric for exact
// distance computation.
func New(st store.Store, metric vector.Metric) *Planner {
	return &Planner{store: st, metric: metric}
}

// Search returns up to opts.K records ordered by ascending distance to
// query. An empty store yields an empty result, not an error. On
// cancellation the context error is returned and no partial results.
func (p *Planner) Search(ctx context.Context, query []float32, opts Options) ([]Result, error) {
	if len(query) != p.store.Dimensions() {
		return nil, fmt.Errorf("query: %w: got %d, store expects %d",
			vector.ErrDimensionMismatch, len(query), p.store.Dimensions())
	}
	if p.metric == vector.MetricCosine && vector.IsZero(query) {
		return nil, fmt.Errorf("query: %w", vector.ErrDegenerateVector)
	}
	if opts.K <= 0 {
		return nil, nil
	}

	switch opts.Mode {
	case ModeExact:
		return p.searchExact(ctx, query, opts)
	case ModeIndexed:
		return p.searchIndexed(ctx, query, opts)
	default:
		return nil, fmt.Errorf("unsupported search mode: %v", opts.Mode)
	}
}

// searchExact evaluates the distance to every stored record and keeps
// the k smallest in a bounded heap. O(n*D) per query.
func (p *Planner) searchExact(ctx context.Context, query []float32, opts Options) ([]Result, error) {
	it, err := p.store.Scan(ctx)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	h := &candidateHeap{eps: tieEpsilon}
	scanned := 0
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("search cancelled: %w", err)
		}

		rec := it.Record()
		d, err := vector.Distance(p.metric, query, rec.Embedding)
		if err != nil {
			// A degenerate stored vector is a data-quality defect;
			// surface it rather than skip the record.
			return nil, fmt.Errorf("record %d: %w", rec.ID, err)
		}

		h.pushBounded(candidate{id: rec.ID, content: rec.Content, distance: d}, opts.K)
		scanned++
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	results := make([]Result, 0, h.Len())
	for _, c := range h.drainSorted() {
		score := 1 - c.distance
		if score < opts.MinScore {
			continue
		}
		results = append(results, Result{
			ID:       c.id,
			Content:  c.content,
			Distance: c.distance,
			Score:    score,
		})
	}

	log.Debug("Exact search complete", "scanned", scanned, "k", opts.K, "results", len(results))
	return results, nil
}

// searchIndexed delegates ranking to the store's native vector index.
func (p *Planner) searchIndexed(ctx context.Context, query []float32, opts Options) ([]Result, error) {
	neighbors, err := p.store.NearestNeighbors(ctx, query, opts.K)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(neighbors))
	for _, n := range neighbors {
		if n.Score < opts.MinScore {
			continue
		}
		results = append(results, Result{
			ID:       n.ID,
			Content:  n.Content,
			Distance: n.Distance,
			Score:    n.Score,
		})
	}

	log.Debug("Indexed search complete", "k", opts.K, "results", len(results))
	return results, nil
}
