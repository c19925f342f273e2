package planner

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickcecere/semstore/internal/ingest"
	"github.com/nickcecere/semstore/internal/store"
	"github.com/nickcecere/semstore/internal/vector"
)

// bagOfWords is a deterministic toy encoder: one dimension per known
// token, 1.0 where the token occurs. It stands in for a real embedding
// model so that ranking behavior can be asserted exactly.
type bagOfWords struct {
	vocab map[string]int
	dims  int
}

func newBagOfWords(texts ...string) *bagOfWords {
	vocab := make(map[string]int)
	for _, text := range texts {
		for _, tok := range tokenize(text) {
			if _, ok := vocab[tok]; !ok {
				vocab[tok] = len(vocab)
			}
		}
	}
	return &bagOfWords{vocab: vocab, dims: len(vocab)}
}

func (b *bagOfWords) Embed(text string) []float32 {
	v := make([]float32, b.dims)
	for _, tok := range tokenize(text) {
		if i, ok := b.vocab[tok]; ok {
			v[i] = 1
		}
	}
	return v
}

func tokenize(text string) []string {
	return strings.Fields(strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			return r | 0x20
		}
		return ' '
	}, text))
}

// TestSearchFindsSemanticMatch exercises the full path from ingestion
// to ranked retrieval: embed a small corpus, ingest it, then verify
// that a natural-language query surfaces the related sentence first.
func TestSearchFindsSemanticMatch(t *testing.T) {
	corpus := []string{
		"The quick brown fox jumps over the lazy dog",
		"A journey of a thousand miles begins with a single step",
		"To be or not to be, that is the question",
		"In the middle of difficulty lies opportunity",
	}
	query := "How many miles?"

	enc := newBagOfWords(append(corpus, query)...)

	dbPath := filepath.Join(t.TempDir(), "e2e.db")
	st, err := store.NewSQLiteStore(dbPath, store.Options{Dimensions: enc.dims})
	require.NoError(t, err)
	defer st.Close()

	docs := make([]ingest.Document, len(corpus))
	for i, text := range corpus {
		docs[i] = ingest.Document{Content: text, Embedding: enc.Embed(text)}
	}

	pipeline := ingest.New(st, ingest.Options{})
	res, err := pipeline.Ingest(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, res.IDs, len(corpus))

	p := New(st, vector.MetricCosine)

	// The query shares the token "miles" with exactly one sentence.
	results, err := p.Search(context.Background(), enc.Embed(query), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, corpus[1], results[0].Content)
	assert.Greater(t, results[0].Score, 0.0)

	// The full ranking puts the matching sentence ahead of the rest,
	// and exact and indexed execution agree on the winner.
	all, err := p.Search(context.Background(), enc.Embed(query), Options{K: len(corpus), Mode: ModeExact})
	require.NoError(t, err)
	require.Len(t, all, len(corpus))
	assert.Equal(t, corpus[1], all[0].Content)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i].Distance, all[i-1].Distance)
	}

	indexed, err := p.Search(context.Background(), enc.Embed(query), Options{K: 1, Mode: ModeIndexed})
	require.NoError(t, err)
	require.Len(t, indexed, 1)
	assert.Equal(t, corpus[1], indexed[0].Content)
}
