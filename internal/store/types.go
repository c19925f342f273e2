// Package store provides durable storage of embedding records using
// SQLite and sqlite-vec.
package store

import "time"

// Record is a stored (content, embedding) pair. Records are created by
// InsertBatch, which assigns the id, and are read-only afterwards.
type Record struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
	CreatedAt time.Time `json:"created_at"`
}

// Document is an input pair for InsertBatch. ContentHash is optional;
// when set it is persisted for duplicate detection.
type Document struct {
	Content     string    `json:"content"`
	Embedding   []float32 `json:"embedding"`
	ContentHash string    `json:"content_hash,omitempty"`
}

// Neighbor is a ranked result from NearestNeighbors. Distance is the
// value reported by the vector index; Score is 1 - Distance.
type Neighbor struct {
	ID       int64   `json:"id"`
	Content  string  `json:"content"`
	Distance float64 `json:"distance"`
	Score    float64 `json:"score"`
}

// Stats contains statistics about a store.
type Stats struct {
	RecordCount int    `json:"record_count"`
	Dimensions  int    `json:"dimensions"`
	Metric      string `json:"metric"`
	SizeBytes   int64  `json:"size_bytes"`
}
