package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"

	"github.com/nickcecere/semstore/internal/vector"
)

func init() {
	// Register sqlite-vec extension
	sqlite_vec.Auto()
}

// DefaultDimensions is the embedding length used when none is configured.
const DefaultDimensions = 384

// Options configures a SQLite store at creation time. Dimensions and
// Metric are fixed for the life of the database file.
type Options struct {
	Dimensions int
	Metric     vector.Metric
}

// SQLiteStore implements the Store interface using SQLite and sqlite-vec.
type SQLiteStore struct {
	db         *sql.DB
	path       string
	dimensions int
	metric     vector.Metric
	mu         sync.RWMutex
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a store at the given path.
func NewSQLiteStore(dbPath string, opts Options) (*SQLiteStore, error) {
	if opts.Dimensions <= 0 {
		opts.Dimensions = DefaultDimensions
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode so scans hold a snapshot without blocking writers.
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, unavailable("open database", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := loadOrPersistMeta(db, opts.Dimensions, opts.Metric); err != nil {
		db.Close()
		return nil, err
	}

	if err := createVectorTable(db, opts.Dimensions, opts.Metric); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create vector table: %w", err)
	}

	log.Debug("Opened SQLite store", "path", dbPath, "dimensions", opts.Dimensions, "metric", opts.Metric)

	return &SQLiteStore{
		db:         db,
		path:       dbPath,
		dimensions: opts.Dimensions,
		metric:     opts.Metric,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Dimensions returns the fixed embedding length for this store.
func (s *SQLiteStore) Dimensions() int {
	return s.dimensions
}

// Metric returns the distance metric this store was created with.
func (s *SQLiteStore) Metric() vector.Metric {
	return s.metric
}

// InsertBatch commits all documents in a single transaction and returns
// the assigned ids in input order. Every embedding is validated against
// the store's dimensionality before anything is written; on any failure
// the transaction rolls back and no record becomes visible.
func (s *SQLiteStore) InsertBatch(ctx context.Context, docs []Document) ([]int64, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	for i, doc := range docs {
		if len(doc.Embedding) != s.dimensions {
			return nil, fmt.Errorf("document %d: %w: got %d, store expects %d",
				i, vector.ErrDimensionMismatch, len(doc.Embedding), s.dimensions)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, unavailable("begin transaction", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	ids := make([]int64, 0, len(docs))
	for i, doc := range docs {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO items (content, content_hash, embedding, created_at)
			VALUES (?, ?, ?, ?)
		`, doc.Content, nullableHash(doc.ContentHash), serializeEmbedding(doc.Embedding), now)
		if err != nil {
			return nil, unavailable(fmt.Sprintf("insert item %d", i), err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return nil, unavailable("last insert id", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO items_vec (item_id, embedding)
			VALUES (?, ?)
		`, id, serializeEmbedding(doc.Embedding))
		if err != nil {
			return nil, unavailable(fmt.Sprintf("insert vector %d", i), err)
		}

		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, unavailable("commit", err)
	}

	log.Debug("Inserted batch", "count", len(ids), "first_id", ids[0])
	return ids, nil
}

// Get retrieves a record by id.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var record Record
	var blob []byte
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, content, embedding, created_at FROM items WHERE id = ?
	`, id).Scan(&record.ID, &record.Content, &blob, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("get item", err)
	}

	record.Embedding = deserializeEmbedding(blob)
	record.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return &record, nil
}

// Delete removes a record and its vector. Deleted ids are never
// reassigned (AUTOINCREMENT).
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return unavailable("delete item", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return unavailable("rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM items_vec WHERE item_id = ?", id); err != nil {
		return unavailable("delete vector", err)
	}

	return tx.Commit()
}

// NearestNeighbors ranks the k records closest to query using the vec0
// index. Distances come from sqlite-vec under the store's metric.
func (s *SQLiteStore) NearestNeighbors(ctx context.Context, query []float32, k int) ([]Neighbor, error) {
	if len(query) != s.dimensions {
		return nil, fmt.Errorf("query: %w: got %d, store expects %d",
			vector.ErrDimensionMismatch, len(query), s.dimensions)
	}
	if k <= 0 {
		return nil, nil
	}
	if s.metric == vector.MetricDot {
		return nil, fmt.Errorf("metric %s has no native index support", s.metric)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.content, v.distance
		FROM items_vec v
		JOIN items i ON i.id = v.item_id
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance ASC
	`, serializeEmbedding(query), k)
	if err != nil {
		return nil, unavailable("nearest neighbors", err)
	}
	defer rows.Close()

	var neighbors []Neighbor
	for rows.Next() {
		var n Neighbor
		if err := rows.Scan(&n.ID, &n.Content, &n.Distance); err != nil {
			return nil, unavailable("scan neighbor", err)
		}
		n.Score = 1 - n.Distance
		neighbors = append(neighbors, n)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate neighbors", err)
	}
	return neighbors, nil
}

// HasContentHash reports whether any record carries the given hash.
func (s *SQLiteStore) HasContentHash(ctx context.Context, hash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM items WHERE content_hash = ? LIMIT 1", hash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, unavailable("hash lookup", err)
	}
	return true, nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&count); err != nil {
		return 0, unavailable("count items", err)
	}
	return count, nil
}

// Stats returns statistics about the store.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		RecordCount: count,
		Dimensions:  s.dimensions,
		Metric:      s.metric.String(),
	}

	if info, err := os.Stat(s.path); err == nil {
		stats.SizeBytes = info.Size()
	}

	return stats, nil
}

// Reset drops and recreates the item and vector tables. Dropping the
// items table also clears its AUTOINCREMENT sequence, so a later
// InsertBatch starts over with fresh ids.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS items_vec"); err != nil {
		return unavailable("drop vector table", err)
	}
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS items"); err != nil {
		return unavailable("drop items table", err)
	}

	if _, err := s.db.ExecContext(ctx, itemsTable); err != nil {
		return unavailable("recreate items table", err)
	}
	if err := createVectorTable(s.db, s.dimensions, s.metric); err != nil {
		return unavailable("recreate vector table", err)
	}

	log.Debug("Reset store", "path", s.path)
	return nil
}

// nullableHash maps an empty hash to NULL so the hash index stays small.
func nullableHash(hash string) any {
	if hash == "" {
		return nil
	}
	return hash
}

// serializeEmbedding converts a float32 slice to bytes for sqlite-vec.
func serializeEmbedding(embedding []float32) []byte {
	buf := make([]byte, len(embedding)*4)
	for i, v := range embedding {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// deserializeEmbedding is the inverse of serializeEmbedding.
func deserializeEmbedding(buf []byte) []float32 {
	embedding := make([]float32, len(buf)/4)
	for i := range embedding {
		embedding[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return embedding
}
