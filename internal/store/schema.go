package store

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nickcecere/semstore/internal/vector"
)

const currentSchemaVersion = 1

// Schema definitions
const schemaVersionTable = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);
`

const storeMetaTable = `
CREATE TABLE IF NOT EXISTS store_meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// AUTOINCREMENT keeps ids monotonic for the life of the table: a deleted
// id is never handed to a later insert.
const itemsTable = `
CREATE TABLE IF NOT EXISTS items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	content TEXT NOT NULL,
	content_hash TEXT,
	embedding BLOB NOT NULL,
	created_at TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_items_content_hash ON items(content_hash);
`

// createVectorTable creates the sqlite-vec virtual table for the given
// dimensions and metric.
func createVectorTable(db *sql.DB, dimensions int, metric vector.Metric) error {
	query := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS items_vec USING vec0(
			item_id INTEGER PRIMARY KEY,
			embedding float[%d] distance_metric=%s
		);
	`, dimensions, vecDistanceMetric(metric))

	_, err := db.Exec(query)
	return err
}

// vecDistanceMetric maps a metric to the sqlite-vec distance_metric
// name. Dot has no vec0 equivalent; the planner refuses indexed mode
// for it, so the table defaults to cosine.
func vecDistanceMetric(m vector.Metric) string {
	if m == vector.MetricSquaredL2 {
		return "L2"
	}
	return "cosine"
}

// initSchema initializes the database schema.
func initSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaVersionTable); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var version int
	err := db.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		version = 0
	} else if err != nil {
		return fmt.Errorf("failed to check schema version: %w", err)
	}

	if version >= currentSchemaVersion {
		log.Debug("Schema is up to date", "version", version)
		return nil
	}

	log.Debug("Migrating schema", "from", version, "to", currentSchemaVersion)

	if version < 1 {
		if err := migrateV1(db); err != nil {
			return fmt.Errorf("failed to migrate to v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func migrateV1(db *sql.DB) error {
	log.Debug("Applying migration v1")

	tables := []string{storeMetaTable, itemsTable}
	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// The vector table is created after the meta handshake, once the
	// store's dimensions are known.

	if _, err := db.Exec("INSERT OR REPLACE INTO schema_version (version) VALUES (?)", 1); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}

	return nil
}

// loadOrPersistMeta reconciles the configured dimensions and metric with
// what the database already recorded. A fresh database adopts the
// configuration; an existing one must match it.
func loadOrPersistMeta(db *sql.DB, dimensions int, metric vector.Metric) error {
	var storedDims string
	err := db.QueryRow("SELECT value FROM store_meta WHERE key = 'dimensions'").Scan(&storedDims)
	if err == sql.ErrNoRows {
		if _, err := db.Exec(
			"INSERT INTO store_meta (key, value) VALUES ('dimensions', ?), ('metric', ?)",
			fmt.Sprintf("%d", dimensions), metric.String(),
		); err != nil {
			return fmt.Errorf("failed to persist store meta: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read store meta: %w", err)
	}

	if storedDims != fmt.Sprintf("%d", dimensions) {
		return fmt.Errorf("store was created with dimensions=%s, configured dimensions=%d", storedDims, dimensions)
	}

	var storedMetric string
	if err := db.QueryRow("SELECT value FROM store_meta WHERE key = 'metric'").Scan(&storedMetric); err != nil {
		return fmt.Errorf("failed to read store metric: %w", err)
	}
	if storedMetric != metric.String() {
		return fmt.Errorf("store was created with metric=%s, configured metric=%s", storedMetric, metric)
	}

	return nil
}
