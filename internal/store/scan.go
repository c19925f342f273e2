package store

import (
	"context"
	"database/sql"
	"time"
)

// Iterator is a lazy cursor over all records, in the sql.Rows idiom:
//
//	it, err := st.Scan(ctx)
//	defer it.Close()
//	for it.Next() {
//	    rec := it.Record()
//	    ...
//	}
//	if err := it.Err(); err != nil { ... }
//
// The iterator reads inside a read-only transaction, so it observes the
// set of records committed when Scan was called; concurrent inserts are
// neither blocked nor visible.
type Iterator struct {
	tx     *sql.Tx
	rows   *sql.Rows
	record Record
	err    error
}

// Scan starts a new snapshot scan over all records, ordered by id.
func (s *SQLiteStore) Scan(ctx context.Context) (*Iterator, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, unavailable("begin scan", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, content, embedding, created_at FROM items ORDER BY id
	`)
	if err != nil {
		tx.Rollback()
		return nil, unavailable("scan items", err)
	}

	return &Iterator{tx: tx, rows: rows}, nil
}

// Next advances to the next record. It returns false when the scan is
// exhausted or an error occurred; Err distinguishes the two.
func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.rows.Next() {
		it.err = it.rows.Err()
		return false
	}

	var blob []byte
	var createdAt string
	if err := it.rows.Scan(&it.record.ID, &it.record.Content, &blob, &createdAt); err != nil {
		it.err = unavailable("scan record", err)
		return false
	}

	it.record.Embedding = deserializeEmbedding(blob)
	it.record.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return true
}

// Record returns the record the iterator is positioned on. The returned
// value is only valid until the next call to Next.
func (it *Iterator) Record() Record {
	return it.record
}

// Err returns the first error encountered during iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Close releases the cursor and its snapshot. Safe to call more than
// once.
func (it *Iterator) Close() error {
	if it.rows != nil {
		it.rows.Close()
		it.rows = nil
	}
	if it.tx != nil {
		err := it.tx.Rollback()
		it.tx = nil
		if err != nil && err != sql.ErrTxDone {
			return err
		}
	}
	return nil
}
