package database

import (
	"context"
	"database/sql"
	"fmt"
)

// SourceItemRepo handles database operations for harvested source items.
type SourceItemRepo struct {
	db *DB
}

var _ SourceItemRepository = (*SourceItemRepo)(nil)

func NewSourceItemRepo(db *DB) *SourceItemRepo {
	return &SourceItemRepo{db: db}
}

// UpsertItem inserts a new item or refreshes the counters and score of an
// existing one, keyed on the external identifier. The descriptive fields
// are only written on insert. xmax = 0 only for freshly inserted rows,
// which distinguishes created from updated in a single statement.
func (r *SourceItemRepo) UpsertItem(ctx context.Context, record SourceItemRecord) (bool, error) {
	var created bool
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO source_items (
			external_id, channel, title, body, url, author,
			popularity, discussion_count, source_created_at, repurpose_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (external_id) DO UPDATE SET
			popularity = EXCLUDED.popularity,
			discussion_count = EXCLUDED.discussion_count,
			repurpose_score = EXCLUDED.repurpose_score,
			updated_at = NOW()
		RETURNING (xmax = 0)
	`, record.ExternalID, record.Channel, record.Title, nullableString(record.Body),
		record.URL, record.Author, record.Popularity, record.DiscussionCount,
		record.SourceCreatedAt, record.RepurposeScore).Scan(&created)

	if err != nil {
		return false, fmt.Errorf("failed to upsert source item: %w", err)
	}

	return created, nil
}

const sourceItemColumns = `
	id, external_id, channel, title, COALESCE(body, ''), url, author,
	popularity, discussion_count, source_created_at, repurpose_score,
	saved, processed, created_at, updated_at`

func (r *SourceItemRepo) GetItem(ctx context.Context, id string) (*SourceItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sourceItemColumns+` FROM source_items WHERE id = $1`, id)

	item, err := scanSourceItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source item: %w", err)
	}

	return item, nil
}

// GetInboxItems returns unprocessed items ordered by repurpose score.
func (r *SourceItemRepo) GetInboxItems(ctx context.Context, savedOnly bool, limit int) ([]SourceItem, error) {
	query := `SELECT ` + sourceItemColumns + `
		FROM source_items
		WHERE processed = FALSE`
	if savedOnly {
		query += ` AND saved = TRUE`
	}
	query += ` ORDER BY repurpose_score DESC, created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get inbox items: %w", err)
	}
	defer rows.Close()

	var items []SourceItem
	for rows.Next() {
		item, err := scanSourceItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source item row: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source item rows: %w", err)
	}

	return items, nil
}

func (r *SourceItemRepo) MarkSaved(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "saved")
}

func (r *SourceItemRepo) MarkProcessed(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "processed")
}

func (r *SourceItemRepo) setFlag(ctx context.Context, id, column string) error {
	// column is one of the two fixed flag names, never user input.
	res, err := r.db.ExecContext(ctx,
		`UPDATE source_items SET `+column+` = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark source item %s: %w", column, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSourceItem(row rowScanner) (*SourceItem, error) {
	var item SourceItem
	err := row.Scan(
		&item.ID, &item.ExternalID, &item.Channel, &item.Title, &item.Body,
		&item.URL, &item.Author, &item.Popularity, &item.DiscussionCount,
		&item.SourceCreatedAt, &item.RepurposeScore,
		&item.Saved, &item.Processed, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
