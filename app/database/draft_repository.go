package database

import (
	"context"
	"database/sql"
	"fmt"
)

// DraftRepo handles database operations for editorial drafts.
type DraftRepo struct {
	db *DB
}

var _ DraftRepository = (*DraftRepo)(nil)

func NewDraftRepo(db *DB) *DraftRepo {
	return &DraftRepo{db: db}
}

const draftColumns = `
	id, source_item_id, hook, body, format, status, post_id, posted_at,
	created_at, updated_at`

// GetPostedDrafts is the engagement harvester's work list: posted drafts
// that carry an external post identifier.
func (r *DraftRepo) GetPostedDrafts(ctx context.Context) ([]Draft, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+draftColumns+`
		FROM drafts
		WHERE status = $1 AND post_id IS NOT NULL
		ORDER BY posted_at ASC
	`, DraftStatusPosted)
	if err != nil {
		return nil, fmt.Errorf("failed to get posted drafts: %w", err)
	}
	defer rows.Close()

	return collectDrafts(rows)
}

func (r *DraftRepo) GetDraft(ctx context.Context, id string) (*Draft, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+draftColumns+` FROM drafts WHERE id = $1`, id)

	draft, err := scanDraft(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	return draft, nil
}

// GetDrafts lists drafts, optionally filtered by status.
func (r *DraftRepo) GetDrafts(ctx context.Context, status string) ([]Draft, error) {
	var rows *sql.Rows
	var err error
	if status == "" {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+draftColumns+` FROM drafts ORDER BY created_at DESC`)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+draftColumns+` FROM drafts WHERE status = $1 ORDER BY created_at DESC`, status)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get drafts: %w", err)
	}
	defer rows.Close()

	return collectDrafts(rows)
}

func (r *DraftRepo) CreateDraft(ctx context.Context, sourceItemID *string, hook, body, format string) (*Draft, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO drafts (source_item_id, hook, body, format)
		VALUES ($1, $2, $3, $4)
		RETURNING `+draftColumns, sourceItemID, hook, body, format)

	draft, err := scanDraft(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	return draft, nil
}

// UpdateDraft applies the non-nil fields of the update and returns the
// refreshed row.
func (r *DraftRepo) UpdateDraft(ctx context.Context, id string, fields DraftUpdate) (*Draft, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE drafts SET
			hook = COALESCE($2, hook),
			body = COALESCE($3, body),
			format = COALESCE($4, format),
			status = COALESCE($5, status),
			post_id = COALESCE($6, post_id),
			posted_at = COALESCE($7, posted_at),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+draftColumns,
		id, fields.Hook, fields.Body, fields.Format, fields.Status,
		fields.PostID, fields.PostedAt)

	draft, err := scanDraft(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}

	return draft, nil
}

func (r *DraftRepo) DeleteDraft(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
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

func collectDrafts(rows *sql.Rows) ([]Draft, error) {
	var drafts []Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft row: %w", err)
		}
		drafts = append(drafts, *draft)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draft rows: %w", err)
	}

	return drafts, nil
}

func scanDraft(row rowScanner) (*Draft, error) {
	var draft Draft
	err := row.Scan(
		&draft.ID, &draft.SourceItemID, &draft.Hook, &draft.Body,
		&draft.Format, &draft.Status, &draft.PostID, &draft.PostedAt,
		&draft.CreatedAt, &draft.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &draft, nil
}
