package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOUBT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// DoubtRepository implements doubt.Repository for PostgreSQL.
type DoubtRepository struct {
	conn *Connection
}

// NewDoubtRepository creates a new DoubtRepository.
func NewDoubtRepository(conn *Connection) *DoubtRepository {
	return &DoubtRepository{conn: conn}
}

const doubtColumns = `id, title, description, attachment_url, status, owner_id,
	   resolved_by, resolved_at, created_at, updated_at`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create saves a new doubt.
func (r *DoubtRepository) Create(ctx context.Context, d *doubt.Doubt) error {
	query := `
		INSERT INTO doubts (
			id, title, description, attachment_url, status, owner_id,
			resolved_by, resolved_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.conn.Exec(ctx, query,
		string(d.ID),
		d.Title,
		d.Description,
		d.AttachmentURL,
		string(d.Status),
		string(d.OwnerID),
		string(d.ResolvedBy),
		d.ResolvedAt,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("doubt", "Create", shared.ErrAlreadyExists, "doubt already exists", err)
		}
		return fmt.Errorf("failed to create doubt: %w", err)
	}

	return nil
}

// GetByID returns a doubt by ID.
func (r *DoubtRepository) GetByID(ctx context.Context, id doubt.DoubtID) (*doubt.Doubt, error) {
	query := fmt.Sprintf(`SELECT %s FROM doubts WHERE id = $1`, doubtColumns)

	row := r.conn.QueryRow(ctx, query, string(id))
	return r.scanDoubt(row)
}

// Delete removes a doubt. Comments cascade at the schema level.
func (r *DoubtRepository) Delete(ctx context.Context, id doubt.DoubtID) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM doubts WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete doubt: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrDoubtNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Atomic State Transition
// ─────────────────────────────────────────────────────────────────────────────

// UpdateStatus atomically transitions a doubt from one status to another.
// The WHERE clause on the current status makes the transition a
// compare-and-set: under concurrent requests exactly one UPDATE matches
// the row, every other caller sees zero rows affected.
func (r *DoubtRepository) UpdateStatus(ctx context.Context, id doubt.DoubtID, from, to doubt.Status, actor identity.UserID) (*doubt.Doubt, error) {
	now := time.Now().UTC()

	var query string
	var row pgx.Row

	if to == doubt.StatusResolved {
		query = fmt.Sprintf(`
			UPDATE doubts
			SET status = $1, resolved_by = $2, resolved_at = $3, updated_at = $3
			WHERE id = $4 AND status = $5
			RETURNING %s
		`, doubtColumns)
		row = r.conn.QueryRow(ctx, query, string(to), string(actor), now, string(id), string(from))
	} else {
		query = fmt.Sprintf(`
			UPDATE doubts
			SET status = $1, resolved_by = '', resolved_at = NULL, updated_at = $2
			WHERE id = $3 AND status = $4
			RETURNING %s
		`, doubtColumns)
		row = r.conn.QueryRow(ctx, query, string(to), now, string(id), string(from))
	}

	d, err := r.scanDoubt(row)
	if err == nil {
		return d, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}

	// Zero rows: either the doubt does not exist, or it is not in the
	// expected status. Distinguish so callers can map 404 vs 409.
	exists, exErr := r.Exists(ctx, id)
	if exErr != nil {
		return nil, exErr
	}
	if !exists {
		return nil, shared.ErrDoubtNotFound
	}

	if to == doubt.StatusResolved {
		return nil, shared.ErrDoubtAlreadyResolved
	}
	return nil, shared.ErrDoubtAlreadyOpen
}

// ─────────────────────────────────────────────────────────────────────────────
// Bulk Operations
// ─────────────────────────────────────────────────────────────────────────────

// GetAll returns all doubts, newest first.
func (r *DoubtRepository) GetAll(ctx context.Context, opts doubt.ListOptions) ([]*doubt.Doubt, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT %s FROM doubts`, doubtColumns)

	args := []interface{}{}
	if opts.Status != "" {
		args = append(args, string(opts.Status))
		fmt.Fprintf(&sb, ` WHERE status = $%d`, len(args))
	}

	sb.WriteString(` ORDER BY created_at DESC`)

	args = append(args, normalizeLimit(opts.Limit))
	fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))
	args = append(args, opts.Offset)
	fmt.Fprintf(&sb, ` OFFSET $%d`, len(args))

	rows, err := r.conn.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query doubts: %w", err)
	}
	defer rows.Close()

	return r.scanDoubts(rows)
}

// GetByOwnerID returns doubts created by the given student, newest first.
func (r *DoubtRepository) GetByOwnerID(ctx context.Context, ownerID identity.UserID, opts doubt.ListOptions) ([]*doubt.Doubt, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT %s FROM doubts WHERE owner_id = $1`, doubtColumns)

	args := []interface{}{string(ownerID)}
	if opts.Status != "" {
		args = append(args, string(opts.Status))
		fmt.Fprintf(&sb, ` AND status = $%d`, len(args))
	}

	sb.WriteString(` ORDER BY created_at DESC`)

	args = append(args, normalizeLimit(opts.Limit))
	fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))
	args = append(args, opts.Offset)
	fmt.Fprintf(&sb, ` OFFSET $%d`, len(args))

	rows, err := r.conn.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query doubts by owner: %w", err)
	}
	defer rows.Close()

	return r.scanDoubts(rows)
}

// Count returns the total number of doubts.
func (r *DoubtRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM doubts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count doubts: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Existence Checks
// ─────────────────────────────────────────────────────────────────────────────

// Exists checks whether a doubt exists.
func (r *DoubtRepository) Exists(ctx context.Context, id doubt.DoubtID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM doubts WHERE id = $1)`, string(id)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check doubt existence: %w", err)
	}
	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *DoubtRepository) scanDoubt(row pgx.Row) (*doubt.Doubt, error) {
	var d doubt.Doubt
	var id, status, ownerID, resolvedBy string
	var resolvedAt *time.Time

	err := row.Scan(
		&id,
		&d.Title,
		&d.Description,
		&d.AttachmentURL,
		&status,
		&ownerID,
		&resolvedBy,
		&resolvedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrDoubtNotFound
		}
		return nil, fmt.Errorf("failed to scan doubt: %w", err)
	}

	d.ID = doubt.DoubtID(id)
	d.Status = doubt.Status(status)
	d.OwnerID = identity.UserID(ownerID)
	d.ResolvedBy = identity.UserID(resolvedBy)
	d.ResolvedAt = resolvedAt

	return &d, nil
}

func (r *DoubtRepository) scanDoubts(rows pgx.Rows) ([]*doubt.Doubt, error) {
	doubts := make([]*doubt.Doubt, 0)
	for rows.Next() {
		d, err := r.scanDoubt(rows)
		if err != nil {
			return nil, err
		}
		doubts = append(doubts, d)
	}
	return doubts, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}
