package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/comment"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CommentRepository implements comment.Repository for PostgreSQL.
type CommentRepository struct {
	conn *Connection
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(conn *Connection) *CommentRepository {
	return &CommentRepository{conn: conn}
}

// Create saves a new comment.
func (r *CommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	query := `
		INSERT INTO comments (id, doubt_id, author_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.conn.Exec(ctx, query,
		string(c.ID),
		string(c.DoubtID),
		string(c.AuthorID),
		c.Message,
		c.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrDoubtNotFound
		}
		if IsUniqueViolation(err) {
			return shared.WrapError("comment", "Create", shared.ErrAlreadyExists, "comment already exists", err)
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// GetByID returns a comment by ID.
func (r *CommentRepository) GetByID(ctx context.Context, id comment.CommentID) (*comment.Comment, error) {
	query := `
		SELECT id, doubt_id, author_id, message, created_at
		FROM comments
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, string(id))
	return r.scanComment(row)
}

// GetByDoubtID returns all comments of a doubt in creation order, oldest first.
func (r *CommentRepository) GetByDoubtID(ctx context.Context, doubtID doubt.DoubtID) ([]*comment.Comment, error) {
	query := `
		SELECT id, doubt_id, author_id, message, created_at
		FROM comments
		WHERE doubt_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.conn.Query(ctx, query, string(doubtID))
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*comment.Comment, 0)
	for rows.Next() {
		c, err := r.scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

// CountByDoubtID returns the number of comments on a doubt.
func (r *CommentRepository) CountByDoubtID(ctx context.Context, doubtID doubt.DoubtID) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE doubt_id = $1`, string(doubtID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}

// DeleteByDoubtID removes all comments of a doubt.
func (r *CommentRepository) DeleteByDoubtID(ctx context.Context, doubtID doubt.DoubtID) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM comments WHERE doubt_id = $1`, string(doubtID))
	if err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	return nil
}

func (r *CommentRepository) scanComment(row pgx.Row) (*comment.Comment, error) {
	var c comment.Comment
	var id, doubtID, authorID string

	err := row.Scan(&id, &doubtID, &authorID, &c.Message, &c.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}

	c.ID = comment.CommentID(id)
	c.DoubtID = doubt.DoubtID(doubtID)
	c.AuthorID = identity.UserID(authorID)

	return &c, nil
}
