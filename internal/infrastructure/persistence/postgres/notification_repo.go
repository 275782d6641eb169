package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/notification"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// NotificationRepository implements notification.Repository for PostgreSQL.
type NotificationRepository struct {
	conn *Connection
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(conn *Connection) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

const notificationColumns = `id, recipient_id, doubt_id, message, is_read, read_at, created_at`

// Create saves a new notification.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, doubt_id, message, is_read, read_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		string(n.ID),
		string(n.RecipientID),
		string(n.DoubtID),
		n.Message,
		n.IsRead,
		n.ReadAt,
		n.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("notification", "Create", shared.ErrAlreadyExists, "notification already exists", err)
		}
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// GetByID returns a notification by ID.
func (r *NotificationRepository) GetByID(ctx context.Context, id notification.NotificationID) (*notification.Notification, error) {
	query := fmt.Sprintf(`SELECT %s FROM notifications WHERE id = $1`, notificationColumns)

	row := r.conn.QueryRow(ctx, query, string(id))
	return r.scanNotification(row)
}

// GetByRecipient returns a user's notifications, newest first.
func (r *NotificationRepository) GetByRecipient(ctx context.Context, recipientID identity.UserID, opts notification.ListOptions) ([]*notification.Notification, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT %s FROM notifications WHERE recipient_id = $1`, notificationColumns)

	args := []interface{}{string(recipientID)}
	if opts.UnreadOnly {
		sb.WriteString(` AND is_read = FALSE`)
	}

	sb.WriteString(` ORDER BY created_at DESC, id DESC`)

	args = append(args, normalizeLimit(opts.Limit))
	fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))
	args = append(args, opts.Offset)
	fmt.Fprintf(&sb, ` OFFSET $%d`, len(args))

	rows, err := r.conn.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]*notification.Notification, 0)
	for rows.Next() {
		n, err := r.scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkRead marks a notification as read. Re-reading an already read
// notification leaves the original read_at timestamp in place.
func (r *NotificationRepository) MarkRead(ctx context.Context, id notification.NotificationID) (*notification.Notification, error) {
	query := fmt.Sprintf(`
		UPDATE notifications
		SET is_read = TRUE, read_at = COALESCE(read_at, $1)
		WHERE id = $2
		RETURNING %s
	`, notificationColumns)

	row := r.conn.QueryRow(ctx, query, time.Now().UTC(), string(id))
	return r.scanNotification(row)
}

// CountUnread returns the number of unread notifications for a user.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID identity.UserID) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`,
		string(recipientID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *NotificationRepository) scanNotification(row pgx.Row) (*notification.Notification, error) {
	var n notification.Notification
	var id, recipientID, doubtID string
	var readAt *time.Time

	err := row.Scan(&id, &recipientID, &doubtID, &n.Message, &n.IsRead, &readAt, &n.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}

	n.ID = notification.NotificationID(id)
	n.RecipientID = identity.UserID(recipientID)
	n.DoubtID = doubt.DoubtID(doubtID)
	n.ReadAt = readAt

	return &n, nil
}
