package repository

import (
	"context"
	"database/sql"

	"github.com/showtime/movie-booking/internal/model"
)

// NotificationRepo provides data access to the notifications table.
// Rows are written by the queue consumer when booking events arrive.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a NotificationRepo bound to the given
// database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Create persists a notification for a user.
func (r *NotificationRepo) Create(ctx context.Context, n model.Notification) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, title, message, type) VALUES (?, ?, ?, ?)`,
		n.UserID, n.Title, n.Message, n.Type,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByUser returns a user's notifications newest first, optionally
// only the unread ones.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64, unreadOnly bool) ([]model.Notification, error) {
	query := `SELECT id, user_id, title, message, type, is_read, read_at, created_at
	          FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		var readAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &readAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		if readAt.Valid {
			t := readAt.Time
			n.ReadAt = &t
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead marks one notification read, scoped to its owner.
func (r *NotificationRepo) MarkRead(ctx context.Context, userID, notificationID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1, read_at = UTC_TIMESTAMP() WHERE id = ? AND user_id = ?`,
		notificationID, userID,
	)
	return err
}

// MarkAllRead marks every unread notification of a user as read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1, read_at = UTC_TIMESTAMP() WHERE user_id = ? AND is_read = 0`,
		userID,
	)
	return err
}
