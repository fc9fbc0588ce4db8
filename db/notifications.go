// ABOUTME: Notification database operations
// ABOUTME: Create, list with unread filter, and mark-as-read
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
)

const notificationColumns = `id, customer_id, project_id, type, title, description, is_read, due_date, created_at`

// CreateNotification inserts a notification. Referenced customer and project
// must exist when set.
func CreateNotification(ctx context.Context, q sqlx.ExtContext, n *models.Notification) error {
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return validationError("notification title is required")
	}
	if !models.IsValidNotificationType(n.Type) {
		return validationError("invalid notification type %q", n.Type)
	}
	if n.CustomerID != nil {
		ok, err := rowExists(ctx, q, "customers", *n.CustomerID)
		if err != nil {
			return fmt.Errorf("failed to check customer: %w", err)
		}
		if !ok {
			return notFound("customer", *n.CustomerID)
		}
	}
	if n.ProjectID != nil {
		ok, err := rowExists(ctx, q, "projects", *n.ProjectID)
		if err != nil {
			return fmt.Errorf("failed to check project: %w", err)
		}
		if !ok {
			return notFound("project", *n.ProjectID)
		}
	}

	n.CreatedAt = now()

	id, err := insertReturningID(ctx, q, `
		INSERT INTO notifications (customer_id, project_id, type, title, description, is_read, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, n.CustomerID, n.ProjectID, n.Type, n.Title, n.Description, n.IsRead, n.DueDate, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	n.ID = id
	return nil
}

// ListNotifications returns notifications newest first.
func ListNotifications(ctx context.Context, q sqlx.ExtContext, unreadOnly bool, skip, limit int) ([]models.Notification, error) {
	skip, limit = pageDefaults(skip, limit)

	query := `SELECT ` + notificationColumns + ` FROM notifications`
	args := []interface{}{}
	if unreadOnly {
		query += ` WHERE is_read = ?`
		args = append(args, false)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, skip)

	notifications := []models.Notification{}
	if err := sqlx.SelectContext(ctx, q, &notifications, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead flags a notification as read.
func MarkNotificationRead(ctx context.Context, q sqlx.ExtContext, id int64) error {
	res, err := q.ExecContext(ctx, q.Rebind(`UPDATE notifications SET is_read = ? WHERE id = ?`), true, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return notFound("notification", id)
	}
	return nil
}
