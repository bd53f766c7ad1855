package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// ListForScope applies the visibility predicate, newest first, capped.
	ListForScope(ctx context.Context, scope model.Scope, limit int) ([]model.Notification, error)
	UnreadCountForScope(ctx context.Context, scope model.Scope) (int, error)
	// MarkRead re-validates visibility in the UPDATE filter itself; IDs outside
	// the scope are indistinguishable from absent ones.
	MarkRead(ctx context.Context, scope model.Scope, id string) error
	MarkAllRead(ctx context.Context, scope model.Scope) (int, error)
}

type pgNotificationRepository struct {
	db *sql.DB
}

func NewPgNotificationRepository(db *sql.DB) NotificationRepository {
	return &pgNotificationRepository{db: db}
}

const notificationColumns = `id, type, title, message, related_id, audience, target_campus, target_grade, is_read, created_at`

// scopeClause renders model.Notification.VisibleTo as SQL. Placeholders start
// at $1; the returned args line up with them.
func scopeClause(scope model.Scope) (string, []interface{}) {
	switch scope.Role {
	case model.RoleTeacher:
		if scope.Campus == nil {
			return "FALSE", nil
		}
		return `((audience = 'teacher' AND target_campus = $1) OR audience IN ('all_teachers', 'admin_and_teachers'))`,
			[]interface{}{*scope.Campus}
	case model.RoleStudent:
		if scope.Campus == nil || scope.Grade == nil {
			return "FALSE", nil
		}
		return `((audience = 'student' AND target_campus = $1 AND target_grade = $2) OR audience IN ('all_students', 'admin_and_students'))`,
			[]interface{}{*scope.Campus, *scope.Grade}
	default: // admin sees everything
		return "TRUE", nil
	}
}

func (r *pgNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `INSERT INTO notifications (id, type, title, message, related_id, audience, target_campus, target_grade, is_read)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.Type, n.Title, n.Message, n.RelatedID, n.Audience, n.TargetCampus, n.TargetGrade, n.IsRead)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.Create: %w", err)
	}
	return nil
}

func (r *pgNotificationRepository) ListForScope(ctx context.Context, scope model.Scope, limit int) ([]model.Notification, error) {
	clause, args := scopeClause(scope)
	query := fmt.Sprintf(`SELECT %s FROM notifications WHERE %s ORDER BY created_at DESC LIMIT %d`,
		notificationColumns, clause, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgNotificationRepository.ListForScope: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		n := model.Notification{}
		err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.RelatedID,
			&n.Audience, &n.TargetCampus, &n.TargetGrade, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("pgNotificationRepository.ListForScope scan: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *pgNotificationRepository) UnreadCountForScope(ctx context.Context, scope model.Scope) (int, error) {
	clause, args := scopeClause(scope)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM notifications WHERE is_read = FALSE AND %s`, clause)

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgNotificationRepository.UnreadCountForScope: %w", err)
	}
	return count, nil
}

func (r *pgNotificationRepository) MarkRead(ctx context.Context, scope model.Scope, id string) error {
	clause, args := scopeClause(scope)
	// id placeholder comes after the scope clause's $1..$n
	query := fmt.Sprintf(`UPDATE notifications SET is_read = TRUE WHERE id = $%d AND %s`, len(args)+1, clause)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.MarkRead: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgNotificationRepository) MarkAllRead(ctx context.Context, scope model.Scope) (int, error) {
	clause, args := scopeClause(scope)
	query := fmt.Sprintf(`UPDATE notifications SET is_read = TRUE WHERE is_read = FALSE AND %s`, clause)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("pgNotificationRepository.MarkAllRead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pgNotificationRepository.MarkAllRead: %w", err)
	}
	return int(n), nil
}
