package repositories

import (
	"context"

	"caretrack/internal/models"
)

type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByEntity(ctx context.Context, entity, entityID string) ([]*models.AuditLog, error)
	List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}

type auditLogRepo struct {
	db Database
}

func NewAuditLogRepo(db Database) AuditLogRepository {
	return &auditLogRepo{db: db}
}

const auditLogColumns = `id, entity, entity_id, action, changed_fields, actor_id, at`

func (r *auditLogRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, entity, entity_id, action, changed_fields, actor_id, at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.Entity, entry.EntityID, entry.Action,
		entry.ChangedFields, entry.ActorID)
	return err
}

func (r *auditLogRepo) ListByEntity(ctx context.Context, entity, entityID string) ([]*models.AuditLog, error) {
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs WHERE entity = $1 AND entity_id = $2 ORDER BY at DESC`
	return r.queryLogs(ctx, query, entity, entityID)
}

func (r *auditLogRepo) List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs ORDER BY at DESC LIMIT $1 OFFSET $2`
	return r.queryLogs(ctx, query, limit, offset)
}

func (r *auditLogRepo) queryLogs(ctx context.Context, query string, args ...any) ([]*models.AuditLog, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		l := &models.AuditLog{}
		if err := rows.Scan(&l.ID, &l.Entity, &l.EntityID, &l.Action, &l.ChangedFields,
			&l.ActorID, &l.At); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
