package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Fuonder/bmadsoffice/internal/logger"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/storage"
)

type PsqlStorage struct {
	conn *Connection
	now  func() time.Time
}

func NewPsqlStorage(conn *Connection) *PsqlStorage {
	return &PsqlStorage{conn: conn, now: time.Now}
}

func (p *PsqlStorage) InsertAudit(ctx context.Context, e models.AuditEntry) (int64, error) {
	created := e.CreatedAt.Time
	if created.IsZero() {
		created = p.now().UTC()
	}
	var id int64
	err := p.conn.db.QueryRowContext(ctx, InsertAuditQuery,
		string(e.Resource),
		e.RecordID,
		e.Action,
		e.FromStatus,
		e.ToStatus,
		e.Remarks,
		e.Actor,
		created,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert audit entry: %w", err)
	}
	return id, nil
}

func (p *PsqlStorage) ListAudit(ctx context.Context, f storage.AuditFilter) ([]models.AuditEntry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = storage.DefaultAuditLimit
	}
	rows, err := p.conn.db.QueryContext(ctx, ListAuditQuery, string(f.Resource), f.RecordID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.AuditEntry, 0)
	for rows.Next() {
		var (
			e        models.AuditEntry
			resource string
			created  time.Time
		)
		if err := rows.Scan(&e.ID, &resource, &e.RecordID, &e.Action,
			&e.FromStatus, &e.ToStatus, &e.Remarks, &e.Actor, &created); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Resource = models.Resource(resource)
		e.CreatedAt = models.NewTimestamp(created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (p *PsqlStorage) Ping(ctx context.Context) error {
	return p.conn.db.PingContext(ctx)
}

func (p *PsqlStorage) Close() error {
	logger.Log.Info("Closing database connection gracefully")
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
