// Package storage persists the back-office audit trail. The remote API is the
// source of truth for records; only who changed what is kept locally.
package storage

import (
	"context"
	"errors"

	"github.com/Fuonder/bmadsoffice/internal/models"
)

var ErrStorageClosed = errors.New("audit storage is closed")

type AuditFilter struct {
	Resource models.Resource
	RecordID int
	Limit    int
}

const DefaultAuditLimit = 100

type AuditWriter interface {
	InsertAudit(ctx context.Context, entry models.AuditEntry) (int64, error)
}

type AuditReader interface {
	ListAudit(ctx context.Context, filter AuditFilter) ([]models.AuditEntry, error)
}

type AuditStorage interface {
	AuditWriter
	AuditReader
	Ping(ctx context.Context) error
	Close() error
}
