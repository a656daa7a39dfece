package postgres

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/ahrav/go-tally/internal/domain"
	"github.com/ahrav/go-tally/internal/ports"
)

// AuditSink appends audit entries to the audit_log table. A Record
// failure propagates to the caller, which aborts the surrounding
// mutation, so a successful operation always has its trail row.
type AuditSink struct {
	db *gorm.DB
}

var _ ports.AuditSink = (*AuditSink)(nil)

// NewAuditSink wraps a GORM connection as an audit sink.
func NewAuditSink(db *gorm.DB) *AuditSink { return &AuditSink{db: db} }

// NewAuditSinkFromStore shares the store's connection.
func NewAuditSinkFromStore(s *Store) *AuditSink { return &AuditSink{db: s.db} }

func (a *AuditSink) Record(ctx context.Context, entry domain.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return &domain.StorageError{Op: "encode audit details", Err: err}
	}
	m := auditRecordModel{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    string(details),
		At:         entry.At,
	}
	if err := a.db.WithContext(ctx).Create(&m).Error; err != nil {
		return &domain.StorageError{Op: "record audit entry", Err: err}
	}
	return nil
}
