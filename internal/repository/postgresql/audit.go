package postgresql

import (
	"context"
	"fmt"

	"github.com/paycove/payroll-backend-go/internal/domain/audit"
	"github.com/paycove/payroll-backend-go/internal/pkg/database"
)

type auditSink struct {
	db *database.DB
}

// NewAuditSink stores audit entries in the audit_entries table. It stands in
// for the external audit consumer; swapping in a queue-backed sink only needs
// another audit.Sink.
func NewAuditSink(db *database.DB) audit.Sink {
	return &auditSink{db: db}
}

// Record implements audit.Sink. It deliberately ignores any transaction in
// ctx: an audit write must not extend or abort the domain transaction.
func (s *auditSink) Record(ctx context.Context, entry audit.Entry) error {
	query := `
		INSERT INTO audit_entries (
			id, kind, aggregate_id, employee_id, actor_id, payload, occurred_at, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.Exec(ctx, query,
		entry.ID, entry.Kind, entry.AggregateID, entry.EmployeeID,
		entry.ActorID, entry.Payload, entry.OccurredAt, entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}
