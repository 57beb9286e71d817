package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/paycove/payroll-backend-go/internal/domain/audit"
	"github.com/paycove/payroll-backend-go/internal/domain/payroll"
)

// Emitter forwards payroll events to the audit sink. Emission is
// fire-and-forget: a sink failure is logged and never propagated, so a
// committed transition is never undone by its audit trail.
type Emitter struct {
	sink   audit.Sink
	logger *slog.Logger
}

func NewEmitter(sink audit.Sink, logger *slog.Logger) *Emitter {
	return &Emitter{sink: sink, logger: logger}
}

func (e *Emitter) Emit(ctx context.Context, event payroll.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		e.logger.Error("marshal audit event",
			slog.String("kind", string(event.Kind)),
			slog.String("payroll_id", event.PayrollID),
			slog.Any("error", err),
		)
		return
	}

	entry := audit.Entry{
		ID:          uuid.NewString(),
		Kind:        string(event.Kind),
		AggregateID: event.PayrollID,
		EmployeeID:  event.EmployeeID,
		ActorID:     event.ActorID,
		Payload:     payload,
		OccurredAt:  event.OccurredAt,
		RecordedAt:  time.Now().UTC(),
	}

	if err := e.sink.Record(ctx, entry); err != nil {
		e.logger.Warn("audit sink rejected event",
			slog.String("kind", string(event.Kind)),
			slog.String("payroll_id", event.PayrollID),
			slog.Any("error", err),
		)
	}
}
