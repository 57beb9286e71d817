package audit

import (
	"encoding/json"
	"time"
)

// Entry is one recorded domain event. The audit store itself is an external
// collaborator; the engine only appends to it through the Sink port.
type Entry struct {
	ID          string
	Kind        string
	AggregateID string
	EmployeeID  string
	ActorID     string
	Payload     json.RawMessage
	OccurredAt  time.Time
	RecordedAt  time.Time
}
