package audit

import "context"

// Sink is the boundary to the external audit consumer. Delivery is expected
// to be at-least-once downstream; callers must not roll back domain state on
// sink failure.
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}
