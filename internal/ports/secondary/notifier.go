package secondary

import "context"

// EscalationNotifier receives escalation targets for a case.
// Delivery guarantees are the implementation's concern; the engine treats
// Notify as fire-and-forget and only logs a returned error.
type EscalationNotifier interface {
	Notify(ctx context.Context, caseID, tier string, roles []string) error
}
