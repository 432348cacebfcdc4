package orchestrators

import (
	"context"
	"log/slog"

	"ascend/internal/domain/audit"
)

// ActivityStoreForRecord defines the store interface needed by RecordActivity.
type ActivityStoreForRecord interface {
	Save(ctx context.Context, event audit.Event) error
}

// RecordActivityDeps holds dependencies for RecordActivity.
// ActivityStore is optional: nil keeps the trail in the log only.
type RecordActivityDeps struct {
	ActivityStore ActivityStoreForRecord
}

// ExecuteRecordActivity logs a back-office action and appends it to the activity trail.
// PRE: event was built with audit.NewEvent
// POST: The event is logged; a store failure is logged and returned but the action it describes stands
func ExecuteRecordActivity(ctx context.Context, event audit.Event, deps RecordActivityDeps) error {
	if err := event.Validate(); err != nil {
		slog.Warn("audit_event", "event", "invalid", "action", string(event.Action), "error", err)
		return err
	}
	slog.Info("audit_event",
		"action", string(event.Action),
		"actor", event.Actor,
		"resource", event.Resource,
		"resource_id", event.ResourceID,
		"remote_addr", event.RemoteAddr,
	)
	if deps.ActivityStore == nil {
		return nil
	}
	if err := deps.ActivityStore.Save(ctx, event); err != nil {
		slog.Error("audit_event", "event", "record_failed", "action", string(event.Action), "error", err)
		return err
	}
	return nil
}
