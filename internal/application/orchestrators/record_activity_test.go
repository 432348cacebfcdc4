package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"ascend/internal/domain/audit"
)

// mockActivityStore implements ActivityStoreForRecord for testing.
type mockActivityStore struct {
	saved []audit.Event
	err   error
}

// Save implements ActivityStoreForRecord.
// PRE: valid parameters
// POST: returns expected result
func (m *mockActivityStore) Save(_ context.Context, e audit.Event) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, e)
	return nil
}

// TestExecuteRecordActivity_Saves verifies a valid event reaches the store.
func TestExecuteRecordActivity_Saves(t *testing.T) {
	store := &mockActivityStore{}
	e := audit.NewEvent("ada@ascend.example", audit.ActionUpdate, time.Now()).WithResource("events", "2")

	if err := ExecuteRecordActivity(context.Background(), e, RecordActivityDeps{ActivityStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.saved) != 1 || store.saved[0].ResourceID != "2" {
		t.Errorf("saved = %+v", store.saved)
	}
}

// TestExecuteRecordActivity_RejectsInvalid verifies events without an actor are not stored.
func TestExecuteRecordActivity_RejectsInvalid(t *testing.T) {
	store := &mockActivityStore{}
	e := audit.NewEvent("", audit.ActionDelete, time.Now())

	err := ExecuteRecordActivity(context.Background(), e, RecordActivityDeps{ActivityStore: store})
	if !errors.Is(err, audit.ErrEmptyActor) {
		t.Errorf("err = %v, want ErrEmptyActor", err)
	}
	if len(store.saved) != 0 {
		t.Errorf("invalid event was saved")
	}
}

// TestExecuteRecordActivity_StoreOptional verifies a nil store only logs.
func TestExecuteRecordActivity_StoreOptional(t *testing.T) {
	e := audit.NewEvent("ada@ascend.example", audit.ActionLogin, time.Now())
	if err := ExecuteRecordActivity(context.Background(), e, RecordActivityDeps{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestExecuteRecordActivity_StoreFailure verifies store errors are returned.
func TestExecuteRecordActivity_StoreFailure(t *testing.T) {
	boom := errors.New("backend down")
	e := audit.NewEvent("ada@ascend.example", audit.ActionExport, time.Now())
	err := ExecuteRecordActivity(context.Background(), e, RecordActivityDeps{ActivityStore: &mockActivityStore{err: boom}})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
