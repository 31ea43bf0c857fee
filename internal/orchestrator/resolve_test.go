package orchestrator

import (
	"context"
	"testing"

	"autosheetify/internal/auth"
	"autosheetify/internal/transcribe"
)

type blockingExecutor struct{ release chan struct{} }

func (b blockingExecutor) Execute(_ context.Context, _ transcribe.Payload, _ string, id uint64) transcribe.Outcome {
	<-b.release
	return transcribe.NetworkFailure(id, context.Canceled)
}

func TestResolveIgnoresOutcomesForOtherRequests(t *testing.T) {
	exec := blockingExecutor{release: make(chan struct{})}
	defer close(exec.release)
	m := New(auth.NewGate(auth.StaticSession{Token: "tok", Valid: true}), exec)
	if err := m.Input().SetURL("https://youtu.be/dQw4w9WgXcQ"); err != nil {
		t.Fatalf("SetURL: %v", err)
	}
	for range 3 {
		// Orphan the live request without clearing the input.
		if err := m.Submit(context.Background()); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		m.mu.Lock()
		m.phase = PhaseIdle
		m.live = 0
		m.mu.Unlock()
	}
	if err := m.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	before := m.State()
	if before.RequestID != 4 || before.Phase != PhaseSubmitting {
		t.Fatalf("unexpected state %+v", before)
	}

	body := []byte(`{"status":"success","sheet_url":"a","midi_url":"b"}`)
	for _, id := range []uint64{0, 1, 2, 3, 5} {
		m.resolve(context.Background(), transcribe.Ok(id, body))
		if st := m.State(); st.Phase != PhaseSubmitting || st.Version != before.Version {
			t.Fatalf("outcome %d changed state: %+v", id, st)
		}
	}

	m.resolve(context.Background(), transcribe.Ok(4, body))
	st := m.State()
	if st.Phase != PhaseSuccess || st.Result == nil || st.Result.RequestID != 4 {
		t.Fatalf("live outcome not applied: %+v", st)
	}

	m.resolve(context.Background(), transcribe.Ok(4, []byte(`{"status":"error"}`)))
	if again := m.State(); again.Phase != PhaseSuccess || again.Version != st.Version {
		t.Fatalf("duplicate outcome changed state: %+v", again)
	}
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from, to Phase
		ok       bool
	}{
		{PhaseIdle, PhaseSubmitting, true},
		{PhaseIdle, PhaseSuccess, false},
		{PhaseIdle, PhaseFailed, false},
		{PhaseSubmitting, PhaseSuccess, true},
		{PhaseSubmitting, PhaseFailed, true},
		{PhaseSubmitting, PhaseSubmitting, false},
		{PhaseSubmitting, PhaseIdle, true},
		{PhaseSuccess, PhaseSubmitting, true},
		{PhaseSuccess, PhaseFailed, false},
		{PhaseFailed, PhaseSubmitting, true},
		{PhaseFailed, PhaseIdle, true},
	}
	for _, tc := range tests {
		if got := isValidTransition(tc.from, tc.to); got != tc.ok {
			t.Errorf("isValidTransition(%s, %s) = %v want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}
