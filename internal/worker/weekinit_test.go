package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hyperengineering/copydesk/internal/checklist"
)

// mockInitializer implements WeekInitializer for testing
type mockInitializer struct {
	mu      sync.Mutex
	calls   int
	weeks   []string
	err     error
	created int
}

func (m *mockInitializer) InitWeek(ctx context.Context, week string) (*checklist.InitResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.weeks = append(m.weeks, week)
	if m.err != nil {
		return nil, m.err
	}
	return &checklist.InitResult{Week: "2026-W05", Created: m.created}, nil
}

func (m *mockInitializer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestWeekInitCoordinator_RunsImmediatelyAndOnSchedule(t *testing.T) {
	init := &mockInitializer{created: 3}
	coordinator := NewWeekInitCoordinator(init, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go coordinator.Run(ctx)

	// Immediate run plus at least 2 ticks
	time.Sleep(120 * time.Millisecond)
	cancel()

	if calls := init.callCount(); calls < 3 {
		t.Errorf("Expected at least 3 init calls (immediate plus ticks), got %d", calls)
	}

	init.mu.Lock()
	defer init.mu.Unlock()
	for _, week := range init.weeks {
		if week != "" {
			t.Errorf("Expected empty week (current), got %q", week)
		}
	}
}

func TestWeekInitCoordinator_ContinuesAfterError(t *testing.T) {
	init := &mockInitializer{err: errors.New("database error")}
	coordinator := NewWeekInitCoordinator(init, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go coordinator.Run(ctx)

	time.Sleep(120 * time.Millisecond)
	cancel()

	if calls := init.callCount(); calls < 2 {
		t.Errorf("Expected coordinator to keep running after errors, got %d calls", calls)
	}
}

func TestWeekInitCoordinator_GracefulShutdown(t *testing.T) {
	init := &mockInitializer{}
	coordinator := NewWeekInitCoordinator(init, 1*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		coordinator.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
		// Success
	case <-time.After(1 * time.Second):
		t.Error("Coordinator did not stop within 1 second")
	}
}
