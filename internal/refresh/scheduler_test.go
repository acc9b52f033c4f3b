package refresh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"estancia-digital/internal/domain/gestations"
)

type fakeSource struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
}

func (f *fakeSource) ActiveAt(ctx context.Context, ownerID string, now time.Time) ([]gestations.View, gestations.SweepResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, now)
	if f.err != nil {
		return nil, gestations.SweepResult{}, f.err
	}
	v := gestations.View{Stage: gestations.Stage{ComputedAt: now, Overdue: true}}
	return []gestations.View{v}, gestations.SweepResult{Checked: 1, Flagged: []gestations.View{v}, ComputedAt: now}, nil
}

func TestNextBoundary(t *testing.T) {
	baires := time.FixedZone("ART", -3*3600)

	cases := []struct {
		name string
		now  time.Time
		loc  *time.Location
		want time.Time
	}{
		{"media tarde", time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC), time.UTC, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
		{"justo medianoche", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.UTC, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
		{"fin de mes", time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), time.UTC, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		// 01:00 UTC son las 22:00 del día anterior en UTC-3
		{"otra zona", time.Date(2024, 5, 2, 1, 0, 0, 0, time.UTC), baires, time.Date(2024, 5, 2, 0, 0, 0, 0, baires)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextBoundary(tc.now, tc.loc)
			if !got.Equal(tc.want) {
				t.Fatalf("NextBoundary = %s, want %s", got, tc.want)
			}
			if !got.After(tc.now) {
				t.Fatalf("boundary must be after now")
			}
		})
	}
}

func TestScheduler_RefreshUsesSingleInstant(t *testing.T) {
	src := &fakeSource{}
	s := New(src, "o", nil)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	snap := s.Refresh(context.Background(), ReasonManual)
	if snap.Err != nil || snap.Overdue != 1 || !snap.ComputedAt.Equal(now) {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(src.calls) != 1 || !src.calls[0].Equal(now) {
		t.Fatalf("source called with %v", src.calls)
	}
}

func TestScheduler_RefreshReportsSourceError(t *testing.T) {
	boom := errors.New("db down")
	s := New(&fakeSource{err: boom}, "o", nil)

	snap := s.Refresh(context.Background(), ReasonManual)
	if !errors.Is(snap.Err, boom) {
		t.Fatalf("expected source error, got %v", snap.Err)
	}
}

// harness controla el reloj de Run: cada espera pide un canal que el test dispara.
type harness struct {
	s      *Scheduler
	ticks  chan chan time.Time
	snaps  chan Snapshot
	cancel context.CancelFunc
	done   chan error
}

func startHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		ticks: make(chan chan time.Time, 8),
		snaps: make(chan Snapshot, 8),
		done:  make(chan error, 1),
	}
	h.s = New(&fakeSource{}, "o", func(s Snapshot) { h.snaps <- s }, WithLocation(time.UTC))
	h.s.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	h.s.after = func(d time.Duration) <-chan time.Time {
		if d != 14*time.Hour {
			t.Errorf("wait = %s, want 14h", d)
		}
		c := make(chan time.Time, 1)
		h.ticks <- c
		return c
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- h.s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

func (h *harness) next(t *testing.T) Snapshot {
	t.Helper()
	select {
	case s := <-h.snaps:
		return s
	case <-time.After(2 * time.Second):
		t.Fatalf("no snapshot published")
		return Snapshot{}
	}
}

func (h *harness) tick(t *testing.T) {
	t.Helper()
	select {
	case c := <-h.ticks:
		c <- time.Time{}
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduler is not waiting")
	}
}

func TestScheduler_Run_StartAndMidnight(t *testing.T) {
	h := startHarness(t)

	if s := h.next(t); s.Reason != ReasonStart {
		t.Fatalf("first refresh reason = %s", s.Reason)
	}
	h.tick(t)
	if s := h.next(t); s.Reason != ReasonMidnight {
		t.Fatalf("second refresh reason = %s", s.Reason)
	}
}

func TestScheduler_Run_HiddenSkipsMidnightUntilVisible(t *testing.T) {
	h := startHarness(t)
	h.next(t)

	h.s.SetVisible(false)
	h.tick(t)

	// Oculta: la medianoche no publica, solo queda pendiente.
	select {
	case s := <-h.snaps:
		t.Fatalf("unexpected publish while hidden: %s", s.Reason)
	case c := <-h.ticks:
		h.ticks <- c
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduler stopped waiting")
	}
	if !h.s.Stale() {
		t.Fatalf("expected stale after hidden midnight")
	}

	h.s.SetVisible(true)
	if s := h.next(t); s.Reason != ReasonVisible {
		t.Fatalf("reason = %s, want visible", s.Reason)
	}
	if h.s.Stale() {
		t.Fatalf("stale should clear after refresh")
	}
}

func TestScheduler_SetVisible_OnlyTransitionsWake(t *testing.T) {
	s := New(&fakeSource{}, "o", nil)

	s.SetVisible(true) // ya era visible
	select {
	case <-s.wake:
		t.Fatalf("visible -> visible must not wake")
	default:
	}

	s.SetVisible(false)
	s.SetVisible(true)
	s.SetVisible(false)
	s.SetVisible(true)
	if len(s.wake) != 1 {
		t.Fatalf("wake signals are coalesced, got %d", len(s.wake))
	}
}

func TestScheduler_Run_StopsOnCancel(t *testing.T) {
	h := startHarness(t)
	h.next(t)
	h.cancel()

	select {
	case err := <-h.done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
		h.done <- err
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop")
	}
}
