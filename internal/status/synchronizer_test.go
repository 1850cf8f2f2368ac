package status

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/seojin-dev/loaner/internal/kiosk"
)

func drainNotifications(s *Synchronizer) []Notification {
	var out []Notification
	for {
		select {
		case n := <-s.Notifications():
			out = append(out, n)
		default:
			return out
		}
	}
}

func TestSynchronizer_FirstSnapshotNeverNotifies(t *testing.T) {
	s := NewSynchronizer(nil)

	if _, ok := s.Latest(); ok {
		t.Fatal("Latest ok before first snapshot, want false")
	}

	s.Apply(kiosk.StatusSnapshot{IsTestMode: true, TestType: "load test"})

	if notifs := drainNotifications(s); len(notifs) != 0 {
		t.Fatalf("first snapshot fired %d notifications, want 0", len(notifs))
	}
	latest, ok := s.Latest()
	if !ok || !latest.IsTestMode {
		t.Fatalf("Latest = %#v ok=%v, want stored test-mode snapshot", latest, ok)
	}
}

func TestSynchronizer_IdenticalSnapshotsAreIdempotent(t *testing.T) {
	s := NewSynchronizer(nil)

	snap := kiosk.StatusSnapshot{IsTestMode: false}
	for i := 0; i < 5; i++ {
		s.Apply(snap)
	}
	if notifs := drainNotifications(s); len(notifs) != 0 {
		t.Fatalf("identical snapshots fired %d notifications, want 0", len(notifs))
	}

	// Message-only changes are not edges either.
	s.Apply(kiosk.StatusSnapshot{IsTestMode: true})
	drainNotifications(s)
	s.Apply(kiosk.StatusSnapshot{IsTestMode: true, TestMessage: "wording changed"})
	if notifs := drainNotifications(s); len(notifs) != 0 {
		t.Fatalf("message-only change fired %d notifications, want 0", len(notifs))
	}
}

func TestSynchronizer_EdgePairFiresBothKindsInOrder(t *testing.T) {
	s := NewSynchronizer(nil)

	s.Apply(kiosk.StatusSnapshot{IsTestMode: false})
	s.Apply(kiosk.StatusSnapshot{IsTestMode: true, TestType: "regression test", TestMessage: "back at 6pm"})
	s.Apply(kiosk.StatusSnapshot{IsTestMode: false})

	notifs := drainNotifications(s)
	if len(notifs) != 2 {
		t.Fatalf("fired %d notifications, want 2", len(notifs))
	}
	if notifs[0].Kind != MaintenanceEntered || notifs[1].Kind != MaintenanceExited {
		t.Fatalf("kinds = %v,%v want entered,exited", notifs[0].Kind, notifs[1].Kind)
	}
	if !strings.Contains(notifs[0].Message, "regression test") || !strings.Contains(notifs[0].Message, "back at 6pm") {
		t.Fatalf("entered message = %q, want type and admin message", notifs[0].Message)
	}
	if notifs[1].Message != exitedMessage {
		t.Fatalf("exited message = %q, want %q", notifs[1].Message, exitedMessage)
	}
}

func TestSynchronizer_GenericMessageWithoutTypeOrText(t *testing.T) {
	s := NewSynchronizer(nil)

	s.Apply(kiosk.StatusSnapshot{IsTestMode: false})
	s.Apply(kiosk.StatusSnapshot{IsTestMode: true})

	notifs := drainNotifications(s)
	if len(notifs) != 1 {
		t.Fatalf("fired %d notifications, want 1", len(notifs))
	}
	if !strings.Contains(notifs[0].Message, "maintenance") || !strings.Contains(notifs[0].Message, "suspended") {
		t.Fatalf("generic message = %q, want maintenance wording", notifs[0].Message)
	}
}

func TestSynchronizer_ConcurrentAppliesKeepEdgeOrder(t *testing.T) {
	s := NewSynchronizer(nil)
	s.Apply(kiosk.StatusSnapshot{IsTestMode: false})

	// Two appliers race the same toggles (stream vs manual refresh). The
	// edge comparison and the emit share one critical section, so however
	// the calls interleave the published kinds must strictly alternate.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 4; j++ {
				s.Apply(kiosk.StatusSnapshot{IsTestMode: true})
				s.Apply(kiosk.StatusSnapshot{IsTestMode: false})
			}
		}()
	}
	wg.Wait()

	notifs := drainNotifications(s)
	if len(notifs) == 0 {
		t.Fatal("no notifications fired, want at least one edge pair")
	}
	if notifs[0].Kind != MaintenanceEntered {
		t.Fatalf("first notification = %v, want entered", notifs[0].Kind)
	}
	for i := 1; i < len(notifs); i++ {
		if notifs[i].Kind == notifs[i-1].Kind {
			t.Fatalf("notifications %d and %d both %v, want strict alternation", i-1, i, notifs[i].Kind)
		}
	}
}

type fakeFetcher struct {
	snap *kiosk.StatusSnapshot
	err  error
}

func (f *fakeFetcher) FetchStatus(ctx context.Context) (*kiosk.StatusSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func TestSynchronizer_RefreshRunsSameComparison(t *testing.T) {
	fetcher := &fakeFetcher{snap: &kiosk.StatusSnapshot{IsTestMode: false}}
	s := NewSynchronizer(fetcher)

	ctx := context.Background()
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if notifs := drainNotifications(s); len(notifs) != 0 {
		t.Fatalf("first refresh fired %d notifications, want 0", len(notifs))
	}

	fetcher.snap = &kiosk.StatusSnapshot{IsTestMode: true}
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	notifs := drainNotifications(s)
	if len(notifs) != 1 || notifs[0].Kind != MaintenanceEntered {
		t.Fatalf("refresh notifications = %#v, want one entered edge", notifs)
	}

	fetcher.err = errors.New("server down")
	if err := s.Refresh(ctx); err == nil {
		t.Fatal("Refresh returned nil, want error")
	}
	// A failed refresh must not disturb the latest value.
	if latest, ok := s.Latest(); !ok || !latest.IsTestMode {
		t.Fatalf("Latest after failed refresh = %#v ok=%v, want previous snapshot", latest, ok)
	}
}
