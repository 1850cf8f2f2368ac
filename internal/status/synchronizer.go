package status

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/seojin-dev/loaner/internal/kiosk"
)

// NotificationKind distinguishes the two maintenance edges.
type NotificationKind int

const (
	MaintenanceEntered NotificationKind = iota
	MaintenanceExited
)

func (k NotificationKind) String() string {
	return [...]string{"maintenance-entered", "maintenance-exited"}[k]
}

// Notification is an edge-triggered, user-facing maintenance event.
type Notification struct {
	Kind    NotificationKind
	Message string
	At      time.Time
}

// StatusFetcher is the one-shot status call used by manual refresh.
type StatusFetcher interface {
	FetchStatus(ctx context.Context) (*kiosk.StatusSnapshot, error)
}

// Synchronizer turns the transport's snapshot stream into the latest value
// plus edge-triggered notifications. Snapshots must be applied in arrival
// order; the transport preserves channel order and the poll loop is
// sequential, so this holds by construction.
type Synchronizer struct {
	api StatusFetcher

	mu   sync.Mutex
	prev *kiosk.StatusSnapshot

	notifs chan Notification
}

// NewSynchronizer builds a synchronizer with no previous snapshot; the
// first observation never fires a notification.
func NewSynchronizer(api StatusFetcher) *Synchronizer {
	return &Synchronizer{
		api:    api,
		notifs: make(chan Notification, 16),
	}
}

// Apply ingests one snapshot. Only the IsTestMode field is compared for
// notifications; message or type changes alone are not events. Identical
// consecutive snapshots never re-fire. The emit happens under the same lock
// as the prev swap so concurrent appliers cannot publish edges out of
// order; the send is non-blocking, so holding the lock is cheap.
func (s *Synchronizer) Apply(snap kiosk.StatusSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.prev
	dup := snap
	s.prev = &dup

	if prev == nil || prev.IsTestMode == snap.IsTestMode {
		return
	}
	if snap.IsTestMode {
		s.emit(Notification{Kind: MaintenanceEntered, Message: enteredMessage(snap), At: time.Now()})
	} else {
		s.emit(Notification{Kind: MaintenanceExited, Message: exitedMessage, At: time.Now()})
	}
}

// Latest returns the most recent snapshot. ok is false before the first
// observation.
func (s *Synchronizer) Latest() (snap kiosk.StatusSnapshot, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prev == nil {
		return kiosk.StatusSnapshot{}, false
	}
	return *s.prev, true
}

// Notifications exposes the edge-triggered event queue. Events are dropped
// when nobody drains the queue rather than blocking the transport.
func (s *Synchronizer) Notifications() <-chan Notification {
	return s.notifs
}

// Refresh bypasses the transport cadence and fetches the current status
// immediately, running the same edge comparison.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	snap, err := s.api.FetchStatus(ctx)
	if err != nil {
		return fmt.Errorf("refresh system status: %w", err)
	}
	s.Apply(*snap)
	return nil
}

func (s *Synchronizer) emit(n Notification) {
	select {
	case s.notifs <- n:
	default:
	}
}

const exitedMessage = "System maintenance complete; rentals have resumed."

func enteredMessage(snap kiosk.StatusSnapshot) string {
	title := "System maintenance started"
	if snap.TestType != "" {
		title = snap.TestType + " started"
	}
	if snap.TestMessage != "" {
		return title + ": " + snap.TestMessage
	}
	return title + "; new rentals are suspended."
}
