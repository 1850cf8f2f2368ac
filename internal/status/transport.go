package status

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/seojin-dev/loaner/internal/kiosk"
)

// ConnectionState describes how the transport is currently receiving
// status. Only the transport sets it; consumers read it.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
	Polling
	Offline
)

func (s ConnectionState) String() string {
	return [...]string{"disconnected", "connecting", "connected", "polling", "offline"}[s]
}

// StreamAPI is the slice of the kiosk client the transport depends on.
type StreamAPI interface {
	OpenStatusStream(ctx context.Context) (io.ReadCloser, error)
	FetchStatus(ctx context.Context) (*kiosk.StatusSnapshot, error)
}

const (
	defaultPollInterval   = 60 * time.Second
	defaultReconnectDelay = 5 * time.Second

	// consecutive poll failures before the transport reports offline
	offlineThreshold = 2

	eventStatusUpdate = "SYSTEM_STATUS_UPDATE"
	eventHeartbeat    = "HEARTBEAT"
)

// TransportOptions tune the transport. Zero values take the defaults.
//
// OnSnapshot and OnStateChange are invoked from transport goroutines, the
// latter with the transport lock held; neither may call back into the
// Transport.
type TransportOptions struct {
	PollInterval   time.Duration
	ReconnectDelay time.Duration
	OnSnapshot     func(kiosk.StatusSnapshot)
	OnStateChange  func(ConnectionState)
}

// Transport owns the single logical status subscription. It prefers the
// live event stream and falls back to fixed-cadence polling when the stream
// cannot be established; polling never upgrades itself back to the stream,
// only Start or Nudge do.
type Transport struct {
	api  StreamAPI
	opts TransportOptions

	mu               sync.Mutex
	state            ConnectionState
	stopped          bool
	cancelStream     context.CancelFunc
	cancelPoll       context.CancelFunc
	reconnectTimer   *time.Timer
	reconnectPending bool
	pollFailures     int
}

// NewTransport builds a stopped transport; call Start to connect.
func NewTransport(api StreamAPI, opts TransportOptions) *Transport {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = defaultReconnectDelay
	}
	return &Transport{api: api, opts: opts, state: Disconnected}
}

// Start attempts the live channel. It is idempotent: a transport that is
// already connecting or connected is left alone. Starting from polling
// tears the poll loop down first, so a failed attempt lands back in polling
// rather than stacking loops.
func (t *Transport) Start(ctx context.Context) {
	t.mu.Lock()
	if t.state == Connecting || t.state == Connected {
		t.mu.Unlock()
		return
	}
	t.stopped = false
	t.cancelReconnectLocked()
	t.stopPollingLocked()
	t.setStateLocked(Connecting)
	streamCtx, cancel := context.WithCancel(ctx)
	t.cancelStream = cancel
	t.mu.Unlock()

	go t.consume(ctx, streamCtx)
}

// Stop tears down the stream, the poll loop, and any pending reconnect
// timer through one disposal path. Safe to call multiple times.
func (t *Transport) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	if t.cancelStream != nil {
		t.cancelStream()
		t.cancelStream = nil
	}
	t.stopPollingLocked()
	t.cancelReconnectLocked()
	t.setStateLocked(Disconnected)
}

// Nudge attempts Start only when the transport is disconnected. It is the
// hook for connectivity-regained style signals; firing it while polling or
// connected is a no-op, which avoids reconnect storms.
func (t *Transport) Nudge(ctx context.Context) {
	t.mu.Lock()
	disconnected := t.state == Disconnected
	t.mu.Unlock()

	if disconnected {
		t.Start(ctx)
	}
}

// State returns the current connection state.
func (t *Transport) State() ConnectionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Transport) consume(parent, streamCtx context.Context) {
	body, err := t.api.OpenStatusStream(streamCtx)
	if err != nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.stopped || streamCtx.Err() != nil {
			return
		}
		// The live channel could not be established at all: fall back to
		// polling instead of retrying the stream in a loop.
		log.Printf("status stream open failed, polling instead: %v", err)
		t.startPollingLocked(parent)
		return
	}
	defer func() { _ = body.Close() }()

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.setStateLocked(Connected)
	t.mu.Unlock()

	err = readEvents(body, t.handleEvent)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.setStateLocked(Disconnected)
	if t.stopped || streamCtx.Err() != nil {
		return
	}
	log.Printf("status stream closed: %v", err)
	t.scheduleReconnectLocked(parent)
}

// handleEvent discriminates the two message kinds. Heartbeats only confirm
// liveness and are never forwarded as status changes.
func (t *Transport) handleEvent(ev event) {
	switch gjson.Get(ev.data, "type").String() {
	case eventStatusUpdate:
		payload := gjson.Get(ev.data, "payload")
		if !payload.Exists() {
			return
		}
		var snap kiosk.StatusSnapshot
		if err := json.Unmarshal([]byte(payload.Raw), &snap); err != nil {
			log.Printf("status event decode failed: %v", err)
			return
		}
		if t.opts.OnSnapshot != nil {
			t.opts.OnSnapshot(snap)
		}
	case eventHeartbeat:
	}
}

// scheduleReconnectLocked arms a single reconnect attempt after the
// configured delay. The pending guard keeps overlapping stream errors from
// stacking timers.
func (t *Transport) scheduleReconnectLocked(ctx context.Context) {
	if t.reconnectPending {
		return
	}
	t.reconnectPending = true
	t.reconnectTimer = time.AfterFunc(t.opts.ReconnectDelay, func() {
		t.mu.Lock()
		t.reconnectPending = false
		stopped := t.stopped
		t.mu.Unlock()
		if stopped || ctx.Err() != nil {
			return
		}
		t.Start(ctx)
	})
}

func (t *Transport) cancelReconnectLocked() {
	if t.reconnectTimer != nil {
		t.reconnectTimer.Stop()
		t.reconnectTimer = nil
	}
	t.reconnectPending = false
}

func (t *Transport) startPollingLocked(ctx context.Context) {
	if t.state == Polling {
		return
	}
	t.setStateLocked(Polling)
	t.pollFailures = 0
	pollCtx, cancel := context.WithCancel(ctx)
	t.cancelPoll = cancel
	go t.poll(pollCtx)
}

func (t *Transport) stopPollingLocked() {
	if t.cancelPoll != nil {
		t.cancelPoll()
		t.cancelPoll = nil
	}
}

func (t *Transport) poll(ctx context.Context) {
	ticker := time.NewTicker(t.opts.PollInterval)
	defer ticker.Stop()

	for {
		t.pollOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (t *Transport) pollOnce(ctx context.Context) {
	snap, err := t.api.FetchStatus(ctx)

	t.mu.Lock()
	if t.stopped || ctx.Err() != nil {
		t.mu.Unlock()
		return
	}
	if err != nil {
		t.pollFailures++
		if t.pollFailures >= offlineThreshold && t.state == Polling {
			t.setStateLocked(Offline)
		}
		t.mu.Unlock()
		log.Printf("status poll failed: %v", err)
		return
	}
	t.pollFailures = 0
	if t.state == Offline {
		t.setStateLocked(Polling)
	}
	t.mu.Unlock()

	if t.opts.OnSnapshot != nil {
		t.opts.OnSnapshot(*snap)
	}
}

func (t *Transport) setStateLocked(next ConnectionState) {
	if t.state == next {
		return
	}
	t.state = next
	if t.opts.OnStateChange != nil {
		t.opts.OnStateChange(next)
	}
}
