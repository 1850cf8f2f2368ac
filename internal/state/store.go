package state

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/seojin-dev/loaner/internal/kiosk"
)

// Snapshot is the latest device inventory view handed to consumers. It is a
// clone; mutating it never touches the store.
type Snapshot struct {
	Devices             []kiosk.DeviceRecord
	Selected            []string // device ids, sorted
	HasDevices          bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline reports whether the server has been unreachable for multiple
// consecutive refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// IsSelected reports whether the given device id is in the selection set.
func (s Snapshot) IsSelected(id string) bool {
	for _, sel := range s.Selected {
		if sel == id {
			return true
		}
	}
	return false
}

// Counts aggregates the inventory by status and platform.
type Counts struct {
	Total      int
	Available  int
	Rented     int
	ByPlatform map[kiosk.Platform]int
}

// Counts derives inventory statistics on read. The list is small, so
// recomputation beats caching.
func (s Snapshot) Counts() Counts {
	c := Counts{ByPlatform: make(map[kiosk.Platform]int)}
	for _, d := range s.Devices {
		c.Total++
		if d.Rented() {
			c.Rented++
		} else {
			c.Available++
		}
		c.ByPlatform[d.Platform]++
	}
	return c
}

// Store is the single source of truth for the device list as last observed
// from the server, plus the user's pending selection. The device slice is
// only ever replaced wholesale; concurrent refreshes race benignly with
// last-write-wins.
type Store struct {
	mu         sync.RWMutex
	devices    []kiosk.DeviceRecord
	selected   map[string]struct{}
	hasDevices bool
	updated    time.Time
	lastErr    error
	failures   int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{selected: make(map[string]struct{})}
}

// Replace installs a freshly fetched device list and prunes the selection
// of ids that vanished or are no longer available. When err is non-nil the
// previous list is kept and the error recorded for visibility.
func (s *Store) Replace(devices []kiosk.DeviceRecord, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastErr = err
		s.updated = time.Now()
		s.failures++
		return
	}

	s.devices = cloneDevices(devices)
	s.hasDevices = true
	s.lastErr = nil
	s.updated = time.Now()
	s.failures = 0

	for id := range s.selected {
		d, ok := s.findLocked(id)
		if !ok || d.Rented() {
			delete(s.selected, id)
		}
	}
}

// Select adds a device to the selection. Rented and unknown devices are
// refused, keeping the invariant that the selection never holds a rented
// id.
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.findLocked(id)
	if !ok || d.Rented() {
		return false
	}
	s.selected[id] = struct{}{}
	return true
}

// Deselect removes a device from the selection.
func (s *Store) Deselect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, id)
}

// Toggle flips a device's selection and reports whether it is selected
// afterward. Rented devices stay unselected.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return false
	}
	d, ok := s.findLocked(id)
	if !ok || d.Rented() {
		return false
	}
	s.selected[id] = struct{}{}
	return true
}

// SelectAll selects every available device.
func (s *Store) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.devices {
		if !d.Rented() {
			s.selected[d.ID] = struct{}{}
		}
	}
}

// ClearSelection empties the selection set.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// SelectedIDs returns the selection as a sorted slice.
func (s *Store) SelectedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedLocked()
}

// Snapshot returns a cloned view of the current inventory and selection.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Devices:             cloneDevices(s.devices),
		Selected:            s.selectedLocked(),
		HasDevices:          s.hasDevices,
		LastUpdated:         s.updated,
		ConsecutiveFailures: s.failures,
	}
	if s.lastErr != nil {
		snap.LastError = fmt.Errorf("%w", s.lastErr)
	}
	return snap
}

func (s *Store) findLocked(id string) (kiosk.DeviceRecord, bool) {
	for _, d := range s.devices {
		if d.ID == id {
			return d, true
		}
	}
	return kiosk.DeviceRecord{}, false
}

func (s *Store) selectedLocked() []string {
	if len(s.selected) == 0 {
		return nil
	}
	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func cloneDevices(devices []kiosk.DeviceRecord) []kiosk.DeviceRecord {
	if len(devices) == 0 {
		return nil
	}
	dup := make([]kiosk.DeviceRecord, len(devices))
	copy(dup, devices)
	return dup
}
