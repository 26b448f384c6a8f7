package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tracelink/tracelink/internal/geo"
	"github.com/tracelink/tracelink/internal/marker"
	"github.com/tracelink/tracelink/internal/sensor"
)

// fakeClock lets tests advance engine time without sleeping through the
// offline threshold.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(start time.Time) *fakeClock { return &fakeClock{t: start} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// countingRenderer is a race-safe marker.Renderer recording operations.
type countingRenderer struct {
	mu      sync.Mutex
	next    int
	creates int
	moves   int
	icons   int
	popups  int
	removes int
	offline map[marker.Handle]bool
}

func newCountingRenderer() *countingRenderer {
	return &countingRenderer{offline: make(map[marker.Handle]bool)}
}

func (r *countingRenderer) Create(p geo.Point, ic marker.Icon, popup string) marker.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.creates++
	r.offline[r.next] = ic.Offline
	return r.next
}

func (r *countingRenderer) Move(h marker.Handle, p geo.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves++
}

func (r *countingRenderer) SetIcon(h marker.Handle, ic marker.Icon) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.icons++
	r.offline[h] = ic.Offline
}

func (r *countingRenderer) SetPopup(h marker.Handle, popup string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.popups++
}

func (r *countingRenderer) Remove(h marker.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removes++
	delete(r.offline, h)
}

func (r *countingRenderer) counts() (creates, moves, icons, popups, removes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creates, r.moves, r.icons, r.popups, r.removes
}

func (r *countingRenderer) anyOffline() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, off := range r.offline {
		if off {
			return true
		}
	}
	return false
}

// countingGeocoder resolves every lookup to a fixed name and counts calls.
// An optional gate blocks completions until the test releases it.
type countingGeocoder struct {
	mu    sync.Mutex
	calls int
	name  string
	gate  chan struct{}
}

func (g *countingGeocoder) ReverseGeocode(ctx context.Context, p geo.Point, lang string) (string, error) {
	g.mu.Lock()
	g.calls++
	gate := g.gate
	g.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.name, nil
}

func (g *countingGeocoder) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// manualSource hands the test direct control over the fix stream.
type manualSource struct {
	fixes chan sensor.Fix
	errs  chan error
}

func newManualSource() *manualSource {
	return &manualSource{fixes: make(chan sensor.Fix, 4), errs: make(chan error, 1)}
}

func (m *manualSource) Watch(ctx context.Context) (<-chan sensor.Fix, <-chan error, error) {
	return m.fixes, m.errs, nil
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, within time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(within)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition never held: %s", msg)
}

// never asserts cond stays false for the whole window.
func never(t *testing.T, during time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(during)
	for time.Now().Before(deadline) {
		if cond() {
			t.Fatalf("condition unexpectedly held: %s", msg)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
