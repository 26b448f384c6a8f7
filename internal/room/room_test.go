package room

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tracelink/tracelink/internal/member"
)

// helper: receive one snapshot with a timeout so tests never hang
func recvSnapshot(t *testing.T, ch <-chan Snapshot, within time.Duration) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatalf("subscriber outbox closed unexpectedly")
		}
		return snap
	case <-time.After(within):
		t.Fatalf("timed out waiting for snapshot")
		return Snapshot{} // unreachable
	}
}

func recvView(t *testing.T, ch <-chan View, within time.Duration) View {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(within):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

func record(name string, ts int64) member.Record {
	lat, lng := 1.0, 2.0
	return member.Record{Name: name, Lat: &lat, Lng: &lng, Online: true, LastSeen: ts}
}

func TestRoom_JoinSendsCurrentSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New(ctx, zap.NewNop())
	r.Inbox() <- Put{ID: "a", Record: record("Ann", 1)}

	out := make(chan Snapshot, 2)
	r.Inbox() <- Join{SubID: "s1", Outbox: out}

	snap := recvSnapshot(t, out, 100*time.Millisecond)
	if snap.Version != 1 {
		t.Fatalf("join snapshot version = %d, want 1", snap.Version)
	}
	if _, ok := snap.Members["a"]; !ok {
		t.Fatalf("join snapshot missing member: %+v", snap.Members)
	}
}

func TestRoom_PutBroadcastsAndBumpsVersion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New(ctx, zap.NewNop())
	out := make(chan Snapshot, 4)
	r.Inbox() <- Join{SubID: "s1", Outbox: out}
	_ = recvSnapshot(t, out, 100*time.Millisecond) // version 0

	r.Inbox() <- Put{ID: "a", Record: record("Ann", 10)}
	snap := recvSnapshot(t, out, 100*time.Millisecond)
	if snap.Version != 1 || snap.Members["a"].Name != "Ann" {
		t.Fatalf("after put: %+v", snap)
	}

	r.Inbox() <- Put{ID: "a", Record: record("Ann", 20)}
	snap = recvSnapshot(t, out, 100*time.Millisecond)
	if snap.Version != 2 || snap.Members["a"].LastSeen != 20 {
		t.Fatalf("after second put: %+v", snap)
	}
}

func TestRoom_MergeOnlyTouchesExisting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New(ctx, zap.NewNop())
	r.Inbox() <- Put{ID: "a", Record: record("Ann", 10)}

	offline := false
	r.Inbox() <- Merge{ID: "a", Patch: member.Patch{Online: &offline}}
	r.Inbox() <- Merge{ID: "ghost", Patch: member.Patch{Online: &offline}}

	reply := make(chan View, 1)
	r.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)

	if view.Members["a"].Online {
		t.Fatal("merge did not apply")
	}
	if view.Members["a"].LastSeen != 10 {
		t.Fatal("merge clobbered unrelated fields")
	}
	if _, ok := view.Members["ghost"]; ok {
		t.Fatal("merge created a record out of thin air")
	}
	if view.Version != 2 {
		t.Fatalf("version = %d, want 2 (ghost merge must not bump)", view.Version)
	}
}

func TestRoom_DeleteRemovesAndBroadcasts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New(ctx, zap.NewNop())
	r.Inbox() <- Put{ID: "a", Record: record("Ann", 10)}

	out := make(chan Snapshot, 4)
	r.Inbox() <- Join{SubID: "s1", Outbox: out}
	_ = recvSnapshot(t, out, 100*time.Millisecond)

	r.Inbox() <- Delete{ID: "a"}
	snap := recvSnapshot(t, out, 100*time.Millisecond)
	if len(snap.Members) != 0 {
		t.Fatalf("member not removed: %+v", snap.Members)
	}

	// Deleting again must not broadcast.
	r.Inbox() <- Delete{ID: "a"}
	reply := make(chan View, 1)
	r.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)
	if view.Version != 2 {
		t.Fatalf("version = %d, want 2", view.Version)
	}
}

func TestRoom_DropSlowSubscriber(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New(ctx, zap.NewNop())
	out := make(chan Snapshot, 1)
	r.Inbox() <- Join{SubID: "s1", Outbox: out}
	// Outbox holds the join snapshot; the next broadcast finds it full.
	r.Inbox() <- Put{ID: "a", Record: record("Ann", 10)}

	reply := make(chan View, 1)
	r.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)
	if view.NumSubscribers != 0 {
		t.Fatalf("expected slow subscriber to be dropped; NumSubscribers=%d", view.NumSubscribers)
	}
}

func TestRoom_LeaveClosesOutbox(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New(ctx, zap.NewNop())
	out := make(chan Snapshot, 2)
	r.Inbox() <- Join{SubID: "s1", Outbox: out}
	_ = recvSnapshot(t, out, 100*time.Millisecond)

	r.Inbox() <- Leave{SubID: "s1"}
	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("expected closed outbox, got snapshot")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("outbox not closed after leave; writer loops would leak")
	}

	// Leaving twice (or after a slow-drop) must not panic the actor.
	r.Inbox() <- Leave{SubID: "s1"}
	reply := make(chan View, 1)
	r.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)
	if view.NumSubscribers != 0 {
		t.Fatalf("NumSubscribers = %d, want 0", view.NumSubscribers)
	}
}

func TestRoom_ShutdownClosesOutboxes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New(ctx, zap.NewNop())
	out := make(chan Snapshot, 2)
	r.Inbox() <- Join{SubID: "s1", Outbox: out}
	_ = recvSnapshot(t, out, 100*time.Millisecond)

	r.Inbox() <- Shutdown{}
	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("expected closed outbox, got snapshot")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("outbox not closed after shutdown")
	}
}
