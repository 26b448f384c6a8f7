package publish

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tracelink/tracelink/internal/geo"
	"github.com/tracelink/tracelink/internal/realtime"
	"github.com/tracelink/tracelink/internal/store"
)

func sharingSelf() store.Self {
	pos := geo.Point{Lat: 1.5, Lng: 2.5}
	acc := 9
	bat := 80
	return store.Self{
		ID: "me_1", Name: "Me", Role: "Friend", Room: "ABCD23",
		Position: &pos, Accuracy: &acc, Battery: &bat, Sharing: true,
	}
}

func TestRecord_FromSelf(t *testing.T) {
	now := time.UnixMilli(123_456)
	rec := Record(sharingSelf(), now)

	assert.Equal(t, "Me", rec.Name)
	assert.Equal(t, "Friend", rec.Role)
	require.True(t, rec.HasFix())
	assert.Equal(t, 1.5, *rec.Lat)
	assert.Equal(t, 2.5, *rec.Lng)
	assert.Equal(t, 9, *rec.Accuracy)
	assert.Equal(t, 80, *rec.Battery)
	assert.True(t, rec.Online)
	assert.Equal(t, now.UnixMilli(), rec.LastSeen)
}

func TestRecord_NoFixLeavesCoordinatesNil(t *testing.T) {
	self := sharingSelf()
	self.Position = nil
	rec := Record(self, time.Now())
	assert.False(t, rec.HasFix())
	assert.Nil(t, rec.Lat)
	assert.Nil(t, rec.Lng)
}

func TestPublisher_PublishSetsRemoteRecord(t *testing.T) {
	mem := realtime.NewMemory()
	remote := mem.Room("ABCD23")
	p := New(remote, zap.NewNop())

	p.Publish(context.Background(), sharingSelf())

	snaps, err := remote.Subscribe(context.Background())
	require.NoError(t, err)
	snap := <-snaps
	require.Contains(t, snap, "me_1")
	assert.True(t, snap["me_1"].Online)
}

func TestPublisher_SkipsWhenNotSharing(t *testing.T) {
	mem := realtime.NewMemory()
	remote := mem.Room("ABCD23")
	p := New(remote, zap.NewNop())

	self := sharingSelf()
	self.Sharing = false
	p.Publish(context.Background(), self)

	snaps, _ := remote.Subscribe(context.Background())
	snap := <-snaps
	assert.Empty(t, snap)
}

func TestPublisher_StopFlipsOnlineOnly(t *testing.T) {
	mem := realtime.NewMemory()
	remote := mem.Room("ABCD23")
	p := New(remote, zap.NewNop())

	self := sharingSelf()
	p.Publish(context.Background(), self)
	p.Stop(context.Background(), self.ID)

	snaps, _ := remote.Subscribe(context.Background())
	snap := <-snaps
	rec := snap["me_1"]
	assert.False(t, rec.Online)
	assert.True(t, rec.HasFix(), "terminal record keeps position for last-seen display")
	assert.NotZero(t, rec.LastSeen)
}

func TestPublisher_LeaveRemovesRecord(t *testing.T) {
	mem := realtime.NewMemory()
	remote := mem.Room("ABCD23")
	p := New(remote, zap.NewNop())

	p.Publish(context.Background(), sharingSelf())
	p.Leave(context.Background(), "me_1")

	snaps, _ := remote.Subscribe(context.Background())
	snap := <-snaps
	assert.NotContains(t, snap, "me_1")
}
