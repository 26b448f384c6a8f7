// Package publish pushes the local member's state outward. Write failures
// are transient: logged, never surfaced, and implicitly retried by the next
// heartbeat re-publishing full state.
package publish

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tracelink/tracelink/internal/member"
	"github.com/tracelink/tracelink/internal/realtime"
	"github.com/tracelink/tracelink/internal/store"
)

// HeartbeatInterval is how often Self re-publishes without movement.
const HeartbeatInterval = 30 * time.Second

type Publisher struct {
	remote realtime.Store
	log    *zap.Logger
	now    func() time.Time
}

func New(remote realtime.Store, log *zap.Logger) *Publisher {
	return &Publisher{remote: remote, log: log, now: time.Now}
}

// Record builds the published record from Self at time now.
func Record(self store.Self, now time.Time) member.Record {
	rec := member.Record{
		Name:     self.Name,
		Role:     self.Role,
		Accuracy: self.Accuracy,
		Battery:  self.Battery,
		Online:   true,
		LastSeen: now.UnixMilli(),
	}
	if self.Position != nil {
		lat, lng := self.Position.Lat, self.Position.Lng
		rec.Lat, rec.Lng = &lat, &lng
	}
	return rec
}

// Publish overwrites the remote record for Self. Skipped while sharing is
// off so a stopped session never resurrects itself.
func (p *Publisher) Publish(ctx context.Context, self store.Self) {
	if !self.Sharing {
		return
	}
	if err := p.remote.Set(ctx, self.ID, Record(self, p.now())); err != nil {
		p.log.Warn("publish failed", zap.Error(err))
	}
}

// Stop publishes the single terminal record: online flips false, the rest
// of the record stays so peers can still show "last seen".
func (p *Publisher) Stop(ctx context.Context, id string) {
	offline := false
	if err := p.remote.Update(ctx, id, member.Patch{Online: &offline}); err != nil {
		p.log.Warn("terminal publish failed", zap.Error(err))
	}
}

// Leave deletes the remote record entirely.
func (p *Publisher) Leave(ctx context.Context, id string) {
	if err := p.remote.Remove(ctx, id); err != nil {
		p.log.Warn("leave failed", zap.Error(err))
	}
}
