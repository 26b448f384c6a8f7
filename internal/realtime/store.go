// Package realtime is the remote key/value boundary: one room's member
// collection reachable over subscribe/publish primitives.
package realtime

import (
	"context"

	"github.com/tracelink/tracelink/internal/member"
)

// Store is a room-scoped view of the backend. Subscribe delivers the full
// member snapshot on every change under the room, including once
// immediately after subscribing. Writes are keyed by member id: Set is a
// full overwrite, Update a merge, Remove a delete.
type Store interface {
	Subscribe(ctx context.Context) (<-chan member.Snapshot, error)
	Set(ctx context.Context, id string, rec member.Record) error
	Update(ctx context.Context, id string, patch member.Patch) error
	Remove(ctx context.Context, id string) error
}
