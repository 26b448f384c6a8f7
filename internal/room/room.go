// Package room implements one room actor on the relay: the authoritative
// member collection for a code, with full-snapshot broadcast on change.
package room

import (
	"context"

	"go.uber.org/zap"

	"github.com/tracelink/tracelink/internal/member"
)

type Msg interface{ isRoomMsg() }

// Put overwrites one member record.
type Put struct {
	ID     string
	Record member.Record
}

// Merge applies a partial update to an existing record. Unknown ids are
// ignored; a merge is only meaningful against published state.
type Merge struct {
	ID    string
	Patch member.Patch
}

// Delete removes a member record (member left the room).
type Delete struct{ ID string }

// Join registers a subscriber + sends the current snapshot immediately.
type Join struct {
	SubID  string
	Outbox chan Snapshot
}

type Leave struct{ SubID string }

type Shutdown struct{}

// GetState reflects internal state without data races; used by tests.
type GetState struct {
	Reply chan View
}

func (Put) isRoomMsg()      {}
func (Merge) isRoomMsg()    {}
func (Delete) isRoomMsg()   {}
func (Join) isRoomMsg()     {}
func (Leave) isRoomMsg()    {}
func (Shutdown) isRoomMsg() {}
func (GetState) isRoomMsg() {}

type Snapshot struct {
	Version int
	Members member.Snapshot
}

type View struct {
	Version        int
	NumSubscribers int
	Members        member.Snapshot
}

type Room struct {
	inbox   chan Msg
	members member.Snapshot
	version int
	subs    map[string]chan Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
	log     *zap.Logger
}

func New(parent context.Context, log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		inbox:   make(chan Msg, 64),
		members: make(member.Snapshot),
		subs:    make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.subs[msg.SubID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: r.version, Members: r.members.Clone()}

			case Leave:
				// Close so the subscriber's writer loop terminates.
				if ch, ok := r.subs[msg.SubID]; ok {
					close(ch)
					delete(r.subs, msg.SubID)
				}

			case Put:
				r.members[msg.ID] = msg.Record
				r.bump()

			case Merge:
				if rec, ok := r.members[msg.ID]; ok {
					r.members[msg.ID] = rec.Apply(msg.Patch)
					r.bump()
				}

			case Delete:
				if _, ok := r.members[msg.ID]; ok {
					delete(r.members, msg.ID)
					r.bump()
				}

			case GetState:
				msg.Reply <- View{
					Version:        r.version,
					NumSubscribers: len(r.subs),
					Members:        r.members.Clone(),
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) bump() {
	r.version++
	r.broadcast(Snapshot{Version: r.version, Members: r.members.Clone()})
}

func (r *Room) broadcast(snap Snapshot) {
	for id, ch := range r.subs {
		select {
		case ch <- snap:
		default:
			// Subscriber is slow/full - drop it.
			close(ch)
			delete(r.subs, id)
			r.log.Warn("dropped slow subscriber", zap.String("sub", id))
		}
	}
}

func (r *Room) shutdown() {
	for id, ch := range r.subs {
		close(ch)
		delete(r.subs, id)
	}
	r.cancel()
}
