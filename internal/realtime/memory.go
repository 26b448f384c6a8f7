package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tracelink/tracelink/internal/member"
)

// Memory is an in-process backend holding every room. Sessions under test
// (and single-process deployments) share one Memory; each gets a
// room-scoped Store via Room.
type Memory struct {
	mu    sync.Mutex
	rooms map[string]*memoryRoom
}

type memoryRoom struct {
	members member.Snapshot
	subs    map[string]chan member.Snapshot
}

func NewMemory() *Memory {
	return &Memory{rooms: make(map[string]*memoryRoom)}
}

// Room returns the Store scoped to one room code, creating the room on
// first use.
func (m *Memory) Room(code string) Store {
	return &memoryStore{backend: m, room: code}
}

func (m *Memory) room(code string) *memoryRoom {
	r, ok := m.rooms[code]
	if !ok {
		r = &memoryRoom{
			members: make(member.Snapshot),
			subs:    make(map[string]chan member.Snapshot),
		}
		m.rooms[code] = r
	}
	return r
}

func (r *memoryRoom) broadcast() {
	for id, ch := range r.subs {
		select {
		case ch <- r.members.Clone():
		default:
			// Slow subscriber; drop it rather than block the writer.
			close(ch)
			delete(r.subs, id)
		}
	}
}

type memoryStore struct {
	backend *Memory
	room    string
}

func (s *memoryStore) Subscribe(ctx context.Context) (<-chan member.Snapshot, error) {
	s.backend.mu.Lock()
	r := s.backend.room(s.room)
	ch := make(chan member.Snapshot, 16)
	subID := uuid.NewString()
	r.subs[subID] = ch
	ch <- r.members.Clone()
	s.backend.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.backend.mu.Lock()
		defer s.backend.mu.Unlock()
		if cur, ok := r.subs[subID]; ok && cur == ch {
			close(ch)
			delete(r.subs, subID)
		}
	}()
	return ch, nil
}

func (s *memoryStore) Set(ctx context.Context, id string, rec member.Record) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	r := s.backend.room(s.room)
	r.members[id] = rec
	r.broadcast()
	return nil
}

func (s *memoryStore) Update(ctx context.Context, id string, patch member.Patch) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	r := s.backend.room(s.room)
	if rec, ok := r.members[id]; ok {
		r.members[id] = rec.Apply(patch)
		r.broadcast()
	}
	return nil
}

func (s *memoryStore) Remove(ctx context.Context, id string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	r := s.backend.room(s.room)
	if _, ok := r.members[id]; ok {
		delete(r.members, id)
		r.broadcast()
	}
	return nil
}
