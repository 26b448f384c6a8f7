// Package store is the authoritative in-memory view model: Self plus the
// ordered peer map. It has no side effects; callers run downstream
// reconciliation after mutating it. It is owned by the session loop and is
// not safe for concurrent mutation.
package store

import (
	"github.com/tracelink/tracelink/internal/geo"
	"github.com/tracelink/tracelink/internal/member"
)

// Self is the local participant. Same published shape as a peer record plus
// local-only session state.
type Self struct {
	ID   string
	Name string
	Role string
	Room string

	Position *geo.Point
	Accuracy *int
	Battery  *int

	PlaceName string
	Sharing   bool
}

// PeerEntry pairs a member id with its record for ordered iteration.
type PeerEntry struct {
	ID     string
	Record member.Record
}

type Store struct {
	self  Self
	order []string
	peers map[string]member.Record
}

func New(self Self) *Store {
	return &Store{
		self:  self,
		peers: make(map[string]member.Record),
	}
}

func (s *Store) Self() Self { return s.self }

// UpdateSelf applies a partial mutation to Self.
func (s *Store) UpdateSelf(mutate func(*Self)) {
	mutate(&s.self)
}

// UpsertPeer creates or updates a peer record. LastSeen is monotonic within
// a session: a snapshot can only advance it, never rewind it.
func (s *Store) UpsertPeer(id string, rec member.Record) {
	prev, ok := s.peers[id]
	if !ok {
		s.order = append(s.order, id)
	} else if rec.LastSeen < prev.LastSeen {
		rec.LastSeen = prev.LastSeen
	}
	s.peers[id] = rec
}

// RemovePeer deletes a peer, reporting whether it existed.
func (s *Store) RemovePeer(id string) bool {
	if _, ok := s.peers[id]; !ok {
		return false
	}
	delete(s.peers, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Store) Peer(id string) (member.Record, bool) {
	rec, ok := s.peers[id]
	return rec, ok
}

func (s *Store) NumPeers() int { return len(s.peers) }

// SnapshotPeers returns all peers in insertion order.
func (s *Store) SnapshotPeers() []PeerEntry {
	out := make([]PeerEntry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, PeerEntry{ID: id, Record: s.peers[id]})
	}
	return out
}

// PeerIDs returns the current peer key set in insertion order.
func (s *Store) PeerIDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
