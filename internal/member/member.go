package member

// Record is one participant's published state as stored under
// rooms/{room}/members/{id}. Every member is the sole writer of its own
// record; lat/lng, accuracy and battery stay nil until the device reports
// them.
type Record struct {
	Name     string   `json:"name" validate:"required"`
	Role     string   `json:"role"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Accuracy *int     `json:"accuracy"`
	Battery  *int     `json:"battery"`
	Online   bool     `json:"online"`
	LastSeen int64    `json:"ts" validate:"gte=0"` // unix milliseconds
}

// Snapshot is the full member id -> record mapping for a room, delivered
// wholesale on every change.
type Snapshot map[string]Record

// Patch is a partial record for merge writes. Only the terminal
// "stopped sharing" update uses it today, but the merge surface is general.
type Patch struct {
	Online   *bool  `json:"online,omitempty"`
	LastSeen *int64 `json:"ts,omitempty"`
}

// HasFix reports whether the record carries coordinates yet. A member can
// legitimately appear in a snapshot before its first fix arrives.
func (r Record) HasFix() bool {
	return r.Lat != nil && r.Lng != nil
}

// Apply merges a patch into the record.
func (r Record) Apply(p Patch) Record {
	if p.Online != nil {
		r.Online = *p.Online
	}
	if p.LastSeen != nil {
		r.LastSeen = *p.LastSeen
	}
	return r
}

// Clone returns a copy safe to hand to another goroutine.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for id, rec := range s {
		out[id] = rec
	}
	return out
}
