// Package protocol defines the wire messages between a client session and
// the room relay.
package protocol

import "github.com/tracelink/tracelink/internal/member"

// Client -> Server
//
// Set:    full overwrite of the sender's member record
// Update: merge a partial record (terminal online:false uses this)
// Remove: delete the sender's record (leaving the room)
type ClientMessage struct {
	Type   string         `json:"type"` // "Set" | "Update" | "Remove"
	ID     string         `json:"id"`
	Record *member.Record `json:"record,omitempty"`
	Patch  *member.Patch  `json:"patch,omitempty"`
}

// Server -> Client
//
// Snapshot: the room's full member mapping, sent on join and on every
// change. Version increments per change so clients can drop stale frames.
type ServerMessage struct {
	Type    string          `json:"type"` // "Snapshot" | "Error"
	Version int             `json:"version,omitempty"`
	Members member.Snapshot `json:"members,omitempty"`
	Error   string          `json:"error,omitempty"`
}

const (
	TypeSet      = "Set"
	TypeUpdate   = "Update"
	TypeRemove   = "Remove"
	TypeSnapshot = "Snapshot"
	TypeError    = "Error"
)
