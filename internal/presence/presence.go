// Package presence derives online/offline from record staleness. Liveness
// is never cached: it reflects wall-clock time so a silent peer visibly
// goes offline without any new data arriving.
package presence

import (
	"time"

	"github.com/tracelink/tracelink/internal/store"
)

// OfflineThreshold is how long a member stays online after its last update.
const OfflineThreshold = 60 * time.Second

// Online reports whether a member whose record was last advanced at
// lastSeen (unix milliseconds) counts as online at now. A never-seen member
// (zero timestamp) is offline; exactly at the threshold is offline.
func Online(lastSeen int64, now time.Time) bool {
	if lastSeen <= 0 {
		return false
	}
	return now.UnixMilli()-lastSeen < OfflineThreshold.Milliseconds()
}

// Split partitions peers into online and offline, preserving order within
// each group. List rendering shows online members first.
func Split(peers []store.PeerEntry, now time.Time) (online, offline []store.PeerEntry) {
	for _, p := range peers {
		if Online(p.Record.LastSeen, now) {
			online = append(online, p)
		} else {
			offline = append(offline, p)
		}
	}
	return online, offline
}
