package marker

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/tracelink/tracelink/internal/geo"
	"github.com/tracelink/tracelink/internal/member"
	"github.com/tracelink/tracelink/internal/presence"
	"github.com/tracelink/tracelink/internal/store"
)

type rendered struct {
	handle Handle
	entry  store.PeerEntry
	icon   Icon
	popup  string
}

// Reconciler diffs the peer set against the rendered marker set and drives
// the renderer with the minimal operations: create for new ids, in-place
// update for survivors, remove for departed ids. After every Sync the
// marker key set equals the set of peers that have a fix.
type Reconciler struct {
	renderer Renderer
	colors   *Colors
	log      *zap.Logger

	markers map[string]rendered

	selfHandle Handle
	selfIcon   Icon
	selfPopup  string
}

func NewReconciler(r Renderer, log *zap.Logger) *Reconciler {
	return &Reconciler{
		renderer: r,
		colors:   NewColors(),
		log:      log,
		markers:  make(map[string]rendered),
	}
}

// Sync aligns markers with the given peers. placeName resolves a member id
// to its cached place name ("" when unresolved). Updates are no-ops when
// nothing visible changed, so re-applying an identical snapshot touches
// nothing.
func (rc *Reconciler) Sync(peers []store.PeerEntry, placeName func(id string) string, now time.Time) {
	present := make(map[string]struct{}, len(peers))

	for _, p := range peers {
		if !p.Record.HasFix() {
			// No coordinates yet: list row only, no marker.
			continue
		}
		present[p.ID] = struct{}{}
		rc.apply(p, placeName(p.ID), now)
	}

	for id, m := range rc.markers {
		if _, ok := present[id]; !ok {
			rc.renderer.Remove(m.handle)
			delete(rc.markers, id)
			rc.log.Debug("marker removed", zap.String("member", id))
		}
	}
}

func (rc *Reconciler) apply(p store.PeerEntry, place string, now time.Time) {
	rec := p.Record
	pos := pointOf(rec)
	online := presence.Online(rec.LastSeen, now)
	icon := Icon{
		Initial: initialOf(rec.Name),
		Color:   rc.colors.For(p.ID),
		Offline: !online,
	}
	popup := BuildPopup(PopupInfo{
		Name:      rec.Name,
		Role:      rec.Role,
		Position:  pos,
		Accuracy:  rec.Accuracy,
		Online:    online,
		LastSeen:  rec.LastSeen,
		PlaceName: place,
	}, now)

	m, exists := rc.markers[p.ID]
	if !exists {
		h := rc.renderer.Create(pos, icon, popup)
		rc.markers[p.ID] = rendered{handle: h, entry: p, icon: icon, popup: popup}
		rc.log.Debug("marker created", zap.String("member", p.ID))
		return
	}

	if pointOf(m.entry.Record) != pos {
		rc.renderer.Move(m.handle, pos)
	}
	if m.icon != icon {
		rc.renderer.SetIcon(m.handle, icon)
	}
	if m.popup != popup {
		rc.renderer.SetPopup(m.handle, popup)
	}
	rc.markers[p.ID] = rendered{handle: m.handle, entry: p, icon: icon, popup: popup}
}

// RefreshPopup re-renders a single member's popup, typically after a place
// name resolves. Ids without a marker are ignored.
func (rc *Reconciler) RefreshPopup(p store.PeerEntry, place string, now time.Time) {
	m, ok := rc.markers[p.ID]
	if !ok {
		return
	}
	popup := BuildPopup(PopupInfo{
		Name:      p.Record.Name,
		Role:      p.Record.Role,
		Position:  pointOf(p.Record),
		Accuracy:  p.Record.Accuracy,
		Online:    presence.Online(p.Record.LastSeen, now),
		LastSeen:  p.Record.LastSeen,
		PlaceName: place,
	}, now)
	if popup != m.popup {
		rc.renderer.SetPopup(m.handle, popup)
		m.popup = popup
		rc.markers[p.ID] = m
	}
}

// SyncSelf keeps the local member's own marker current.
func (rc *Reconciler) SyncSelf(self store.Self, now time.Time) {
	if self.Position == nil {
		return
	}
	icon := Icon{Initial: initialOf(self.Name), Color: SelfColor}
	popup := BuildPopup(PopupInfo{
		Name:      self.Name,
		Role:      self.Role,
		Position:  *self.Position,
		Accuracy:  self.Accuracy,
		IsSelf:    true,
		Online:    true,
		PlaceName: self.PlaceName,
	}, now)

	if rc.selfHandle == nil {
		rc.selfHandle = rc.renderer.Create(*self.Position, icon, popup)
		rc.selfIcon = icon
		rc.selfPopup = popup
		return
	}
	rc.renderer.Move(rc.selfHandle, *self.Position)
	if icon != rc.selfIcon {
		rc.renderer.SetIcon(rc.selfHandle, icon)
		rc.selfIcon = icon
	}
	if popup != rc.selfPopup {
		rc.renderer.SetPopup(rc.selfHandle, popup)
		rc.selfPopup = popup
	}
}

// RemoveSelf drops the local marker; peers are untouched.
func (rc *Reconciler) RemoveSelf() {
	if rc.selfHandle != nil {
		rc.renderer.Remove(rc.selfHandle)
		rc.selfHandle = nil
	}
}

// MarkerIDs returns the ids currently holding a rendered marker.
func (rc *Reconciler) MarkerIDs() []string {
	ids := make([]string, 0, len(rc.markers))
	for id := range rc.markers {
		ids = append(ids, id)
	}
	return ids
}

func pointOf(rec member.Record) geo.Point {
	return geo.Point{Lat: *rec.Lat, Lng: *rec.Lng}
}

func initialOf(name string) string {
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r))
}
