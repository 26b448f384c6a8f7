// Package marker keeps rendered map markers in lockstep with the view
// model via minimal diffs: no flicker, no orphans, no full redraws.
package marker

import "github.com/tracelink/tracelink/internal/geo"

// Handle is an opaque reference to one rendered marker, owned by the
// Renderer implementation.
type Handle interface{}

// Renderer is the map-rendering boundary.
type Renderer interface {
	Create(p geo.Point, ic Icon, popupHTML string) Handle
	Move(h Handle, p geo.Point)
	SetIcon(h Handle, ic Icon)
	SetPopup(h Handle, popupHTML string)
	Remove(h Handle)
}

// Icon describes how a marker pin is drawn. Online markers carry a pulsing
// indicator in the member's color; offline markers render dimmed with an
// asleep badge.
type Icon struct {
	Initial string
	Color   string
	Offline bool
}
