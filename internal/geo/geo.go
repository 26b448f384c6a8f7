// Package geo holds the coordinate primitives shared by the engine.
package geo

import "math"

// MoveThresholdDeg is how far a member must move, on either axis, before a
// cached place name is considered stale. 0.0005 degrees is roughly 55 m at
// the equator, which bounds reverse-geocode volume to genuine movement.
const MoveThresholdDeg = 0.0005

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Moved reports whether b is beyond the movement threshold from a.
func Moved(a, b Point) bool {
	return math.Abs(b.Lat-a.Lat) > MoveThresholdDeg ||
		math.Abs(b.Lng-a.Lng) > MoveThresholdDeg
}
