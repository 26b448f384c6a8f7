package session

import (
	"github.com/tracelink/tracelink/internal/geo"
	"github.com/tracelink/tracelink/internal/member"
	"github.com/tracelink/tracelink/internal/sensor"
	"github.com/tracelink/tracelink/internal/store"
)

type msg interface{ isSessionMsg() }

type sensorFix struct{ fix sensor.Fix }

type sensorFailed struct{ err error }

type roomSnapshot struct{ members member.Snapshot }

// geocodeDone delivers a completed reverse lookup. Applied only if the
// originating id is still live, checked at application time, not at issue
// time.
type geocodeDone struct {
	id    string
	point geo.Point
	name  string
}

type batteryLevel struct{ percent int }

// visibilityRegained fires when the surface hosting the session becomes
// visible again.
type visibilityRegained struct{}

type stopSharing struct{ done chan struct{} }

type leaveRoom struct{ done chan struct{} }

type shutdownMsg struct{}

// getView reflects internal state without data races; used by tests.
type getView struct{ reply chan View }

func (sensorFix) isSessionMsg()          {}
func (sensorFailed) isSessionMsg()       {}
func (roomSnapshot) isSessionMsg()       {}
func (geocodeDone) isSessionMsg()        {}
func (batteryLevel) isSessionMsg()       {}
func (visibilityRegained) isSessionMsg() {}
func (stopSharing) isSessionMsg()        {}
func (leaveRoom) isSessionMsg()          {}
func (shutdownMsg) isSessionMsg()        {}
func (getView) isSessionMsg()            {}

// View is a race-free copy of engine state for tests and the demo UI.
type View struct {
	Self      store.Self
	Peers     []store.PeerEntry
	MarkerIDs []string
}
