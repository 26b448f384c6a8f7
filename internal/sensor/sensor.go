// Package sensor is the device location boundary.
package sensor

import (
	"context"
	"errors"
	"time"

	"github.com/tracelink/tracelink/internal/geo"
)

// Terminal conditions a consumer must handle. Both are fatal to the
// session: the flow returns to a permission-request state and nothing
// retries without explicit user action.
var (
	ErrUnsupported      = errors.New("geolocation not supported")
	ErrPermissionDenied = errors.New("location permission denied")
	ErrNoFix            = errors.New("no position fix available")
)

// Fix is one position reading.
type Fix struct {
	Point    geo.Point
	Accuracy int // meters
	At       time.Time
}

// Source is a continuous, restartable stream of fixes. Watch returns a fix
// channel and an error channel; a value on the error channel is terminal
// for that watch. Cancelling the context stops the stream.
type Source interface {
	Watch(ctx context.Context) (<-chan Fix, <-chan error, error)
}
