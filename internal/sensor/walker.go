package sensor

import (
	"context"
	"time"

	"github.com/tracelink/tracelink/internal/geo"
)

// Walker is a scripted Source: it starts at a point and drifts a fixed step
// per interval. The demo client uses it in place of real GPS hardware.
type Walker struct {
	Start    geo.Point
	StepDeg  float64
	Interval time.Duration
	Accuracy int
}

func (w *Walker) Watch(ctx context.Context) (<-chan Fix, <-chan error, error) {
	interval := w.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	fixes := make(chan Fix, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(fixes)
		pos := w.Start
		fixes <- Fix{Point: pos, Accuracy: w.Accuracy, At: time.Now()}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				pos.Lat += w.StepDeg
				pos.Lng += w.StepDeg
				select {
				case fixes <- Fix{Point: pos, Accuracy: w.Accuracy, At: t}:
				default:
					// Consumer busy; skip this reading.
				}
			}
		}
	}()
	return fixes, errs, nil
}
