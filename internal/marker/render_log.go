package marker

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/tracelink/tracelink/internal/geo"
)

// LogRenderer is a Renderer that just logs marker operations. The demo
// client uses it in place of a real map; tests use their own fakes.
type LogRenderer struct {
	log  *zap.Logger
	next int
}

func NewLogRenderer(log *zap.Logger) *LogRenderer {
	return &LogRenderer{log: log}
}

func (r *LogRenderer) Create(p geo.Point, ic Icon, popupHTML string) Handle {
	r.next++
	h := "m" + strconv.Itoa(r.next)
	r.log.Info("create marker",
		zap.String("handle", h),
		zap.Float64("lat", p.Lat),
		zap.Float64("lng", p.Lng),
		zap.String("color", ic.Color),
		zap.Bool("offline", ic.Offline))
	return h
}

func (r *LogRenderer) Move(h Handle, p geo.Point) {
	r.log.Info("move marker",
		zap.Any("handle", h),
		zap.Float64("lat", p.Lat),
		zap.Float64("lng", p.Lng))
}

func (r *LogRenderer) SetIcon(h Handle, ic Icon) {
	r.log.Info("update marker icon",
		zap.Any("handle", h),
		zap.String("color", ic.Color),
		zap.Bool("offline", ic.Offline))
}

func (r *LogRenderer) SetPopup(h Handle, popupHTML string) {
	r.log.Debug("update marker popup", zap.Any("handle", h))
}

func (r *LogRenderer) Remove(h Handle) {
	r.log.Info("remove marker", zap.Any("handle", h))
}
