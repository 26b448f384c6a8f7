// Demo client: joins a room on the relay, shares a scripted walk, and logs
// the marker operations a real map would render.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tracelink/tracelink/internal/config"
	"github.com/tracelink/tracelink/internal/geo"
	"github.com/tracelink/tracelink/internal/geocode"
	"github.com/tracelink/tracelink/internal/marker"
	"github.com/tracelink/tracelink/internal/member"
	"github.com/tracelink/tracelink/internal/realtime"
	"github.com/tracelink/tracelink/internal/sensor"
	"github.com/tracelink/tracelink/internal/session"
	"github.com/tracelink/tracelink/internal/store"
	"github.com/tracelink/tracelink/internal/wakelock"
)

func main() {
	lat := flag.Float64("lat", -6.2, "starting latitude")
	lng := flag.Float64("lng", 106.8, "starting longitude")
	step := flag.Float64("step", 0.0002, "walk step in degrees per interval")
	flag.Parse()

	log, _ := zap.NewDevelopment()
	defer log.Sync()

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatal("bad configuration", zap.Error(err))
	}
	if err := member.ValidateName(cfg.Name); err != nil {
		log.Fatal("bad name", zap.Error(err))
	}
	room := cfg.Room
	if room == "" {
		room, err = member.GenerateCode()
		if err != nil {
			log.Fatal("room code generation failed", zap.Error(err))
		}
		log.Info("generated room code", zap.String("room", room))
	}
	if !member.ValidCode(room) {
		log.Fatal("invalid room code", zap.String("room", room))
	}

	name := member.FormatName(cfg.Name)
	selfID := member.NewSelfID(name, time.Now())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	remote, err := realtime.Dial(ctx, cfg.RelayURL, room, selfID, log)
	if err != nil {
		log.Fatal("relay unreachable", zap.Error(err))
	}
	defer remote.Close()

	// The session outlives the signal context so the terminal record and
	// room removal still go out during shutdown.
	sess, err := session.Start(context.Background(), session.Config{
		Self: store.Self{
			ID:   selfID,
			Name: name,
			Role: cfg.Role,
			Room: room,
		},
		Remote:   remote,
		Geocoder: geocode.NewNominatim(cfg.NominatimURL, log),
		Source: &sensor.Walker{
			Start:    geo.Point{Lat: *lat, Lng: *lng},
			StepDeg:  *step,
			Interval: 5 * time.Second,
			Accuracy: 12,
		},
		Renderer: marker.NewLogRenderer(log),
		Lock:     &wakelock.Noop{},
		Language: cfg.Language,
		Logger:   log,
	})
	if err != nil {
		log.Fatal("session start failed", zap.Error(err))
	}

	log.Info("sharing location", zap.String("room", room), zap.String("id", selfID))

	select {
	case err := <-sess.Fatal():
		log.Error("session ended", zap.Error(err))
		os.Exit(1)
	case <-ctx.Done():
		sess.Stop()
		sess.Leave()
	}
}
