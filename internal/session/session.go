// Package session runs the presence & location reconciliation engine: a
// single goroutine owns Self, the peer store, the geocode cache and the
// marker set, and every external event (sensor fix, room snapshot, geocode
// completion, timer) arrives as an inbox message. Handlers run to
// completion, so state mutation is atomic across event sources.
package session

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/tracelink/tracelink/internal/geo"
	"github.com/tracelink/tracelink/internal/geocode"
	"github.com/tracelink/tracelink/internal/marker"
	"github.com/tracelink/tracelink/internal/member"
	"github.com/tracelink/tracelink/internal/publish"
	"github.com/tracelink/tracelink/internal/realtime"
	"github.com/tracelink/tracelink/internal/sensor"
	"github.com/tracelink/tracelink/internal/store"
	"github.com/tracelink/tracelink/internal/wakelock"
)

// LivenessInterval is how often presence is re-evaluated with no new data,
// so a silent peer visibly goes offline.
const LivenessInterval = 30 * time.Second

type Config struct {
	Self     store.Self
	Remote   realtime.Store
	Geocoder geocode.Geocoder
	Source   sensor.Source
	Renderer marker.Renderer
	Lock     wakelock.Lock
	Language string

	// Heartbeat and Liveness default to 30 s; tests shorten them.
	Heartbeat time.Duration
	Liveness  time.Duration

	Logger *zap.Logger
	Clock  func() time.Time
}

type Session struct {
	inbox chan msg

	store     *store.Store
	cache     *geocode.Cache
	rec       *marker.Reconciler
	publisher *publish.Publisher

	remote   realtime.Store
	geocoder geocode.Geocoder
	source   sensor.Source
	lock     wakelock.Lock
	lang     string

	heartbeat time.Duration
	liveness  time.Duration

	ctx          context.Context
	cancel       context.CancelFunc
	sensorCancel context.CancelFunc

	fatal chan error
	log   *zap.Logger
	now   func() time.Time
}

// Start wires the engine and launches its loop plus the sensor and
// subscription feeds.
func Start(parent context.Context, cfg Config) (*Session, error) {
	ctx, cancel := context.WithCancel(parent)

	if cfg.Heartbeat <= 0 {
		cfg.Heartbeat = publish.HeartbeatInterval
	}
	if cfg.Liveness <= 0 {
		cfg.Liveness = LivenessInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	cfg.Self.Sharing = true

	s := &Session{
		inbox:     make(chan msg, 64),
		store:     store.New(cfg.Self),
		cache:     geocode.NewCache(),
		rec:       marker.NewReconciler(cfg.Renderer, cfg.Logger),
		publisher: publish.New(cfg.Remote, cfg.Logger),
		remote:    cfg.Remote,
		geocoder:  cfg.Geocoder,
		source:    cfg.Source,
		lock:      cfg.Lock,
		lang:      cfg.Language,
		heartbeat: cfg.Heartbeat,
		liveness:  cfg.Liveness,
		ctx:       ctx,
		cancel:    cancel,
		fatal:     make(chan error, 1),
		log:       cfg.Logger,
		now:       cfg.Clock,
	}

	if err := s.lock.Acquire(ctx); err != nil {
		s.log.Warn("wake lock unavailable", zap.Error(err))
	}

	snapshots, err := s.remote.Subscribe(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	go func() {
		for snap := range snapshots {
			select {
			case s.inbox <- roomSnapshot{members: snap}:
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := s.startSensor(); err != nil {
		cancel()
		return nil, err
	}

	go s.loop()

	// New joiners should appear to others promptly, before the first fix.
	s.inbox <- visibilityRegained{}
	return s, nil
}

func (s *Session) startSensor() error {
	sensorCtx, sensorCancel := context.WithCancel(s.ctx)
	fixes, errs, err := s.source.Watch(sensorCtx)
	if err != nil {
		sensorCancel()
		return err
	}
	s.sensorCancel = sensorCancel
	go func() {
		for {
			select {
			case fix, ok := <-fixes:
				if !ok {
					return
				}
				select {
				case s.inbox <- sensorFix{fix: fix}:
				case <-sensorCtx.Done():
					return
				}
			case err := <-errs:
				select {
				case s.inbox <- sensorFailed{err: err}:
				case <-sensorCtx.Done():
				}
				return
			case <-sensorCtx.Done():
				return
			}
		}
	}()
	return nil
}

func (s *Session) loop() {
	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()
	liveness := time.NewTicker(s.liveness)
	defer liveness.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-heartbeat.C:
			s.publisher.Publish(s.ctx, s.store.Self())

		case <-liveness.C:
			// No new data needed: staleness alone flips peers offline.
			s.reconcile()

		case m := <-s.inbox:
			switch msg := m.(type) {
			case sensorFix:
				s.handleFix(msg.fix)
			case sensorFailed:
				s.handleSensorFailure(msg.err)
			case roomSnapshot:
				s.handleSnapshot(msg.members)
			case geocodeDone:
				s.handleGeocode(msg)
			case batteryLevel:
				s.handleBattery(msg.percent)
			case visibilityRegained:
				s.handleVisible()
			case stopSharing:
				s.handleStop()
				close(msg.done)
			case leaveRoom:
				s.handleLeave()
				close(msg.done)
				return
			case shutdownMsg:
				s.cancel()
				return
			case getView:
				msg.reply <- View{
					Self:      s.store.Self(),
					Peers:     s.store.SnapshotPeers(),
					MarkerIDs: s.rec.MarkerIDs(),
				}
			}
		}
	}
}

func (s *Session) handleFix(fix sensor.Fix) {
	if !s.store.Self().Sharing {
		// A fix queued behind a stop must not resurrect the marker.
		return
	}
	s.store.UpdateSelf(func(self *store.Self) {
		p := fix.Point
		self.Position = &p
		acc := fix.Accuracy
		self.Accuracy = &acc
	})
	self := s.store.Self()

	if s.cache.NeedsLookup(self.ID, fix.Point) || self.PlaceName == "" {
		s.lookup(self.ID, fix.Point)
	}
	s.rec.SyncSelf(self, s.now())
	s.publisher.Publish(s.ctx, self)
}

// handleSensorFailure treats a sensor error as fatal: sharing stops and
// the error surfaces so the caller can return the user to a
// permission-request state.
func (s *Session) handleSensorFailure(err error) {
	s.log.Error("location sensor failed", zap.Error(err))
	s.handleStop()
	select {
	case s.fatal <- err:
	default:
	}
}

func (s *Session) handleSnapshot(members member.Snapshot) {
	self := s.store.Self()
	delete(members, self.ID) // Self never enters the peer map.

	oldIDs := s.store.PeerIDs()
	newIDs := make([]string, 0, len(members))
	for _, id := range oldIDs {
		if _, ok := members[id]; ok {
			newIDs = append(newIDs, id)
		}
	}
	var fresh []string
	for id := range members {
		if _, ok := s.store.Peer(id); !ok {
			fresh = append(fresh, id)
		}
	}
	sort.Strings(fresh)
	newIDs = append(newIDs, fresh...)

	diff := store.DiffKeys(oldIDs, newIDs)
	for _, id := range diff.Removed {
		s.store.RemovePeer(id)
		s.cache.Evict(id)
	}
	for _, id := range newIDs {
		rec := members[id]
		s.store.UpsertPeer(id, rec)
		if rec.HasFix() {
			p := geo.Point{Lat: *rec.Lat, Lng: *rec.Lng}
			if s.cache.NeedsLookup(id, p) {
				s.lookup(id, p)
			}
		}
	}
	s.reconcile()
}

func (s *Session) handleGeocode(res geocodeDone) {
	self := s.store.Self()
	if res.id == self.ID {
		if !self.Sharing {
			// Sharing stopped while the lookup was in flight; discard.
			return
		}
		s.cache.Store(res.id, res.point, res.name)
		s.store.UpdateSelf(func(sf *store.Self) {
			sf.PlaceName = s.cache.Name(res.id)
		})
		s.rec.SyncSelf(s.store.Self(), s.now())
		return
	}
	rec, ok := s.store.Peer(res.id)
	if !ok {
		// Peer removed while the lookup was in flight; discard.
		return
	}
	s.cache.Store(res.id, res.point, res.name)
	s.rec.RefreshPopup(store.PeerEntry{ID: res.id, Record: rec}, s.cache.Name(res.id), s.now())
}

func (s *Session) handleBattery(percent int) {
	s.store.UpdateSelf(func(self *store.Self) {
		self.Battery = &percent
	})
	s.publisher.Publish(s.ctx, s.store.Self())
}

func (s *Session) handleVisible() {
	self := s.store.Self()
	if !self.Sharing {
		return
	}
	if !s.lock.Held() {
		if err := s.lock.Acquire(s.ctx); err != nil {
			s.log.Warn("wake lock re-acquire failed", zap.Error(err))
		}
	}
	// Publish even before the first fix: a coordinate-less record still
	// puts Self on everyone's member list.
	s.publisher.Publish(s.ctx, self)
}

func (s *Session) handleStop() {
	self := s.store.Self()
	if !self.Sharing {
		return
	}
	if s.sensorCancel != nil {
		s.sensorCancel()
	}
	s.lock.Release()
	s.store.UpdateSelf(func(sf *store.Self) { sf.Sharing = false })
	// One terminal record; peers keep "last seen". In-flight geocode
	// lookups are not cancelled, just discarded on arrival.
	s.publisher.Stop(s.ctx, self.ID)
	s.rec.RemoveSelf()
	s.log.Info("sharing stopped")
}

func (s *Session) handleLeave() {
	self := s.store.Self()
	if self.Sharing {
		if s.sensorCancel != nil {
			s.sensorCancel()
		}
		s.lock.Release()
		s.store.UpdateSelf(func(sf *store.Self) { sf.Sharing = false })
	}
	s.publisher.Leave(s.ctx, self.ID)
	s.rec.RemoveSelf()
	s.cancel()
	s.log.Info("left room", zap.String("room", self.Room))
}

func (s *Session) reconcile() {
	s.rec.Sync(s.store.SnapshotPeers(), s.cache.Name, s.now())
}

// lookup issues an asynchronous reverse geocode and posts the result back
// to the loop. Failures degrade to an empty name; the cache keeps any
// previously resolved one.
func (s *Session) lookup(id string, p geo.Point) {
	go func() {
		ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
		defer cancel()
		name, err := s.geocoder.ReverseGeocode(ctx, p, s.lang)
		if err != nil {
			s.log.Debug("reverse geocode failed", zap.String("member", id), zap.Error(err))
			name = ""
		}
		select {
		case s.inbox <- geocodeDone{id: id, point: p, name: name}:
		case <-s.ctx.Done():
		}
	}()
}

// Stop ends sharing: the sensor subscription is cancelled, the wake lock
// released, and a single online:false record published. The session keeps
// watching peers.
func (s *Session) Stop() {
	done := make(chan struct{})
	select {
	case s.inbox <- stopSharing{done: done}:
		<-done
	case <-s.ctx.Done():
	}
}

// Leave removes Self from the room entirely and shuts the session down.
func (s *Session) Leave() {
	done := make(chan struct{})
	select {
	case s.inbox <- leaveRoom{done: done}:
		<-done
	case <-s.ctx.Done():
	}
}

// NotifyBattery reports a battery level change; it triggers an immediate
// publish.
func (s *Session) NotifyBattery(percent int) {
	select {
	case s.inbox <- batteryLevel{percent: percent}:
	case <-s.ctx.Done():
	}
}

// NotifyVisible reports that the hosting surface regained visibility.
func (s *Session) NotifyVisible() {
	select {
	case s.inbox <- visibilityRegained{}:
	case <-s.ctx.Done():
	}
}

// ViewState returns a race-free copy of engine state.
func (s *Session) ViewState() (View, bool) {
	reply := make(chan View, 1)
	select {
	case s.inbox <- getView{reply: reply}:
	case <-s.ctx.Done():
		return View{}, false
	}
	select {
	case v := <-reply:
		return v, true
	case <-s.ctx.Done():
		return View{}, false
	}
}

// Fatal delivers terminal sensor failures.
func (s *Session) Fatal() <-chan error { return s.fatal }

func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }
