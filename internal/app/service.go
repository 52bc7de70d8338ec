// Package service provides the core motion-processing service that
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"

	windowqueue "github.com/aadsidhu-design/flexa-sub004/internal/adapters/mq/queue"
	workerpool "github.com/aadsidhu-design/flexa-sub004/internal/adapters/mq/worker"
	repository "github.com/aadsidhu-design/flexa-sub004/internal/adapters/repository"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/detect"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/rom"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/smoothness"
	"github.com/aadsidhu-design/flexa-sub004/pkg/logger"
	"github.com/aadsidhu-design/flexa-sub004/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultWorkerCount = 1
	defaultQueueSize   = 4096
	defaultMaxSessions = 1024
)

// Tunings bundles the per-detector configuration structs. Zero-valued
// members fall back to the documented defaults inside each detector.
type Tunings struct {
	Pendulum     detect.PendulumTuning     `koanf:"pendulum"`
	Circular     detect.CircularTuning     `koanf:"circular"`
	LateralSwing detect.LateralSwingTuning `koanf:"lateral_swing"`
	GyroReversal detect.GyroReversalTuning `koanf:"gyro_reversal"`
	VisionAngle  detect.VisionAngleTuning  `koanf:"vision_angle"`
}

// Service owns the session registry, the spectral worker pool, and the
// summary store.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	windowQueue windowqueue.Queue
	workerPool  *workerpool.Pool
	sessions    map[string]*Session

	// Configuration
	workerCount      int
	queueSize        int
	maxSessions      int
	defaultArmRadius float64
	tunings          Tunings
	smoothnessOpts   []smoothness.Option

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of spectral worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the spectral window queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxStoredSessions bounds the summary store.
func WithMaxStoredSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithDefaultArmRadius sets the radius, in meters, used for sessions started
// without a measured calibration. It replaces the built-in fallback radius;
// such sessions still carry the defaulted-calibration quality flag.
func WithDefaultArmRadius(r float64) Option {
	return func(s *Service) {
		if r > 0 {
			s.defaultArmRadius = r
		}
	}
}

// WithTunings sets the per-detector configuration.
func WithTunings(t Tunings) Option {
	return func(s *Service) {
		s.tunings = t
	}
}

// WithSmoothnessOptions forwards options to each session's analyzer.
func WithSmoothnessOptions(opts ...smoothness.Option) Option {
	return func(s *Service) {
		s.smoothnessOpts = opts
	}
}

// WithStore sets a custom summary store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: defaultWorkerCount,
		queueSize:   defaultQueueSize,
		maxSessions: defaultMaxSessions,
		sessions:    make(map[string]*Session),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting motion service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore(
			repository.WithMaxSessions(s.maxSessions),
		)
	}
	s.windowQueue = windowqueue.NewInMemoryQueue(
		windowqueue.WithCapacity(s.queueSize),
		windowqueue.WithBufferSize(s.queueSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.windowQueue, &scorerAdapter{svc: s}, &publisherAdapter{svc: s})
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "motion service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)

	return nil
}

// Stop gracefully shuts down the service. Active sessions are ended with
// their last observed timestamp so their summaries are not lost.
func (s *Service) Stop() {
	s.mu.Lock()
	active := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		active = append(active, sess)
	}
	started := s.started
	s.mu.Unlock()

	if !started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping motion service...")

	for _, sess := range active {
		if _, err := sess.End(ctx); err != nil {
			s.logger.Error(ctx, "ending session on shutdown", logger.Error(err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}
	if s.store != nil {
		_ = s.store.Close()
	}
	if !s.windowQueue.IsClosed() {
		_ = s.windowQueue.Close()
	}

	s.started = false
	s.logger.Info(ctx, "motion service stopped")
}

// StartSession creates a session for one exercise. The detector kind selects
// the repetition state machine; calibration is read once, here.
func (s *Service) StartSession(ctx context.Context, kind detect.Kind, cal model.Calibration) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, ErrNotStarted
	}

	if cal.ArmRadiusMeters <= 0 && s.defaultArmRadius > 0 {
		cal = model.Calibration{ArmRadiusMeters: s.defaultArmRadius, Defaulted: true}
	}

	calc := rom.NewCalculator(cal)
	detector, err := s.buildDetector(kind, calc)
	if err != nil {
		return nil, err
	}

	sess := newSession(s, detector, cal.Normalize(), s.smoothnessOpts...)
	s.sessions[sess.ID()] = sess

	metrics.RecordSessionStarted()
	s.logger.Info(ctx, "session started",
		logger.String("sessionID", sess.ID()),
		logger.String("detector", string(kind)),
		logger.Float64("armRadius", calc.ArmRadius()),
	)
	return sess, nil
}

func (s *Service) buildDetector(kind detect.Kind, calc *rom.Calculator) (detect.Detector, error) {
	switch kind {
	case model.KindPendulum:
		return detect.NewPendulum(s.tunings.Pendulum, calc), nil
	case model.KindCircular:
		return detect.NewCircular(s.tunings.Circular, calc), nil
	case model.KindLateralSwing:
		return detect.NewLateralSwing(s.tunings.LateralSwing, calc), nil
	case model.KindGyroReversal:
		return detect.NewGyroReversal(s.tunings.GyroReversal, calc), nil
	case model.KindVisionAngle:
		return detect.NewVisionAngle(s.tunings.VisionAngle), nil
	default:
		return nil, ErrUnknownDetector
	}
}

// Session returns an active session by ID.
func (s *Service) Session(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Summary returns the stored summary for a finished session.
func (s *Service) Summary(ctx context.Context, sessionID string) (model.SessionSummary, error) {
	return s.store.Get(ctx, sessionID)
}

// Summaries returns up to limit stored summaries, most recent first.
func (s *Service) Summaries(ctx context.Context, limit int) ([]model.SessionSummary, error) {
	return s.store.List(ctx, limit)
}

// Pressure asks every active session to reduce memory use and publish
// cadence. Invoked on external low-memory signals.
func (s *Service) Pressure(ctx context.Context) {
	s.mu.RLock()
	active := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		active = append(active, sess)
	}
	s.mu.RUnlock()

	for _, sess := range active {
		sess.Pressure()
	}
	s.logger.Warn(ctx, "memory pressure applied", logger.Int("sessions", len(active)))
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"workerCount":    s.workerCount,
		"queueSize":      s.queueSize,
		"activeSessions": len(s.sessions),
	}

	if s.started {
		stats["queueLength"] = s.windowQueue.Len(ctx)
		stats["storedSessions"] = s.store.Count(ctx)
	}

	return stats
}

func (s *Service) detach(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// scorerAdapter routes magnitude windows to their session's analyzer. With a
// single worker per pool, windows for one session are scored in order.
type scorerAdapter struct {
	svc *Service
}

func (a *scorerAdapter) Score(ctx context.Context, w workerpool.Window) (model.SmoothnessSample, bool, error) {
	sess, ok := a.svc.Session(w.SessionID)
	if !ok {
		// The session ended while the window was queued; stale work, not an
		// error.
		return model.SmoothnessSample{}, false, nil
	}
	return sess.analyze(w)
}

// publisherAdapter delivers published samples back to their session.
type publisherAdapter struct {
	svc *Service
}

func (a *publisherAdapter) Publish(ctx context.Context, sessionID string, sample model.SmoothnessSample) error {
	sess, ok := a.svc.Session(sessionID)
	if !ok {
		return nil
	}
	sess.deliver(sample)
	return nil
}
