package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/aadsidhu-design/flexa-sub004/internal/domain/buffer"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/detect"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/kinematics"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/smoothness"
	"github.com/aadsidhu-design/flexa-sub004/pkg/metrics"
)

// Session stream and buffering constants.
const (
	repChannelCapacity    = 256
	smoothChannelCapacity = 64

	// windowStride is how many samples pass between spectral window
	// snapshots; the analyzer's own throttle governs what gets published.
	windowStride = 8

	// minWindowSamples is the magnitude count below which no window is
	// enqueued at all.
	minWindowSamples = 16

	// pressureFloor is the retention floor buffers shrink to on memory
	// pressure.
	pressureFloor = 64
)

// Session processes one exercise's sample stream. Samples must be delivered
// by a single caller; rep events and smoothness samples are consumed from
// the channels, which close when the session ends.
type Session struct {
	id       string
	svc      *Service
	detector detect.Detector
	observer detect.PositionObserver

	integrator  *kinematics.Integrator
	analyzer    *smoothness.Analyzer
	mags        *buffer.Series
	calibration model.Calibration

	reps   chan model.RepEvent
	smooth chan model.SmoothnessSample

	// Position-derived speed state, producer-side only.
	prevPos     geometry.Vec3
	prevPosT    float64
	havePrevPos bool
	sampleCount int

	// scoreMu serializes analyzer access across workers and lets End wait
	// out in-flight scoring. Lock order: scoreMu before mu.
	scoreMu sync.Mutex

	mu            sync.Mutex
	romPerRep     []float64
	smoothSum     float64
	smoothCount   int
	smoothPeak    float64
	startedAt     float64
	haveStart     bool
	lastT         float64
	ended         bool
	pressured     bool
	shrinkPending bool
	degradedNoted bool
}

func newSession(svc *Service, detector detect.Detector, cal model.Calibration, smoothOpts ...smoothness.Option) *Session {
	s := &Session{
		id:          uuid.NewString(),
		svc:         svc,
		detector:    detector,
		integrator:  kinematics.NewIntegrator(),
		analyzer:    smoothness.NewAnalyzer(smoothOpts...),
		mags:        buffer.NewSeries(),
		calibration: cal,
		reps:        make(chan model.RepEvent, repChannelCapacity),
		smooth:      make(chan model.SmoothnessSample, smoothChannelCapacity),
	}
	if obs, ok := detector.(detect.PositionObserver); ok {
		s.observer = obs
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// RepEvents returns the ordered repetition stream. Closed at session end.
func (s *Session) RepEvents() <-chan model.RepEvent { return s.reps }

// Smoothness returns the throttled smoothness stream. Closed at session end.
func (s *Session) Smoothness() <-chan model.SmoothnessSample { return s.smooth }

// Process consumes one motion sample. Returns ErrSessionEnded after End.
func (s *Session) Process(ctx context.Context, sample model.Sample) error {
	t := sample.Time()

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return ErrSessionEnded
	}
	if !s.haveStart {
		s.startedAt = t
		s.haveStart = true
	}
	if t > s.lastT {
		s.lastT = t
	}
	shrink := s.shrinkPending
	s.shrinkPending = false
	s.mu.Unlock()

	if shrink {
		s.applyShrink()
	}

	switch v := sample.(type) {
	case model.Position3D:
		if !v.Point.IsFinite() {
			metrics.RecordSampleSkipped("position", "non_finite")
			return nil
		}
		metrics.RecordSampleIngested("position")
		s.feedPositionSpeed(v)
	case model.Inertial:
		metrics.RecordSampleIngested("inertial")
		if state, ok := s.integrator.Step(v); ok {
			if s.observer != nil {
				s.observer.ObservePosition(state.Position, v.Timestamp)
			}
			s.mags.Append(state.Speed)
		}
	case model.Keypoints:
		metrics.RecordSampleIngested("keypoints")
		sample = model.JointAnglesFromKeypoints(v, model.DefaultKeypointConfidence)
	case model.JointAngles:
		metrics.RecordSampleIngested("vision")
	default:
		metrics.RecordSampleSkipped("unknown", "unsupported_type")
		return nil
	}

	if ev, ok := s.detector.Process(sample); ok {
		s.recordRep(ev)
	}

	s.maybeEnqueueWindow(ctx, t)
	return nil
}

// feedPositionSpeed derives a velocity magnitude from consecutive positions
// so position-only modalities still feed the smoothness analyzer.
func (s *Session) feedPositionSpeed(p model.Position3D) {
	if s.havePrevPos {
		if dt := p.Timestamp - s.prevPosT; dt > 0 {
			s.mags.Append(p.Point.Sub(s.prevPos).Norm() / dt)
		}
	}
	s.prevPos = p.Point
	s.prevPosT = p.Timestamp
	s.havePrevPos = true
}

func (s *Session) maybeEnqueueWindow(ctx context.Context, t float64) {
	s.sampleCount++
	if s.mags.Len() < minWindowSamples || s.sampleCount%windowStride != 0 {
		return
	}
	s.svc.windowQueue.Enqueue(ctx, model.MagnitudeWindow{
		SessionID:  s.id,
		Magnitudes: s.mags.Snapshot(),
		Timestamp:  t,
	})
}

func (s *Session) recordRep(ev model.RepEvent) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.romPerRep = append(s.romPerRep, ev.ROMDegrees)

	// The send stays under the lock so End cannot close the channel between
	// the ended check and the send. The channel is generously sized; if the
	// consumer still fell behind, drop the oldest event so indices keep
	// flowing in order.
	select {
	case s.reps <- ev:
	default:
		select {
		case <-s.reps:
		default:
		}
		select {
		case s.reps <- ev:
		default:
		}
	}
	s.mu.Unlock()

	metrics.RecordRep(string(ev.Method))
	metrics.ObserveROM(ev.ROMDegrees)
}

// analyze is called from worker goroutines. The analyzer is not safe for
// concurrent use, so scoreMu serializes windows for this session even when
// the pool runs several workers.
func (s *Session) analyze(w model.MagnitudeWindow) (model.SmoothnessSample, bool, error) {
	s.scoreMu.Lock()
	defer s.scoreMu.Unlock()

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return model.SmoothnessSample{}, false, nil
	}
	pressured := s.pressured
	s.pressured = false
	s.mu.Unlock()

	if pressured {
		s.analyzer.Pressure()
	}

	sample, ok := s.analyzer.Analyze(w.Magnitudes, w.Timestamp)

	if s.analyzer.Degraded() {
		s.mu.Lock()
		first := !s.degradedNoted
		s.degradedNoted = true
		s.mu.Unlock()
		if first {
			metrics.RecordSpectralFailure()
		}
	}
	return sample, ok, nil
}

// deliver is called from a worker goroutine with a published sample.
func (s *Session) deliver(sample model.SmoothnessSample) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.smoothSum += sample.Value
	s.smoothCount++
	if sample.Value > s.smoothPeak {
		s.smoothPeak = sample.Value
	}

	// Sending under the lock keeps the ended check and the send atomic
	// against End closing the channel.
	select {
	case s.smooth <- sample:
	default:
		// Display stream; a dropped reading is replaced by the next one.
	}
	s.mu.Unlock()

	metrics.ObserveSmoothness(sample.Value)
}

// Pressure shrinks buffers and halves the publish cadence. The rings are
// owned by the producer goroutine, so the shrink itself is deferred to the
// next Process call instead of mutating them from the caller's goroutine.
func (s *Session) Pressure() {
	s.mu.Lock()
	s.pressured = true
	s.shrinkPending = true
	s.mu.Unlock()
}

// applyShrink runs on the producer goroutine so ring mutation never races
// with Append.
func (s *Session) applyShrink() {
	s.mags.Shrink(pressureFloor)
	if tr, ok := s.detector.(interface{ Trajectory() *buffer.Trajectory }); ok {
		tr.Trajectory().Shrink(pressureFloor)
	}
}

// End finishes the session: the summary is computed and stored, the output
// channels are closed, and all processing state is discarded.
func (s *Session) End(ctx context.Context) (model.SessionSummary, error) {
	// Taking scoreMu first waits out any in-flight scoring, so the analyzer
	// is quiescent before its health is read and the channels close.
	s.scoreMu.Lock()
	defer s.scoreMu.Unlock()

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return model.SessionSummary{}, ErrSessionEnded
	}
	s.ended = true

	summary := model.SessionSummary{
		SessionID:            s.id,
		Detector:             s.detector.Kind(),
		RepCount:             len(s.romPerRep),
		ROMPerRep:            append([]float64(nil), s.romPerRep...),
		PeakSmoothness:       s.smoothPeak,
		CalibrationDefaulted: s.calibration.Defaulted,
		SpectralDegraded:     s.analyzer.Degraded(),
		StartedAt:            s.startedAt,
		EndedAt:              s.lastT,
	}
	if s.smoothCount > 0 {
		summary.AverageSmoothness = s.smoothSum / float64(s.smoothCount)
	} else {
		summary.AverageSmoothness = smoothness.NeutralScore
	}

	// Closed under the same lock the senders hold; anything that observed
	// ended as false has already finished its send.
	close(s.reps)
	close(s.smooth)
	s.mu.Unlock()

	s.svc.detach(s.id)

	s.detector.Reset()
	s.integrator.Reset()
	s.mags.Clear()

	if err := s.svc.store.Put(ctx, summary); err != nil {
		return summary, err
	}
	metrics.RecordSessionEnded()
	return summary, nil
}
