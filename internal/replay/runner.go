package replay

import (
	"context"
	"fmt"
	"time"

	service "github.com/aadsidhu-design/flexa-sub004/internal/app"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	"github.com/aadsidhu-design/flexa-sub004/pkg/logger"
)

// drainGrace is how long the runner waits for queued spectral windows to be
// scored before ending each session.
const drainGrace = 150 * time.Millisecond

// Run feeds each stream through its own session and logs the summaries. The
// service must already be started.
func Run(ctx context.Context, svc *service.Service, streams []Stream) error {
	log := logger.Get().Named("replay")

	for _, st := range streams {
		if err := runStream(ctx, svc, log, st); err != nil {
			return err
		}
	}
	return nil
}

func runStream(ctx context.Context, svc *service.Service, log logger.Logger, st Stream) error {
	sess, err := svc.StartSession(ctx, st.Kind, model.Calibration{})
	if err != nil {
		return fmt.Errorf("starting %s session: %w", st.Name, err)
	}

	repsDone := make(chan int, 1)
	go func() {
		n := 0
		for range sess.RepEvents() {
			n++
		}
		repsDone <- n
	}()

	smoothDone := make(chan int, 1)
	go func() {
		n := 0
		for range sess.Smoothness() {
			n++
		}
		smoothDone <- n
	}()

	for _, sample := range st.Samples {
		if err := sess.Process(ctx, sample); err != nil {
			return fmt.Errorf("processing %s sample: %w", st.Name, err)
		}
	}

	// Let the workers drain queued windows before cutting the session off.
	time.Sleep(drainGrace)

	summary, err := sess.End(ctx)
	if err != nil {
		return fmt.Errorf("ending %s session: %w", st.Name, err)
	}

	log.Info(ctx, "stream finished",
		logger.String("stream", st.Name),
		logger.String("sessionID", summary.SessionID),
		logger.Int("samples", len(st.Samples)),
		logger.Int("reps", summary.RepCount),
		logger.Int("repEventsSeen", <-repsDone),
		logger.Int("smoothnessSamples", <-smoothDone),
		logger.Float64("avgSmoothness", summary.AverageSmoothness),
		logger.Float64("peakSmoothness", summary.PeakSmoothness),
	)
	return nil
}
