package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// tickTimeout bounds one full scheduler pass. A tick runs to completion;
// per-user failures are caught inside the pass, never here.
const tickTimeout = 2 * time.Minute

// DispatchRunner is the single operation the loop invokes each tick.
type DispatchRunner interface {
	RunScheduledPass(ctx context.Context, nowUTC time.Time)
}

// DeliveryScheduler runs the recurring dispatch loop: a single background
// cron job polling every PollInterval, evaluating all delivery-enabled users
// against the current UTC instant. Ticks never overlap: a pass still running
// when the next interval fires makes that interval a no-op, so two ticks can
// never both observe the same unsent record.
type DeliveryScheduler struct {
	cronEngine *cron.Cron
	dispatch   DispatchRunner
	interval   time.Duration
	log        *logrus.Logger
}

func NewDeliveryScheduler(dispatch DispatchRunner, interval time.Duration, log *logrus.Logger) *DeliveryScheduler {
	return &DeliveryScheduler{
		cronEngine: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log)))),
		dispatch:   dispatch,
		interval:   interval,
		log:        log,
	}
}

func (s *DeliveryScheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cronEngine.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
		defer cancel()
		s.dispatch.RunScheduledPass(ctx, time.Now().UTC())
	})
	if err != nil {
		return fmt.Errorf("could not register delivery poll job: %w", err)
	}

	s.cronEngine.Start()
	s.log.Infof("Delivery scheduler started, polling every %s", s.interval)
	return nil
}

func (s *DeliveryScheduler) Stop() {
	s.log.Info("Stopping delivery scheduler...")
	ctx := s.cronEngine.Stop() // Waits for a running tick to finish.
	<-ctx.Done()
	s.log.Info("Delivery scheduler stopped.")
}
