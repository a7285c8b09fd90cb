package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"oilwatcher/internal/scheduler"
)

// Watch runs the tracking pipeline on an aligned interval until interrupted.
// Tick failures are logged by the scheduler and do not stop the loop; exit
// status semantics apply to the one-shot track command only.
func (a *App) Watch(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToStart: a.Config.Scheduler.AlignToBucket,
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	a.Logger.Info().Dur("interval", a.Config.Scheduler.Interval).Msg("starting price watch")

	err := sched.Run(ctx, func(ctx context.Context, _ time.Time) error {
		alerts, err := a.Track(ctx)
		if err != nil {
			return err
		}
		if len(alerts) > 0 {
			a.Logger.Warn().Int("alerts", len(alerts)).Msg("alerts raised during watch tick")
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.Logger.Info().Msg("price watch stopped")
	return nil
}
