package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/trendpress/trendpress/internal/scheduler"
)

const (
	socialCycleTimeout = 5 * time.Minute
	dailyCycleTimeout  = 30 * time.Minute
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daemon with both schedules",
	RunE:  runAction,
}

func runAction(_ *cobra.Command, _ []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	sched := scheduler.New(p.cfg.Location(), p.log)

	if err := sched.Add(p.cfg.Schedule.Social, "social", socialCycleTimeout, p.social.Run); err != nil {
		return fmt.Errorf("register social schedule: %w", err)
	}
	if err := sched.Add(p.cfg.Schedule.Daily, "daily", dailyCycleTimeout, p.agg.Run); err != nil {
		return fmt.Errorf("register daily schedule: %w", err)
	}

	sched.Start()
	p.log.WithField("timezone", p.cfg.Schedule.Timezone).Info("scheduler started")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	p.log.Info("shutting down, waiting for running cycles")
	sched.Stop()
	return nil
}
