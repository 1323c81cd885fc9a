// Package jobs runs the application's scheduled background work.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
)

// OverdueScheduler periodically flips open invoices past their due date to
// OVERDUE across all organizations.
type OverdueScheduler struct {
	cron       *cron.Cron
	invoiceSvc portssvc.InvoiceSvcFacade
	logger     *slog.Logger
}

// NewOverdueScheduler creates the scheduler without starting it.
func NewOverdueScheduler(invoiceSvc portssvc.InvoiceSvcFacade, logger *slog.Logger) *OverdueScheduler {
	return &OverdueScheduler{
		cron:       cron.New(),
		invoiceSvc: invoiceSvc,
		logger:     logger,
	}
}

// Start registers the job under the cron schedule and begins running it.
func (s *OverdueScheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Overdue invoice job scheduled", slog.String("schedule", schedule))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *OverdueScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *OverdueScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	updated, err := s.invoiceSvc.MarkOverdueInvoices(ctx, time.Now())
	if err != nil {
		s.logger.Error("Overdue invoice job failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("Overdue invoice job finished", slog.Int("updated", updated))
}
