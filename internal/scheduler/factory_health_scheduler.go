package scheduler

import (
	"context"
	"time"

	"github.com/pizzastack/pizzastack-backend/pkg/factory"
	"github.com/pizzastack/pizzastack-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// FactoryHealthScheduler periodically probes the pizza factory so an
// unreachable fulfillment backend shows up in the logs before diners hit
// it with live orders.
type FactoryHealthScheduler struct {
	cron    *cron.Cron
	factory *factory.Client
}

func NewFactoryHealthScheduler(factoryClient *factory.Client) *FactoryHealthScheduler {
	return &FactoryHealthScheduler{
		cron:    cron.New(),
		factory: factoryClient,
	}
}

// Start schedules the probe every five minutes.
func (s *FactoryHealthScheduler) Start() error {
	_, err := s.cron.AddFunc("*/5 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.factory.Ping(ctx); err != nil {
			logger.Error("Factory health probe failed", err, map[string]interface{}{
				"factory_url": s.factory.GetConfig().BaseURL,
			})
			return
		}

		logger.Debug("Factory health probe succeeded", nil)
	})

	if err != nil {
		logger.Error("Failed to add cron job for factory health probe", err)
		return err
	}

	s.cron.Start()
	logger.Info("Factory health scheduler started (every 5 minutes)", nil)

	return nil
}

// Stop halts the scheduler.
func (s *FactoryHealthScheduler) Stop() {
	logger.Info("Stopping factory health scheduler...", nil)
	s.cron.Stop()
	logger.Info("Factory health scheduler stopped", nil)
}
