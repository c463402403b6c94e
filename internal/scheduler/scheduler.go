package scheduler

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"cenometr/server/config"
	"cenometr/server/internal/models"
	"cenometr/server/internal/scraping"
)

// Scheduler refreshes every tracked city on a fixed interval. Rounds run
// sequentially; a manual refresh triggered through the API shares the store
// but not the mutex, which is fine since reconciliation is transactional.
type Scheduler struct {
	manager  *scraping.RefreshManager
	logger   *logrus.Logger
	interval time.Duration
	cities   []config.City

	stopChan chan struct{}
	wg       sync.WaitGroup
	jobMutex sync.Mutex
}

func NewScheduler(manager *scraping.RefreshManager, cfg *config.Config, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	interval := time.Duration(cfg.Scheduler.Interval) * time.Minute
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	return &Scheduler{
		manager:  manager,
		logger:   logger,
		interval: interval,
		cities:   config.TrackedCities,
		stopChan: make(chan struct{}),
	}
}

// Start launches the periodic refresh loop. The first round runs after one
// full interval, not at startup.
func (s *Scheduler) Start() {
	s.logger.WithField("interval", s.interval.String()).Info("Scheduler started")
	s.wg.Add(1)
	go s.run()
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refreshAll()
		case <-s.stopChan:
			return
		}
	}
}

func (s *Scheduler) refreshAll() {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	for _, city := range s.cities {
		outcome := s.manager.Refresh(context.Background(), city, models.MarketAll)
		if !outcome.Success {
			s.logger.WithFields(logrus.Fields{
				"city":  city.Slug,
				"error": outcome.Error,
			}).Warn("Scheduled refresh failed")
		}
	}
}

// Stop halts the loop and waits for an in-flight round to finish.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}
