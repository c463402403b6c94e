package scheduler

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"cenometr/server/config"
)

func TestSchedulerStartStop(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{}
	cfg.Scheduler.Interval = 60

	s := NewScheduler(nil, cfg, logger)
	s.Start()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestSchedulerIntervalFallback(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := NewScheduler(nil, &config.Config{}, logger)
	assert.Equal(t, 6*time.Hour, s.interval)
}
