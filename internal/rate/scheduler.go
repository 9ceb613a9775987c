package rate

import (
	"context"
	"errors"
	"sync"
	"time"

	"ratesync/internal/domain"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

var ErrSchedulerNotStarted = errors.New("scheduler is not started")

type runner interface {
	Run(ctx context.Context) (domain.Report, error)
}

type Scheduler struct {
	syncer   runner
	interval time.Duration
	// -----
	mu    sync.Mutex
	sched gocron.Scheduler
	job   gocron.Job
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = scheduler

	job := func() {
		// Run logs its own failures with the exec id
		_, _ = s.syncer.Run(ctx)
	}

	s.job, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	logrus.Infof("Sync scheduled every %s", s.interval)

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

// RunNow triggers an out-of-band run. Singleton mode keeps it from overlapping a running one.
func (s *Scheduler) RunNow() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job == nil {
		return ErrSchedulerNotStarted
	}
	return s.job.RunNow()
}

func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	s.job = nil
	return err
}

func NewScheduler(syncer runner, interval time.Duration) *Scheduler {
	return &Scheduler{syncer: syncer, interval: interval}
}
