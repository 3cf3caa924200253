package services

import (
	"context"
	"time"

	"loanhub/internal/adapters/persistence/repositories"
	"loanhub/internal/config"
	"loanhub/internal/core/domain"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const overdueSweepJob = "overdue_sweep"

// CronService runs the background jobs. A job never overlaps itself in this
// process, and a DB lease keeps it to one instance across the deployment.
type CronService struct {
	overdue *OverdueService
	locks   *repositories.JobLockRepository
	clock   Clock
	spec    string
	lease   time.Duration
	owner   string
	cron    *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(overdue *OverdueService, locks *repositories.JobLockRepository, clock Clock, policy config.LoanConfig) *CronService {
	logger := cron.PrintfLogger(logrus.StandardLogger())
	return &CronService{
		overdue: overdue,
		locks:   locks,
		clock:   clock,
		spec:    policy.OverdueSweepSpec,
		lease:   policy.OverdueSweepLease,
		owner:   uuid.NewString(),
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}
}

// Start schedules the jobs and starts the scheduler
func (s *CronService) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.lease)
		defer cancel()
		if _, err := s.RunOverdueSweep(ctx); err != nil && err != domain.ErrJobLocked {
			logrus.WithError(err).Error("❌ Overdue sweep failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.WithFields(logrus.Fields{
		"spec":  s.spec,
		"owner": s.owner,
	}).Info("🚀 CronService started")
	return nil
}

// Stop stops scheduling and waits for a running job to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	logrus.Info("🛑 CronService stopped")
}

// RunOverdueSweep sweeps once under the deployment-wide lease. It returns
// domain.ErrJobLocked when another instance holds the lease.
func (s *CronService) RunOverdueSweep(ctx context.Context) (*SweepResult, error) {
	now := s.clock.Now()
	acquired, err := s.locks.TryAcquire(ctx, overdueSweepJob, s.owner, now, s.lease)
	if err != nil {
		return nil, err
	}
	if !acquired {
		logrus.WithField("job", overdueSweepJob).Debug("lease held elsewhere, skipping")
		return nil, domain.ErrJobLocked
	}
	defer func() {
		if err := s.locks.Release(context.Background(), overdueSweepJob, s.owner); err != nil {
			logrus.WithError(err).Warn("⚠️ Failed to release job lease")
		}
	}()

	return s.overdue.Sweep(ctx, now)
}
