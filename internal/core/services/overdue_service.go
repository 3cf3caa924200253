package services

import (
	"context"
	"time"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/adapters/persistence/repositories"
	"loanhub/internal/config"
	"loanhub/internal/core/amortization"

	"github.com/sirupsen/logrus"
)

// OverdueService ages past-due installments
type OverdueService struct {
	repos  *repositories.Repositories
	policy config.LoanConfig
}

// NewOverdueService creates a new overdue service
func NewOverdueService(repos *repositories.Repositories, policy config.LoanConfig) *OverdueService {
	return &OverdueService{
		repos:  repos,
		policy: policy,
	}
}

// SweepResult summarizes one sweep
type SweepResult struct {
	Scanned  int   `json:"scanned"`
	Upserted int   `json:"upserted"`
	Resolved int64 `json:"resolved"`
}

// Sweep ages every unpaid installment of a servicing loan that fell due
// before today. Each entry's days overdue and penalty are refreshed and its
// tracking record is created or overwritten, so running twice on the same
// day changes nothing. Records whose entry has since been paid are resolved.
func (s *OverdueService) Sweep(ctx context.Context, today time.Time) (*SweepResult, error) {
	today = amortization.DateOnly(today)
	result := &SweepResult{}

	err := s.repos.UnitOfWork.Do(ctx, func(ctx context.Context) error {
		entries, err := s.repos.Schedules.ListPastDue(ctx, today)
		if err != nil {
			return err
		}
		result.Scanned = len(entries)

		for _, entry := range entries {
			days := amortization.DaysBetween(entry.DueDate, today)
			penalty := amortization.Penalty(entry.EMIAmount, s.policy.PenaltyRatePerDay, days)

			if err := s.repos.Schedules.UpdateAging(ctx, entry.ID, days, penalty); err != nil {
				return err
			}
			if err := s.repos.Overdue.Upsert(ctx, &models.OverdueTracking{
				LoanID:             entry.LoanID,
				ScheduleEntryID:    entry.ID,
				DueDate:            entry.DueDate,
				EMIAmount:          entry.EMIAmount,
				DaysOverdue:        days,
				PenaltyAmount:      penalty,
				Bucket:             amortization.Bucket(days),
				TotalOverdueAmount: entry.EMIAmount.Add(penalty),
				LastCheckedAt:      today,
			}); err != nil {
				return err
			}
			result.Upserted++
		}

		result.Resolved, err = s.repos.Overdue.ResolveSettled(ctx, today)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"date":     today.Format("2006-01-02"),
		"scanned":  result.Scanned,
		"upserted": result.Upserted,
		"resolved": result.Resolved,
	}).Info("⏰ Overdue sweep finished")
	return result, nil
}

// ListByLoan lists a loan's overdue tracking records
func (s *OverdueService) ListByLoan(ctx context.Context, loanID uint, includeResolved bool) ([]*models.OverdueTracking, error) {
	if _, err := s.repos.Loans.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	return s.repos.Overdue.ListByLoan(ctx, loanID, includeResolved)
}
