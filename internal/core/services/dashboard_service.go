package services

import (
	"context"
	"time"

	"loanhub/internal/adapters/persistence/repositories"
	"loanhub/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	db      *gorm.DB
	overdue *repositories.OverdueTrackingRepository
	clock   Clock
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, overdue *repositories.OverdueTrackingRepository, clock Clock) *DashboardService {
	return &DashboardService{db: db, overdue: overdue, clock: clock}
}

// PortfolioDashboard represents the loan portfolio overview
type PortfolioDashboard struct {
	// Loan counts
	TotalLoans    int64                       `json:"total_loans"`
	CountByStatus map[domain.LoanStatus]int64 `json:"count_by_status"`

	// Money
	DisbursedPrincipal float64 `json:"disbursed_principal"`
	OutstandingAmount  float64 `json:"outstanding_amount"`
	CollectedAmount    float64 `json:"collected_amount"`
	LateFeesCollected  float64 `json:"late_fees_collected"`

	// This month
	ApplicationsThisMonth  int64   `json:"applications_this_month"`
	DisbursementsThisMonth int64   `json:"disbursements_this_month"`
	DisbursedThisMonth     float64 `json:"disbursed_this_month"`

	Overdue     []repositories.BucketCount `json:"overdue"`
	RecentLoans []LoanSummary              `json:"recent_loans"`
}

// LoanSummary represents a loan row on the dashboard
type LoanSummary struct {
	ID                uint              `json:"id"`
	LoanNumber        string            `json:"loan_number"`
	CustomerID        uint              `json:"customer_id"`
	LoanType          domain.LoanType   `json:"loan_type"`
	Status            domain.LoanStatus `json:"status"`
	PrincipalAmount   float64           `json:"principal_amount"`
	OutstandingAmount float64           `json:"outstanding_amount"`
	CreatedAt         time.Time         `json:"created_at"`
}

type statusCount struct {
	Status domain.LoanStatus
	Count  int64
}

// GetPortfolio returns the portfolio dashboard
func (s *DashboardService) GetPortfolio(ctx context.Context) (*PortfolioDashboard, error) {
	data := &PortfolioDashboard{
		CountByStatus: make(map[domain.LoanStatus]int64),
	}
	db := s.db.WithContext(ctx)

	// Counts by status
	var counts []statusCount
	if err := db.Table("loans").
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		data.CountByStatus[c.Status] = c.Count
		data.TotalLoans += c.Count
	}

	// Disbursed loans are everything that reached the customer
	disbursed := []domain.LoanStatus{
		domain.LoanStatusDisbursed,
		domain.LoanStatusActive,
		domain.LoanStatusClosed,
	}
	if err := db.Table("loans").
		Where("status IN ?", disbursed).
		Select("COALESCE(SUM(principal_amount), 0)").
		Scan(&data.DisbursedPrincipal).Error; err != nil {
		return nil, err
	}

	if err := db.Table("loans").
		Where("status IN ?", []domain.LoanStatus{domain.LoanStatusDisbursed, domain.LoanStatusActive}).
		Select("COALESCE(SUM(outstanding_amount), 0)").
		Scan(&data.OutstandingAmount).Error; err != nil {
		return nil, err
	}

	if err := db.Table("loans").
		Select("COALESCE(SUM(total_paid), 0)").
		Scan(&data.CollectedAmount).Error; err != nil {
		return nil, err
	}
	if err := db.Table("loans").
		Select("COALESCE(SUM(late_fees_paid), 0)").
		Scan(&data.LateFeesCollected).Error; err != nil {
		return nil, err
	}

	// This month statistics
	now := s.clock.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if err := db.Table("loans").
		Where("application_date >= ?", startOfMonth).
		Count(&data.ApplicationsThisMonth).Error; err != nil {
		return nil, err
	}
	if err := db.Table("loans").
		Where("disbursement_date >= ?", startOfMonth).
		Count(&data.DisbursementsThisMonth).Error; err != nil {
		return nil, err
	}
	if err := db.Table("loans").
		Where("disbursement_date >= ?", startOfMonth).
		Select("COALESCE(SUM(principal_amount), 0)").
		Scan(&data.DisbursedThisMonth).Error; err != nil {
		return nil, err
	}

	overdue, err := s.overdue.CountOpenByBucket(ctx)
	if err != nil {
		return nil, err
	}
	data.Overdue = overdue

	// Recent activity
	if err := db.Table("loans").
		Select("id, loan_number, customer_id, loan_type, status, principal_amount, outstanding_amount, created_at").
		Order("created_at DESC, id DESC").
		Limit(10).
		Scan(&data.RecentLoans).Error; err != nil {
		return nil, err
	}

	return data, nil
}
