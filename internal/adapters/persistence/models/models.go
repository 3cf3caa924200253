package models

import (
	"time"

	"loanhub/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Master Tables
// ============================================================

// LoanType is the product rate table
type LoanType struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Code         domain.LoanType `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name         string          `gorm:"size:100;not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	InterestRate decimal.Decimal `gorm:"type:decimal(7,4);not null" json:"interest_rate"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LoanType) TableName() string {
	return "loan_types"
}

// ============================================================
// Main Tables
// ============================================================

// Loan is the aggregate root: terms, status and running balances
type Loan struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	LoanNumber        string            `gorm:"size:40;uniqueIndex;not null" json:"loan_number"`
	CustomerID        uint              `gorm:"not null;index" json:"customer_id"`
	AccountID         uint              `gorm:"not null" json:"account_id"`
	LoanType          domain.LoanType   `gorm:"size:20;not null" json:"loan_type"`
	Status            domain.LoanStatus `gorm:"size:20;not null;index" json:"status"`
	PrincipalAmount   decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"principal_amount"`
	InterestRate      decimal.Decimal   `gorm:"type:decimal(7,4);not null" json:"interest_rate"`
	TenureMonths      int               `gorm:"not null" json:"tenure_months"`
	Frequency         domain.Frequency  `gorm:"size:20;not null" json:"repayment_frequency"`
	EMIAmount         decimal.Decimal   `gorm:"column:emi_amount;type:decimal(15,2);not null" json:"emi_amount"`
	OutstandingAmount decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"outstanding_amount"`
	TotalPaid         decimal.Decimal   `gorm:"type:decimal(15,2);not null;default:0" json:"total_paid"`
	LateFeesPaid      decimal.Decimal   `gorm:"type:decimal(15,2);not null;default:0" json:"late_fees_paid"`
	ApplicationDate   time.Time         `gorm:"not null" json:"application_date"`
	ApprovalDate      *time.Time        `json:"approval_date"`
	DisbursementDate  *time.Time        `json:"disbursement_date"`
	MaturityDate      *time.Time        `json:"maturity_date"`
	NextPaymentDue    *time.Time        `gorm:"index" json:"next_payment_due"`
	NextPaymentAmount decimal.Decimal   `gorm:"type:decimal(15,2);not null;default:0" json:"next_payment_amount"`
	Purpose           string            `gorm:"type:text" json:"purpose"`
	CollateralDetails string            `gorm:"type:text" json:"collateral_details"`
	ApprovalRemarks   string            `gorm:"type:text" json:"approval_remarks"`
	RejectionReason   string            `gorm:"type:text" json:"rejection_reason"`
	Version           int               `gorm:"not null;default:1" json:"version"`
	CreatedAt         time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string {
	return "loans"
}

// ScheduleEntry is one installment of a loan's repayment schedule
type ScheduleEntry struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	LoanID             uint            `gorm:"not null;uniqueIndex:idx_schedule_loan_seq" json:"loan_id"`
	Sequence           int             `gorm:"not null;uniqueIndex:idx_schedule_loan_seq" json:"sequence"`
	DueDate            time.Time       `gorm:"not null;index" json:"due_date"`
	EMIAmount          decimal.Decimal `gorm:"column:emi_amount;type:decimal(15,2);not null" json:"emi_amount"`
	InterestComponent  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"interest_component"`
	PrincipalComponent decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"principal_component"`
	OutstandingAfter   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"outstanding_after"`
	IsPaid             bool            `gorm:"not null;default:false;index" json:"is_paid"`
	PaidDate           *time.Time      `json:"paid_date"`
	PaidAmount         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"paid_amount"`
	DaysOverdue        int             `gorm:"not null;default:0" json:"days_overdue"`
	PenaltyAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"penalty_amount"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ScheduleEntry) TableName() string {
	return "loan_schedule_entries"
}

// Repayment is the journal of payments posted against a loan
type Repayment struct {
	ID               uint                 `gorm:"primaryKey" json:"id"`
	LoanID           uint                 `gorm:"not null;index" json:"loan_id"`
	Reference        string               `gorm:"size:40;uniqueIndex;not null" json:"reference"`
	Amount           decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"amount"`
	InterestPortion  decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"interest_portion"`
	PrincipalPortion decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"principal_portion"`
	LateFee          decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"late_fee"`
	IsLate           bool                 `gorm:"not null;default:false" json:"is_late"`
	PaymentMethod    domain.PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	ScheduleEntryID  *uint                `json:"schedule_entry_id"`
	OutstandingAfter decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"outstanding_after"`
	PaidAt           time.Time            `gorm:"not null" json:"paid_at"`
	CreatedAt        time.Time            `gorm:"autoCreateTime" json:"created_at"`
}

func (Repayment) TableName() string {
	return "loan_repayments"
}

// ============================================================
// History Tables
// ============================================================

// Prepayment summarizes one early payoff, full or partial
type Prepayment struct {
	ID                uint                  `gorm:"primaryKey" json:"id"`
	LoanID            uint                  `gorm:"not null;index" json:"loan_id"`
	Reference         string                `gorm:"size:40;uniqueIndex;not null" json:"reference"`
	Type              domain.PrepaymentType `gorm:"size:10;not null" json:"prepayment_type"`
	Amount            decimal.Decimal       `gorm:"type:decimal(15,2);not null" json:"amount"`
	Charges           decimal.Decimal       `gorm:"type:decimal(15,2);not null" json:"charges"`
	OutstandingBefore decimal.Decimal       `gorm:"type:decimal(15,2);not null" json:"outstanding_before"`
	OutstandingAfter  decimal.Decimal       `gorm:"type:decimal(15,2);not null" json:"outstanding_after"`
	InterestSaved     decimal.Decimal       `gorm:"type:decimal(15,2);not null" json:"interest_saved"`
	TenureReduced     int                   `gorm:"not null" json:"tenure_reduced"`
	NewEMI            decimal.NullDecimal   `gorm:"column:new_emi;type:decimal(15,2)" json:"new_emi"`
	PaymentMethod     domain.PaymentMethod  `gorm:"size:20;not null" json:"payment_method"`
	PrepaidAt         time.Time             `gorm:"not null" json:"prepaid_at"`
	CreatedAt         time.Time             `gorm:"autoCreateTime" json:"created_at"`
}

func (Prepayment) TableName() string {
	return "loan_prepayments"
}

// Restructure is a request to change a loan's rate and/or tenure
type Restructure struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	LoanID               uint            `gorm:"not null;index" json:"loan_id"`
	Reference            string          `gorm:"size:40;uniqueIndex;not null" json:"reference"`
	Reason               string          `gorm:"type:text" json:"reason"`
	Justification        string          `gorm:"type:text" json:"justification"`
	OriginalTenureMonths int             `gorm:"not null" json:"original_tenure_months"`
	OriginalInterestRate decimal.Decimal `gorm:"type:decimal(7,4);not null" json:"original_interest_rate"`
	OriginalEMI          decimal.Decimal `gorm:"column:original_emi;type:decimal(15,2);not null" json:"original_emi"`
	OutstandingPrincipal decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"outstanding_principal"`
	NewTenureMonths      int             `gorm:"not null" json:"new_tenure_months"`
	NewInterestRate      decimal.Decimal `gorm:"type:decimal(7,4);not null" json:"new_interest_rate"`
	NewEMI               decimal.Decimal `gorm:"column:new_emi;type:decimal(15,2);not null" json:"new_emi"`
	Charges              decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"charges"`
	AdditionalInterest   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"additional_interest"`
	IsApproved           bool            `gorm:"not null;default:false" json:"is_approved"`
	ApprovalDate         *time.Time      `json:"approval_date"`
	ApprovalRemarks      string          `gorm:"type:text" json:"approval_remarks"`
	IsImplemented        bool            `gorm:"not null;default:false" json:"is_implemented"`
	EffectiveDate        *time.Time      `json:"effective_date"`
	RequestedAt          time.Time       `gorm:"not null" json:"requested_at"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Restructure) TableName() string {
	return "loan_restructures"
}

// Foreclosure is a payoff quote and, once settled, its settlement
type Foreclosure struct {
	ID                   uint                     `gorm:"primaryKey" json:"id"`
	LoanID               uint                     `gorm:"not null;index" json:"loan_id"`
	Reference            string                   `gorm:"size:40;uniqueIndex;not null" json:"reference"`
	Status               domain.ForeclosureStatus `gorm:"size:20;not null" json:"status"`
	OutstandingPrincipal decimal.Decimal          `gorm:"type:decimal(15,2);not null" json:"outstanding_principal"`
	PendingInterest      decimal.Decimal          `gorm:"type:decimal(15,2);not null" json:"pending_interest"`
	ForeclosureCharges   decimal.Decimal          `gorm:"type:decimal(15,2);not null" json:"foreclosure_charges"`
	TotalAmountDue       decimal.Decimal          `gorm:"type:decimal(15,2);not null" json:"total_amount_due"`
	AmountPaid           decimal.Decimal          `gorm:"type:decimal(15,2);not null;default:0" json:"amount_paid"`
	RemainingEMIs        int                      `gorm:"column:remaining_emis;not null" json:"remaining_emis"`
	InterestSaved        decimal.Decimal          `gorm:"type:decimal(15,2);not null" json:"interest_saved"`
	PaymentMethod        domain.PaymentMethod     `gorm:"size:20" json:"payment_method"`
	RequestedAt          time.Time                `gorm:"not null" json:"requested_at"`
	SettledAt            *time.Time               `json:"settled_at"`
	CreatedAt            time.Time                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time                `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Foreclosure) TableName() string {
	return "loan_foreclosures"
}

// OverdueTracking ages one unpaid, past-due schedule entry
type OverdueTracking struct {
	ID                 uint                 `gorm:"primaryKey" json:"id"`
	LoanID             uint                 `gorm:"not null;uniqueIndex:idx_overdue_loan_entry" json:"loan_id"`
	ScheduleEntryID    uint                 `gorm:"not null;uniqueIndex:idx_overdue_loan_entry" json:"schedule_entry_id"`
	DueDate            time.Time            `gorm:"not null" json:"due_date"`
	EMIAmount          decimal.Decimal      `gorm:"column:emi_amount;type:decimal(15,2);not null" json:"emi_amount"`
	DaysOverdue        int                  `gorm:"not null" json:"days_overdue"`
	PenaltyAmount      decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"penalty_amount"`
	Bucket             domain.OverdueBucket `gorm:"size:20;not null;index" json:"bucket"`
	TotalOverdueAmount decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"total_overdue_amount"`
	IsResolved         bool                 `gorm:"not null;default:false;index" json:"is_resolved"`
	ResolvedAt         *time.Time           `json:"resolved_at"`
	LastCheckedAt      time.Time            `gorm:"not null" json:"last_checked_at"`
	CreatedAt          time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

func (OverdueTracking) TableName() string {
	return "loan_overdue_trackings"
}

// ============================================================
// Collaborator Tables
// ============================================================

// Account is a customer's funding account, credited at disbursement and
// debited for account-funded payments
type Account struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	AccountNumber string          `gorm:"size:30;uniqueIndex;not null" json:"account_number"`
	CustomerID    uint            `gorm:"not null;index" json:"customer_id"`
	Balance       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// CustomerTier holds the loyalty tier of a customer
type CustomerTier struct {
	CustomerID uint        `gorm:"primaryKey;autoIncrement:false" json:"customer_id"`
	Tier       domain.Tier `gorm:"size:20;not null" json:"tier"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CustomerTier) TableName() string {
	return "customer_tiers"
}

// RewardEntry is one awarded reward: points or cashback
type RewardEntry struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CustomerID uint            `gorm:"not null;index" json:"customer_id"`
	Kind       string          `gorm:"size:10;not null" json:"kind"`
	Category   string          `gorm:"size:30" json:"category"`
	Points     int             `gorm:"not null;default:0" json:"points"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	Percent    decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0" json:"percent"`
	Note       string          `gorm:"type:text" json:"note"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (RewardEntry) TableName() string {
	return "reward_entries"
}

// Reward kinds
const (
	RewardKindPoints   = "POINTS"
	RewardKindCashback = "CASHBACK"
)

// JobLock is a named lease held by one process at a time
type JobLock struct {
	Name        string    `gorm:"primaryKey;size:64" json:"name"`
	Owner       string    `gorm:"size:64;not null" json:"owner"`
	LockedUntil time.Time `gorm:"not null" json:"locked_until"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (JobLock) TableName() string {
	return "job_locks"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates every table the service owns
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Master Tables
		&LoanType{},
		// Main Tables
		&Loan{},
		&ScheduleEntry{},
		&Repayment{},
		// History Tables
		&Prepayment{},
		&Restructure{},
		&Foreclosure{},
		&OverdueTracking{},
		// Collaborator Tables
		&Account{},
		&CustomerTier{},
		&RewardEntry{},
		&JobLock{},
	)
}
