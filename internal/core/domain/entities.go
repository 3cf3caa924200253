package domain

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	LoanStatusPending     LoanStatus = "PENDING"
	LoanStatusUnderReview LoanStatus = "UNDER_REVIEW"
	LoanStatusApproved    LoanStatus = "APPROVED"
	LoanStatusRejected    LoanStatus = "REJECTED"
	LoanStatusDisbursed   LoanStatus = "DISBURSED"
	LoanStatusActive      LoanStatus = "ACTIVE"
	LoanStatusClosed      LoanStatus = "CLOSED"
)

// CanDecide reports whether approve/reject are legal from this status
func (s LoanStatus) CanDecide() bool {
	return s == LoanStatusPending || s == LoanStatusUnderReview
}

// IsServicing reports whether the loan has money out and accepts payments
func (s LoanStatus) IsServicing() bool {
	return s == LoanStatusDisbursed || s == LoanStatusActive
}

// IsTerminal reports whether no further transition is possible
func (s LoanStatus) IsTerminal() bool {
	return s == LoanStatusRejected || s == LoanStatusClosed
}

// LoanType is the product a loan is granted under
type LoanType string

const (
	LoanTypePersonal  LoanType = "PERSONAL"
	LoanTypeHome      LoanType = "HOME"
	LoanTypeAuto      LoanType = "AUTO"
	LoanTypeEducation LoanType = "EDUCATION"
	LoanTypeBusiness  LoanType = "BUSINESS"
	LoanTypeGold      LoanType = "GOLD"
)

// Frequency is how often an installment falls due
type Frequency string

const (
	FrequencyMonthly    Frequency = "MONTHLY"
	FrequencyQuarterly  Frequency = "QUARTERLY"
	FrequencyHalfYearly Frequency = "HALF_YEARLY"
	FrequencyYearly     Frequency = "YEARLY"
)

// Valid reports whether f is a supported repayment frequency
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyHalfYearly, FrequencyYearly:
		return true
	}
	return false
}

// Tier is the customer loyalty level
type Tier string

const (
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
	TierDiamond  Tier = "DIAMOND"
)

// WaivesCharges reports whether the tier is one of the top two, which waive
// prepayment, restructure and foreclosure charges.
func (t Tier) WaivesCharges() bool {
	return t == TierPlatinum || t == TierDiamond
}

// PrepaymentType distinguishes full payoff from partial principal reduction
type PrepaymentType string

const (
	PrepaymentFull    PrepaymentType = "FULL"
	PrepaymentPartial PrepaymentType = "PARTIAL"
)

// ForeclosureStatus tracks a foreclosure from quote to settlement
type ForeclosureStatus string

const (
	ForeclosureRequested ForeclosureStatus = "REQUESTED"
	ForeclosureCompleted ForeclosureStatus = "COMPLETED"
)

// OverdueBucket classifies how long an installment has gone unpaid
type OverdueBucket string

const (
	BucketCurrent       OverdueBucket = "CURRENT"
	BucketOverdue1To30  OverdueBucket = "OVERDUE_1_30"
	BucketOverdue31To60 OverdueBucket = "OVERDUE_31_60"
	BucketOverdue61To90 OverdueBucket = "OVERDUE_61_90"
	BucketOverdue90Plus OverdueBucket = "OVERDUE_90_PLUS"
)

// PaymentMethod identifies where a payment is funded from
type PaymentMethod string

const (
	// PaymentMethodAccount debits the loan's funding account through the ledger
	PaymentMethodAccount  PaymentMethod = "ACCOUNT"
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCard     PaymentMethod = "CARD"
)

// Valid reports whether m is a known payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodAccount, PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard:
		return true
	}
	return false
}

// Reward categories
const (
	RewardLoanRepayment = "LOAN_REPAYMENT"
	RewardLoanClosure   = "LOAN_CLOSURE"
	RewardPrepayment    = "LOAN_PREPAYMENT"
)
