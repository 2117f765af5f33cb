package domain

import (
	"time"

	"github.com/edupay/feereport/internal/guard"
	"gorm.io/datatypes"
)

// Totals are the filtered-set sums. Outstanding and the collection rate are
// derived: outstanding = round2(due - collected), rate = round4(collected/due)
// and exactly 0 when nothing is due.
type Totals struct {
	AmountDue       float64 `json:"amountDue"`
	AmountCollected float64 `json:"amountCollected"`
	Outstanding     float64 `json:"outstanding"`
	CollectionRate  float64 `json:"collectionRate"`
}

// SchoolBreakdown is one grouped aggregate row keyed by school.
type SchoolBreakdown struct {
	SchoolID   string  `gorm:"column:school_id" json:"schoolId"`
	SchoolName string  `gorm:"column:school_name" json:"schoolName"`
	BillCount  int64   `gorm:"column:bill_count" json:"billCount"`
	AmountDue  float64 `gorm:"column:amount_due" json:"amountDue"`
	AmountPaid float64 `gorm:"column:amount_paid" json:"amountPaid"`
}

type PaymentMethodBreakdown struct {
	PaymentMethod string  `gorm:"column:payment_method" json:"paymentMethod"`
	BillCount     int64   `gorm:"column:bill_count" json:"billCount"`
	AmountDue     float64 `gorm:"column:amount_due" json:"amountDue"`
	AmountPaid    float64 `gorm:"column:amount_paid" json:"amountPaid"`
}

type GradeBreakdown struct {
	Grade      string  `gorm:"column:grade" json:"grade"`
	BillCount  int64   `gorm:"column:bill_count" json:"billCount"`
	AmountDue  float64 `gorm:"column:amount_due" json:"amountDue"`
	AmountPaid float64 `gorm:"column:amount_paid" json:"amountPaid"`
}

type Breakdowns struct {
	BySchool        []SchoolBreakdown        `json:"bySchool"`
	ByPaymentMethod []PaymentMethodBreakdown `json:"byPaymentMethod"`
	ByGrade         []GradeBreakdown         `json:"byGrade"`
}

// DashboardMetrics is the dashboard response. Breakdown rows carry no
// guardian fields and are never masked; the outstanding sample is.
type DashboardMetrics struct {
	Totals             Totals         `json:"totals"`
	Breakdowns         Breakdowns     `json:"breakdowns"`
	OutstandingSamples []guard.Record `json:"outstandingSamples"`
	GeneratedAt        time.Time      `json:"generatedAt"`
}

// PendingPaymentsPage is one window of the outstanding-bill listing. Total
// counts every matching row independent of the window.
type PendingPaymentsPage struct {
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Data  []guard.Record `json:"data"`
}

// BillStudentRow is the flat projection of a bill joined with its student.
type BillStudentRow struct {
	ReferenceCode string    `gorm:"column:reference_code"`
	Status        string    `gorm:"column:status"`
	DueDate       time.Time `gorm:"column:due_date"`
	AmountDue     float64   `gorm:"column:amount_due"`
	AmountPaid    float64   `gorm:"column:amount_paid"`
	PaymentMethod string    `gorm:"column:payment_method"`
	FirstName     string    `gorm:"column:first_name"`
	LastName      string    `gorm:"column:last_name"`
	GuardianEmail string    `gorm:"column:guardian_email"`
	GuardianPhone string    `gorm:"column:guardian_phone"`
	Grade         string    `gorm:"column:grade"`
	SchoolName    string    `gorm:"column:school_name"`
}

// FailureQuery filters the failed-transaction feed.
type FailureQuery struct {
	LastHours int
	Gateways  []string
}

// FailureStudent and FailureBill are the joined context of a failed attempt.
type FailureStudent struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Grade      string `json:"grade"`
	SchoolName string `json:"schoolName"`
}

type FailureBill struct {
	ReferenceCode string         `json:"referenceCode"`
	Status        string         `json:"status"`
	AmountDue     float64        `json:"amountDue"`
	AmountPaid    float64        `json:"amountPaid"`
	Student       FailureStudent `json:"student"`
}

// FailureRecord is one failed gateway attempt joined with its bill and
// student. Requires reports:monitoring; no masking applies.
type FailureRecord struct {
	ID               string            `json:"id"`
	Status           string            `json:"status"`
	PaymentGateway   string            `json:"paymentGateway"`
	PaymentReference string            `json:"paymentReference"`
	AttemptedAt      time.Time         `json:"attemptedAt"`
	FailureReason    *string           `json:"failureReason,omitempty"`
	Metadata         datatypes.JSONMap `json:"metadata,omitempty"`
	Bill             FailureBill       `json:"bill"`
}
