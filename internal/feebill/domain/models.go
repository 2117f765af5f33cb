package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	studentdomain "github.com/edupay/feereport/internal/student/domain"
)

const (
	BillStatusPending       = "PENDING"
	BillStatusPartiallyPaid = "PARTIALLY_PAID"
	BillStatusPaid          = "PAID"
	BillStatusFailed        = "FAILED"
)

const (
	PaymentMethodOnline       = "ONLINE"
	PaymentMethodCash         = "CASH"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
	PaymentMethodCheque       = "CHEQUE"
)

// OutstandingStatuses are the bill states counted as unpaid debt.
var OutstandingStatuses = []string{BillStatusPending, BillStatusPartiallyPaid}

// FeeBill is one billing obligation for one student and one academic term.
// Amounts are 2-decimal fixed-point currency. amount_paid exceeding
// amount_due is unvalidated input here; the reporting core reads it as-is.
type FeeBill struct {
	ID            snowflake.ID           `gorm:"primaryKey" json:"id"`
	ReferenceCode string                 `gorm:"not null" json:"reference_code"`
	StudentID     snowflake.ID           `gorm:"not null;index" json:"student_id"`
	Student       *studentdomain.Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	AcademicTerm  string                 `gorm:"not null" json:"academic_term"`
	DueDate       time.Time              `gorm:"not null;index:idx_fee_bills_due_method,priority:1" json:"due_date"`
	AmountDue     float64                `gorm:"type:decimal(12,2);not null" json:"amount_due"`
	AmountPaid    float64                `gorm:"type:decimal(12,2);not null;default:0" json:"amount_paid"`
	Status        string                 `gorm:"not null;default:PENDING;index" json:"status"`
	PaymentMethod string                 `gorm:"not null;index:idx_fee_bills_due_method,priority:2" json:"payment_method"`
	CreatedAt     time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (FeeBill) TableName() string { return "fee_bills" }
