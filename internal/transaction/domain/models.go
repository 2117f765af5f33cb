package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	feebilldomain "github.com/edupay/feereport/internal/feebill/domain"
	"gorm.io/datatypes"
)

const (
	TransactionStatusSuccess   = "SUCCESS"
	TransactionStatusFailed    = "FAILED"
	TransactionStatusPending   = "PENDING"
	TransactionStatusCancelled = "CANCELLED"
)

// PaymentTransaction records a single gateway attempt against a bill.
// Rows are immutable once created; there is no update path.
type PaymentTransaction struct {
	ID               snowflake.ID           `gorm:"primaryKey" json:"id"`
	FeeBillID        snowflake.ID           `gorm:"not null;index" json:"fee_bill_id"`
	FeeBill          *feebilldomain.FeeBill `gorm:"foreignKey:FeeBillID;constraint:OnDelete:CASCADE" json:"fee_bill,omitempty"`
	Status           string                 `gorm:"not null;index:idx_txn_status_attempted,priority:1" json:"status"`
	PaymentGateway   string                 `gorm:"not null" json:"payment_gateway"`
	PaymentReference string                 `gorm:"not null" json:"payment_reference"`
	AttemptedAt      time.Time              `gorm:"not null;index:idx_txn_status_attempted,priority:2" json:"attempted_at"`
	FailureReason    *string                `json:"failure_reason,omitempty"`
	Metadata         datatypes.JSONMap      `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (PaymentTransaction) TableName() string { return "payment_transactions" }
