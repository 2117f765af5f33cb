package domain

import (
	"context"
	"errors"
	"time"
)

const (
	// DefaultPageLimit applies when the listing limit is unset.
	DefaultPageLimit = 50
	// DefaultExportLimit applies when the export limit is unset.
	DefaultExportLimit = 500
	// MaxExportRows is the hard ceiling on exported rows regardless of input.
	MaxExportRows = 5000
	// MaxOutstandingSamples bounds the dashboard sample listing.
	MaxOutstandingSamples = 25
	// MaxFailureRows bounds the failed-transaction feed.
	MaxFailureRows = 100
	// TopSchoolCount bounds the per-school breakdown.
	TopSchoolCount = 10
)

type Service interface {
	GetDashboard(ctx context.Context, filters DashboardFilters, fieldMasks []string) (DashboardMetrics, error)
	GetPendingPayments(ctx context.Context, query PendingPaymentsQuery, fieldMasks []string) (PendingPaymentsPage, error)
	ExportPendingPayments(ctx context.Context, query PendingPaymentsQuery, fieldMasks []string) ([]byte, error)
	GetTransactionFailures(ctx context.Context, query FailureQuery) ([]FailureRecord, error)
}

// Repository reads the billing dataset. It is the only layer that translates
// canonical predicates into storage queries; it never writes.
type Repository interface {
	BillTotals(ctx context.Context, preds []Predicate) (amountDue, amountPaid float64, err error)
	BreakdownBySchool(ctx context.Context, preds []Predicate, limit int) ([]SchoolBreakdown, error)
	BreakdownByPaymentMethod(ctx context.Context, preds []Predicate) ([]PaymentMethodBreakdown, error)
	BreakdownByGrade(ctx context.Context, preds []Predicate) ([]GradeBreakdown, error)
	CountBills(ctx context.Context, preds []Predicate) (int64, error)
	ListBills(ctx context.Context, preds []Predicate, offset, limit int) ([]BillStudentRow, error)
	RecentFailures(ctx context.Context, since *time.Time, gateways []string, limit int) ([]FailureRecord, error)
}

var ErrUnsupportedPredicate = errors.New("unsupported_predicate")
