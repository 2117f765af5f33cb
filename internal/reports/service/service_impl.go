package service

import (
	"context"
	"math"
	"time"

	"github.com/edupay/feereport/internal/clock"
	"github.com/edupay/feereport/internal/guard"
	domain "github.com/edupay/feereport/internal/reports/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("reports.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) GetDashboard(ctx context.Context, filters domain.DashboardFilters, fieldMasks []string) (domain.DashboardMetrics, error) {
	preds := filters.Predicates()

	due, paid, err := s.repo.BillTotals(ctx, preds)
	if err != nil {
		return domain.DashboardMetrics{}, err
	}

	bySchool, err := s.repo.BreakdownBySchool(ctx, preds, domain.TopSchoolCount)
	if err != nil {
		return domain.DashboardMetrics{}, err
	}
	byMethod, err := s.repo.BreakdownByPaymentMethod(ctx, preds)
	if err != nil {
		return domain.DashboardMetrics{}, err
	}
	byGrade, err := s.repo.BreakdownByGrade(ctx, preds)
	if err != nil {
		return domain.DashboardMetrics{}, err
	}

	samplePreds := append(append([]domain.Predicate(nil), preds...), domain.PendingBasePredicates()...)
	sampleRows, err := s.repo.ListBills(ctx, samplePreds, 0, domain.MaxOutstandingSamples)
	if err != nil {
		return domain.DashboardMetrics{}, err
	}

	samples := make([]guard.Record, 0, len(sampleRows))
	for _, row := range sampleRows {
		samples = append(samples, flattenOutstanding(row))
	}

	rate := float64(0)
	if due > 0 {
		rate = round4(paid / due)
	}

	return domain.DashboardMetrics{
		Totals: domain.Totals{
			AmountDue:       round2(due),
			AmountCollected: round2(paid),
			Outstanding:     round2(due - paid),
			CollectionRate:  rate,
		},
		Breakdowns: domain.Breakdowns{
			BySchool:        roundSchoolRows(bySchool),
			ByPaymentMethod: roundMethodRows(byMethod),
			ByGrade:         roundGradeRows(byGrade),
		},
		OutstandingSamples: guard.Mask(samples, fieldMasks),
		GeneratedAt:        s.clock.Now().UTC(),
	}, nil
}

func (s *Service) GetPendingPayments(ctx context.Context, query domain.PendingPaymentsQuery, fieldMasks []string) (domain.PendingPaymentsPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = domain.DefaultPageLimit
	}

	preds := append(domain.PendingBasePredicates(), query.Predicates()...)

	total, err := s.repo.CountBills(ctx, preds)
	if err != nil {
		return domain.PendingPaymentsPage{}, err
	}
	rows, err := s.repo.ListBills(ctx, preds, (page-1)*limit, limit)
	if err != nil {
		return domain.PendingPaymentsPage{}, err
	}

	records := make([]guard.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, flattenPending(row))
	}

	return domain.PendingPaymentsPage{
		Total: total,
		Page:  page,
		Limit: limit,
		Data:  guard.Mask(records, fieldMasks),
	}, nil
}

func (s *Service) ExportPendingPayments(ctx context.Context, query domain.PendingPaymentsQuery, fieldMasks []string) ([]byte, error) {
	preds := append(domain.PendingBasePredicates(), query.Predicates()...)

	rows, err := s.repo.ListBills(ctx, preds, 0, capExportLimit(query.Limit))
	if err != nil {
		return nil, err
	}

	records := make([]guard.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, flattenPending(row))
	}

	return encodeCSV(guard.Mask(records, fieldMasks))
}

func (s *Service) GetTransactionFailures(ctx context.Context, query domain.FailureQuery) ([]domain.FailureRecord, error) {
	var since *time.Time
	if query.LastHours > 0 {
		cutoff := s.clock.Now().UTC().Add(-time.Duration(query.LastHours) * time.Hour)
		since = &cutoff
	}

	records, err := s.repo.RecentFailures(ctx, since, query.Gateways, domain.MaxFailureRows)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.FailureRecord{}
	}
	return records, nil
}

// capExportLimit bounds export size. Zero and negative inputs take the
// default; nothing exceeds the hard ceiling.
func capExportLimit(limit int) int {
	if limit < 1 {
		limit = domain.DefaultExportLimit
	}
	if limit > domain.MaxExportRows {
		limit = domain.MaxExportRows
	}
	return limit
}

// flattenOutstanding shapes a dashboard sample record. The dashboard sample
// carries no payment method.
func flattenOutstanding(row domain.BillStudentRow) guard.Record {
	return guard.Record{
		"referenceCode": row.ReferenceCode,
		"status":        row.Status,
		"dueDate":       row.DueDate,
		"amountDue":     row.AmountDue,
		"amountPaid":    row.AmountPaid,
		"student": map[string]any{
			"firstName":     row.FirstName,
			"lastName":      row.LastName,
			"guardianEmail": row.GuardianEmail,
			"guardianPhone": row.GuardianPhone,
			"grade":         row.Grade,
			"schoolName":    row.SchoolName,
		},
	}
}

func flattenPending(row domain.BillStudentRow) guard.Record {
	record := flattenOutstanding(row)
	record["paymentMethod"] = row.PaymentMethod
	return record
}

func roundSchoolRows(rows []domain.SchoolBreakdown) []domain.SchoolBreakdown {
	out := make([]domain.SchoolBreakdown, len(rows))
	for i, row := range rows {
		row.AmountDue = round2(row.AmountDue)
		row.AmountPaid = round2(row.AmountPaid)
		out[i] = row
	}
	return out
}

func roundMethodRows(rows []domain.PaymentMethodBreakdown) []domain.PaymentMethodBreakdown {
	out := make([]domain.PaymentMethodBreakdown, len(rows))
	for i, row := range rows {
		row.AmountDue = round2(row.AmountDue)
		row.AmountPaid = round2(row.AmountPaid)
		out[i] = row
	}
	return out
}

func roundGradeRows(rows []domain.GradeBreakdown) []domain.GradeBreakdown {
	out := make([]domain.GradeBreakdown, len(rows))
	for i, row := range rows {
		row.AmountDue = round2(row.AmountDue)
		row.AmountPaid = round2(row.AmountPaid)
		out[i] = row
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
