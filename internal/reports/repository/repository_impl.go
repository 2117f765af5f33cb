package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	domain "github.com/edupay/feereport/internal/reports/domain"
	txndomain "github.com/edupay/feereport/internal/transaction/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

// columnSQL maps canonical filter columns to the bill/student join aliases.
// Unknown columns are rejected rather than interpolated.
var columnSQL = map[string]string{
	domain.ColSchoolID:      "student.school_id",
	domain.ColGrade:         "student.grade",
	domain.ColPaymentMethod: "bill.payment_method",
	domain.ColBillStatus:    "bill.status",
	domain.ColDueDate:       "bill.due_date",
}

const fromBillStudent = `FROM fee_bills bill JOIN students student ON student.id = bill.student_id`

// whereClause renders an AND-composed predicate set. Values always bind as
// placeholders; only the closed column and op sets reach the SQL text.
func whereClause(preds []domain.Predicate) (string, []any, error) {
	if len(preds) == 0 {
		return "", nil, nil
	}
	parts := make([]string, 0, len(preds))
	args := make([]any, 0, len(preds))
	for _, p := range preds {
		col, ok := columnSQL[p.Column]
		if !ok {
			return "", nil, fmt.Errorf("%w: column %q", domain.ErrUnsupportedPredicate, p.Column)
		}
		switch p.Op {
		case domain.OpEq, domain.OpGte, domain.OpLte:
			parts = append(parts, fmt.Sprintf("%s %s ?", col, p.Op))
		case domain.OpIn:
			parts = append(parts, fmt.Sprintf("%s IN ?", col))
		default:
			return "", nil, fmt.Errorf("%w: op %q", domain.ErrUnsupportedPredicate, p.Op)
		}
		args = append(args, p.Value)
	}
	return "WHERE " + strings.Join(parts, " AND "), args, nil
}

func (r *repo) BillTotals(ctx context.Context, preds []domain.Predicate) (float64, float64, error) {
	where, args, err := whereClause(preds)
	if err != nil {
		return 0, 0, err
	}
	var row struct {
		AmountDue  float64 `gorm:"column:amount_due"`
		AmountPaid float64 `gorm:"column:amount_paid"`
	}
	query := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(bill.amount_due), 0) AS amount_due,
			COALESCE(SUM(bill.amount_paid), 0) AS amount_paid
		%s
		%s`, fromBillStudent, where)
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.AmountDue, row.AmountPaid, nil
}

func (r *repo) BreakdownBySchool(ctx context.Context, preds []domain.Predicate, limit int) ([]domain.SchoolBreakdown, error) {
	where, args, err := whereClause(preds)
	if err != nil {
		return nil, err
	}
	var rows []domain.SchoolBreakdown
	query := fmt.Sprintf(`
		SELECT
			student.school_id AS school_id,
			student.school_name AS school_name,
			COUNT(bill.id) AS bill_count,
			COALESCE(SUM(bill.amount_due), 0) AS amount_due,
			COALESCE(SUM(bill.amount_paid), 0) AS amount_paid
		%s
		%s
		GROUP BY student.school_id, student.school_name
		ORDER BY SUM(bill.amount_due) DESC
		LIMIT ?`, fromBillStudent, where)
	args = append(args, limit)
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) BreakdownByPaymentMethod(ctx context.Context, preds []domain.Predicate) ([]domain.PaymentMethodBreakdown, error) {
	where, args, err := whereClause(preds)
	if err != nil {
		return nil, err
	}
	var rows []domain.PaymentMethodBreakdown
	query := fmt.Sprintf(`
		SELECT
			bill.payment_method AS payment_method,
			COUNT(bill.id) AS bill_count,
			COALESCE(SUM(bill.amount_due), 0) AS amount_due,
			COALESCE(SUM(bill.amount_paid), 0) AS amount_paid
		%s
		%s
		GROUP BY bill.payment_method
		ORDER BY bill.payment_method ASC`, fromBillStudent, where)
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) BreakdownByGrade(ctx context.Context, preds []domain.Predicate) ([]domain.GradeBreakdown, error) {
	where, args, err := whereClause(preds)
	if err != nil {
		return nil, err
	}
	var rows []domain.GradeBreakdown
	query := fmt.Sprintf(`
		SELECT
			student.grade AS grade,
			COUNT(bill.id) AS bill_count,
			COALESCE(SUM(bill.amount_due), 0) AS amount_due,
			COALESCE(SUM(bill.amount_paid), 0) AS amount_paid
		%s
		%s
		GROUP BY student.grade
		ORDER BY student.grade ASC`, fromBillStudent, where)
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) CountBills(ctx context.Context, preds []domain.Predicate) (int64, error) {
	where, args, err := whereClause(preds)
	if err != nil {
		return 0, err
	}
	var row struct {
		Total int64 `gorm:"column:total"`
	}
	query := fmt.Sprintf(`SELECT COUNT(bill.id) AS total %s %s`, fromBillStudent, where)
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&row).Error; err != nil {
		return 0, err
	}
	return row.Total, nil
}

func (r *repo) ListBills(ctx context.Context, preds []domain.Predicate, offset, limit int) ([]domain.BillStudentRow, error) {
	where, args, err := whereClause(preds)
	if err != nil {
		return nil, err
	}
	var rows []domain.BillStudentRow
	query := fmt.Sprintf(`
		SELECT
			bill.reference_code AS reference_code,
			bill.status AS status,
			bill.due_date AS due_date,
			bill.amount_due AS amount_due,
			bill.amount_paid AS amount_paid,
			bill.payment_method AS payment_method,
			student.first_name AS first_name,
			student.last_name AS last_name,
			student.guardian_email AS guardian_email,
			student.guardian_phone AS guardian_phone,
			student.grade AS grade,
			student.school_name AS school_name
		%s
		%s
		ORDER BY bill.due_date ASC, bill.id ASC
		LIMIT ? OFFSET ?`, fromBillStudent, where)
	args = append(args, limit, offset)
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type failureRow struct {
	ID               snowflake.ID      `gorm:"column:id"`
	Status           string            `gorm:"column:status"`
	PaymentGateway   string            `gorm:"column:payment_gateway"`
	PaymentReference string            `gorm:"column:payment_reference"`
	AttemptedAt      time.Time         `gorm:"column:attempted_at"`
	FailureReason    *string           `gorm:"column:failure_reason"`
	Metadata         datatypes.JSONMap `gorm:"column:metadata"`
	ReferenceCode    string            `gorm:"column:reference_code"`
	BillStatus       string            `gorm:"column:bill_status"`
	AmountDue        float64           `gorm:"column:amount_due"`
	AmountPaid       float64           `gorm:"column:amount_paid"`
	FirstName        string            `gorm:"column:first_name"`
	LastName         string            `gorm:"column:last_name"`
	Grade            string            `gorm:"column:grade"`
	SchoolName       string            `gorm:"column:school_name"`
}

func (r *repo) RecentFailures(ctx context.Context, since *time.Time, gateways []string, limit int) ([]domain.FailureRecord, error) {
	conds := []string{"txn.status = ?"}
	args := []any{txndomain.TransactionStatusFailed}
	if since != nil {
		conds = append(conds, "txn.attempted_at >= ?")
		args = append(args, *since)
	}
	if len(gateways) > 0 {
		conds = append(conds, "txn.payment_gateway IN ?")
		args = append(args, gateways)
	}
	args = append(args, limit)

	var rows []failureRow
	query := fmt.Sprintf(`
		SELECT
			txn.id AS id,
			txn.status AS status,
			txn.payment_gateway AS payment_gateway,
			txn.payment_reference AS payment_reference,
			txn.attempted_at AS attempted_at,
			txn.failure_reason AS failure_reason,
			txn.metadata AS metadata,
			bill.reference_code AS reference_code,
			bill.status AS bill_status,
			bill.amount_due AS amount_due,
			bill.amount_paid AS amount_paid,
			student.first_name AS first_name,
			student.last_name AS last_name,
			student.grade AS grade,
			student.school_name AS school_name
		FROM payment_transactions txn
		JOIN fee_bills bill ON bill.id = txn.fee_bill_id
		JOIN students student ON student.id = bill.student_id
		WHERE %s
		ORDER BY txn.attempted_at DESC
		LIMIT ?`, strings.Join(conds, " AND "))
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]domain.FailureRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.FailureRecord{
			ID:               row.ID.String(),
			Status:           row.Status,
			PaymentGateway:   row.PaymentGateway,
			PaymentReference: row.PaymentReference,
			AttemptedAt:      row.AttemptedAt,
			FailureReason:    row.FailureReason,
			Metadata:         row.Metadata,
			Bill: domain.FailureBill{
				ReferenceCode: row.ReferenceCode,
				Status:        row.BillStatus,
				AmountDue:     row.AmountDue,
				AmountPaid:    row.AmountPaid,
				Student: domain.FailureStudent{
					FirstName:  row.FirstName,
					LastName:   row.LastName,
					Grade:      row.Grade,
					SchoolName: row.SchoolName,
				},
			},
		})
	}
	return records, nil
}
