package domain

import (
	"time"

	feebilldomain "github.com/edupay/feereport/internal/feebill/domain"
)

// Predicate ops. The set is closed; the repository refuses nothing because
// only the builders below construct predicates.
const (
	OpEq  = "="
	OpGte = ">="
	OpLte = "<="
	OpIn  = "IN"
)

// Canonical columns over the bill/student join. The storage layer translates
// these to its native query form.
const (
	ColSchoolID      = "student.school_id"
	ColGrade         = "student.grade"
	ColPaymentMethod = "bill.payment_method"
	ColBillStatus    = "bill.status"
	ColDueDate       = "bill.due_date"
)

// Predicate is one AND-composed condition of a canonical filter set. The
// value type is serializable so a filter set can cross process boundaries.
type Predicate struct {
	Column string `json:"column"`
	Op     string `json:"op"`
	Value  any    `json:"value"`
}

// DashboardFilters is the optional filter bag for dashboard aggregation.
// Absent fields impose no constraint.
type DashboardFilters struct {
	SchoolID      string
	Grade         string
	PaymentMethod string
	Status        string
	From          *time.Time
	To            *time.Time
}

// Predicates builds the canonical predicate set. Supplied filters AND
// together; date bounds are inclusive on the due date.
func (f DashboardFilters) Predicates() []Predicate {
	preds := make([]Predicate, 0, 6)
	if f.SchoolID != "" {
		preds = append(preds, Predicate{Column: ColSchoolID, Op: OpEq, Value: f.SchoolID})
	}
	if f.Grade != "" {
		preds = append(preds, Predicate{Column: ColGrade, Op: OpEq, Value: f.Grade})
	}
	if f.PaymentMethod != "" {
		preds = append(preds, Predicate{Column: ColPaymentMethod, Op: OpEq, Value: f.PaymentMethod})
	}
	if f.Status != "" {
		preds = append(preds, Predicate{Column: ColBillStatus, Op: OpEq, Value: f.Status})
	}
	if f.From != nil {
		preds = append(preds, Predicate{Column: ColDueDate, Op: OpGte, Value: *f.From})
	}
	if f.To != nil {
		preds = append(preds, Predicate{Column: ColDueDate, Op: OpLte, Value: *f.To})
	}
	return preds
}

// PendingPaymentsQuery filters and pages the outstanding-bill listing.
type PendingPaymentsQuery struct {
	Page          int
	Limit         int
	PaymentMethod string
	Status        string
}

// Predicates builds the optional equality filters of the listing. The
// outstanding-status base predicate comes from PendingBasePredicates.
func (q PendingPaymentsQuery) Predicates() []Predicate {
	preds := make([]Predicate, 0, 2)
	if q.PaymentMethod != "" {
		preds = append(preds, Predicate{Column: ColPaymentMethod, Op: OpEq, Value: q.PaymentMethod})
	}
	if q.Status != "" {
		preds = append(preds, Predicate{Column: ColBillStatus, Op: OpEq, Value: q.Status})
	}
	return preds
}

// PendingBasePredicates restricts to outstanding bills.
func PendingBasePredicates() []Predicate {
	return []Predicate{{
		Column: ColBillStatus,
		Op:     OpIn,
		Value:  append([]string(nil), feebilldomain.OutstandingStatuses...),
	}}
}
