package server

import (
	"net/http"

	reportsdomain "github.com/edupay/feereport/internal/reports/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetDashboard(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	from, err := parseOptionalTime(c.Query("from"), false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_time", "invalid time"))
		return
	}
	to, err := parseOptionalTime(c.Query("to"), true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_time", "invalid time"))
		return
	}

	filters := reportsdomain.DashboardFilters{
		SchoolID:      c.Query("schoolId"),
		Grade:         c.Query("grade"),
		PaymentMethod: c.Query("paymentMethod"),
		Status:        c.Query("status"),
		From:          from,
		To:            to,
	}

	metrics, err := s.reportsSvc.GetDashboard(c.Request.Context(), filters, claims.FieldMasks)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (s *Server) GetPendingPayments(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	query, err := pendingQueryFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	page, err := s.reportsSvc.GetPendingPayments(c.Request.Context(), query, claims.FieldMasks)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (s *Server) ExportPendingPayments(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	query, err := pendingQueryFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	body, err := s.reportsSvc.ExportPendingPayments(c.Request.Context(), query, claims.FieldMasks)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="pending-payments.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

func (s *Server) GetTransactionFailures(c *gin.Context) {
	lastHours, err := parseOptionalInt(c.Query("lastHours"))
	if err != nil {
		AbortWithError(c, newValidationError("lastHours", "invalid_number", "invalid number"))
		return
	}

	query := reportsdomain.FailureQuery{
		Gateways: parseListParam(c.QueryArray("gateways")),
	}
	if lastHours != nil {
		query.LastHours = *lastHours
	}

	failures, err := s.reportsSvc.GetTransactionFailures(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, failures)
}

func pendingQueryFromRequest(c *gin.Context) (reportsdomain.PendingPaymentsQuery, error) {
	page, err := parseOptionalInt(c.Query("page"))
	if err != nil {
		return reportsdomain.PendingPaymentsQuery{}, newValidationError("page", "invalid_number", "invalid number")
	}
	limit, err := parseOptionalInt(c.Query("limit"))
	if err != nil {
		return reportsdomain.PendingPaymentsQuery{}, newValidationError("limit", "invalid_number", "invalid number")
	}

	query := reportsdomain.PendingPaymentsQuery{
		PaymentMethod: c.Query("paymentMethod"),
		Status:        c.Query("status"),
	}
	if page != nil {
		query.Page = *page
	}
	if limit != nil {
		query.Limit = *limit
	}
	return query, nil
}
