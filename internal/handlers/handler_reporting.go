package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/quollbooks/quollbooks/internal/apperrors"
	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
	"github.com/quollbooks/quollbooks/internal/dto"
)

// reportingHandler handles the financial report routes.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/profit-loss", h.profitLoss)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/customer-aging", h.customerAging)
		reports.GET("/bas", h.bas)
	}
}

// queryDate parses a required yyyy-mm-dd query parameter.
func queryDate(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: missing %s query parameter", apperrors.ErrValidation, name)
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid %s date %q", apperrors.ErrValidation, name, raw)
	}
	return parsed, nil
}

// queryDateDefault parses an optional yyyy-mm-dd query parameter, falling back
// to the given default when absent.
func queryDateDefault(c *gin.Context, name string, fallback time.Time) (time.Time, error) {
	if c.Query(name) == "" {
		return fallback, nil
	}
	return queryDate(c, name)
}

// queryDecimal parses an optional decimal query parameter, defaulting to zero.
func queryDecimal(c *gin.Context, name string) (decimal.Decimal, error) {
	raw := c.Query(name)
	if raw == "" {
		return decimal.Zero, nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid %s amount %q", apperrors.ErrValidation, name, raw)
	}
	return parsed, nil
}

func (h *reportingHandler) profitLoss(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	from, err := queryDate(c, "from")
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := queryDate(c, "to")
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.reportingService.ProfitLoss(c.Request.Context(), orgID(c), from, to, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(report, ""))
}

func (h *reportingHandler) balanceSheet(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	asOf, err := queryDateDefault(c, "asOf", time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), orgID(c), asOf, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(report, ""))
}

func (h *reportingHandler) customerAging(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	asOf, err := queryDateDefault(c, "asOf", time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.reportingService.CustomerAging(c.Request.Context(), orgID(c), asOf, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(report, ""))
}

func (h *reportingHandler) bas(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	from, err := queryDate(c, "from")
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := queryDate(c, "to")
	if err != nil {
		respondError(c, err)
		return
	}
	adjustments, err := queryDecimal(c, "adjustments")
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.reportingService.BAS(c.Request.Context(), orgID(c), from, to, adjustments, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(report, ""))
}
