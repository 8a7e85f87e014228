package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"compromisos/internal/apperrors"
	"compromisos/internal/core/domain"
	portssvc "compromisos/internal/core/ports/services"
	"compromisos/internal/dto"
	"compromisos/internal/middleware"
	"github.com/gin-gonic/gin"
)

// dashboardHandler handles HTTP requests for the derived views: summaries,
// month totals and state counts. Everything here is read-only.
type dashboardHandler struct {
	dashboardService portssvc.DashboardSvcFacade
}

// newDashboardHandler creates a new dashboardHandler.
func newDashboardHandler(ds portssvc.DashboardSvcFacade) *dashboardHandler {
	return &dashboardHandler{
		dashboardService: ds,
	}
}

// RegisterDashboardRoutes registers all dashboard routes on the given group.
// Exported so tests can mount the routes against a mock service.
func RegisterDashboardRoutes(rg *gin.RouterGroup, dashboardService portssvc.DashboardSvcFacade) {
	h := newDashboardHandler(dashboardService)

	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/summaries", h.getSummaries)
		dashboard.GET("/totals", h.getTotalsRange)
		dashboard.GET("/totals/:period", h.getMonthTotals)
		dashboard.GET("/states", h.getStateCounts)
	}
}

// parseAsOf reads the optional asOf query parameter (RFC 3339). When absent
// the server's current time is the reference point.
func parseAsOf(c *gin.Context) (time.Time, bool) {
	raw := c.Query("asOf")
	if raw == "" {
		return time.Now(), true
	}
	asOf, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf, expected RFC 3339 timestamp"})
		return time.Time{}, false
	}
	return asOf, true
}

// getSummaries godoc
// @Summary Classified commitment summaries
// @Description Classifies every commitment of the user as of a point in time,
// @Description sorted for display and split into expenses and income
// @Tags dashboard
// @Produce  json
// @Param   asOf query string false "Reference time (RFC 3339), defaults to now"
// @Success 200 {object} dto.SummariesResponse
// @Failure 400 {object} map[string]string "Invalid asOf"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute summaries"
// @Security BearerAuth
// @Router /dashboard/summaries [get]
func (h *dashboardHandler) getSummaries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	summaries, err := h.dashboardService.GetSummaries(c.Request.Context(), userID, asOf)
	if err != nil {
		logger.Error("Failed to compute summaries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summaries"})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// getMonthTotals godoc
// @Summary Month totals
// @Description Aggregates one month across all the user's commitments
// @Tags dashboard
// @Produce  json
// @Param   period path string true "Month in YYYY-MM form"
// @Param   asOf query string false "Reference time (RFC 3339), defaults to now"
// @Success 200 {object} dto.MonthTotalsResponse
// @Failure 400 {object} map[string]string "Invalid period or asOf"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute totals"
// @Security BearerAuth
// @Router /dashboard/totals/{period} [get]
func (h *dashboardHandler) getMonthTotals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := domain.ParsePeriod(c.Param("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period, expected YYYY-MM"})
		return
	}

	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	totals, err := h.dashboardService.GetMonthTotals(c.Request.Context(), userID, period, asOf)
	if err != nil {
		logger.Error("Failed to compute month totals", slog.String("error", err.Error()), slog.String("period", period.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute totals"})
		return
	}

	c.JSON(http.StatusOK, dto.MonthTotalsResponse{Totals: *totals})
}

// getTotalsRange godoc
// @Summary Totals over a month range
// @Description Aggregates each month of [from, to] independently
// @Tags dashboard
// @Produce  json
// @Param   from query string true "First month in YYYY-MM form"
// @Param   to query string true "Last month in YYYY-MM form"
// @Param   asOf query string false "Reference time (RFC 3339), defaults to now"
// @Success 200 {object} dto.TotalsRangeResponse
// @Failure 400 {object} map[string]string "Invalid range or asOf"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute totals"
// @Security BearerAuth
// @Router /dashboard/totals [get]
func (h *dashboardHandler) getTotalsRange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.TotalsRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	from, err := domain.ParsePeriod(params.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from, expected YYYY-MM"})
		return
	}
	to, err := domain.ParsePeriod(params.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to, expected YYYY-MM"})
		return
	}

	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	months, err := h.dashboardService.GetTotalsRange(c.Request.Context(), userID, from, to, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to compute totals range", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute totals"})
		return
	}

	c.JSON(http.StatusOK, dto.TotalsRangeResponse{From: from, To: to, Months: months})
}

// getStateCounts godoc
// @Summary Commitment state counts
// @Description Reports how many commitments sit in each lifecycle state
// @Tags dashboard
// @Produce  json
// @Param   asOf query string false "Reference time (RFC 3339), defaults to now"
// @Success 200 {object} dto.StateCountsResponse
// @Failure 400 {object} map[string]string "Invalid asOf"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute state counts"
// @Security BearerAuth
// @Router /dashboard/states [get]
func (h *dashboardHandler) getStateCounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	counts, err := h.dashboardService.GetStateCounts(c.Request.Context(), userID, asOf)
	if err != nil {
		logger.Error("Failed to compute state counts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute state counts"})
		return
	}

	c.JSON(http.StatusOK, dto.StateCountsResponse{AsOf: asOf, Counts: counts})
}
