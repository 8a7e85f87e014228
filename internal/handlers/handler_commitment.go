package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"compromisos/internal/apperrors"
	"compromisos/internal/core/domain"
	portssvc "compromisos/internal/core/ports/services"
	"compromisos/internal/dto"
	"compromisos/internal/middleware"
	"github.com/gin-gonic/gin"
)

// commitmentHandler handles HTTP requests related to commitments, their term
// versions and their payment records.
type commitmentHandler struct {
	commitmentService portssvc.CommitmentSvcFacade
}

// newCommitmentHandler creates a new commitmentHandler.
func newCommitmentHandler(cs portssvc.CommitmentSvcFacade) *commitmentHandler {
	return &commitmentHandler{
		commitmentService: cs,
	}
}

// registerCommitmentRoutes registers all commitment-related routes.
func registerCommitmentRoutes(rg *gin.RouterGroup, commitmentService portssvc.CommitmentSvcFacade) {
	h := newCommitmentHandler(commitmentService)

	commitments := rg.Group("/commitments")
	{
		commitments.POST("", h.createCommitment)
		commitments.GET("", h.listCommitments)
		commitments.GET("/:id", h.getCommitment)
		commitments.PUT("/:id", h.updateCommitment)
		commitments.DELETE("/:id", h.deleteCommitment)

		// New conditions open a new term version; history is never edited.
		commitments.POST("/:id/terms", h.changeTerms)

		commitments.POST("/:id/payments", h.upsertPayment)
		commitments.GET("/:id/payments", h.listPayments)
		commitments.DELETE("/:id/payments/:paymentID", h.deletePayment)
	}

	// Cross-commitment payment reads live outside the /commitments group.
	payments := rg.Group("/payments")
	{
		payments.GET("", h.listPaymentsInRange)
	}
}

// respondCommitmentError maps the service error surface shared by all
// commitment endpoints onto HTTP statuses.
func respondCommitmentError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Commitment not found"})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// createCommitment godoc
// @Summary Create a new commitment
// @Description Creates a commitment together with its initial term (version 1)
// @Tags commitments
// @Accept  json
// @Produce  json
// @Param   commitment body dto.CreateCommitmentRequest true "Commitment and initial term"
// @Success 201 {object} dto.CommitmentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create commitment"
// @Security BearerAuth
// @Router /commitments [post]
func (h *commitmentHandler) createCommitment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	commitment, err := h.commitmentService.CreateCommitment(c.Request.Context(), userID, req)
	if err != nil {
		respondCommitmentError(c, logger, err, "create commitment")
		return
	}

	logger.Info("Commitment created", slog.String("commitment_id", commitment.CommitmentID), slog.String("name", commitment.Name))
	c.JSON(http.StatusCreated, dto.ToCommitmentResponse(commitment))
}

// listCommitments godoc
// @Summary List commitments
// @Description Retrieves a page of the user's commitments with their terms
// @Tags commitments
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListCommitmentsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters or cursor"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list commitments"
// @Security BearerAuth
// @Router /commitments [get]
func (h *commitmentHandler) listCommitments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListCommitmentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	commitments, nextToken, err := h.commitmentService.ListCommitments(c.Request.Context(), userID, params.Limit, params.NextToken)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest {
			c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
			return
		}
		logger.Error("Failed to list commitments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list commitments"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListCommitmentsResponse(commitments, nextToken))
}

// getCommitment godoc
// @Summary Get a commitment by ID
// @Description Retrieves one commitment with all its term versions
// @Tags commitments
// @Produce  json
// @Param   id path string true "Commitment ID"
// @Success 200 {object} dto.CommitmentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Commitment not found"
// @Failure 500 {object} map[string]string "Failed to retrieve commitment"
// @Security BearerAuth
// @Router /commitments/{id} [get]
func (h *commitmentHandler) getCommitment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	commitmentID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	commitment, err := h.commitmentService.GetCommitmentByID(c.Request.Context(), userID, commitmentID)
	if err != nil {
		respondCommitmentError(c, logger, err, "retrieve commitment")
		return
	}

	c.JSON(http.StatusOK, dto.ToCommitmentResponse(commitment))
}

// updateCommitment godoc
// @Summary Update a commitment
// @Description Updates descriptive fields; amounts and schedule belong to terms
// @Tags commitments
// @Accept  json
// @Produce  json
// @Param   id path string true "Commitment ID"
// @Param   commitment body dto.UpdateCommitmentRequest true "Fields to update"
// @Success 200 {object} dto.CommitmentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Commitment not found"
// @Failure 500 {object} map[string]string "Failed to update commitment"
// @Security BearerAuth
// @Router /commitments/{id} [put]
func (h *commitmentHandler) updateCommitment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	commitmentID := c.Param("id")

	var req dto.UpdateCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	commitment, err := h.commitmentService.UpdateCommitment(c.Request.Context(), userID, commitmentID, req)
	if err != nil {
		respondCommitmentError(c, logger, err, "update commitment")
		return
	}

	logger.Info("Commitment updated", slog.String("commitment_id", commitmentID))
	c.JSON(http.StatusOK, dto.ToCommitmentResponse(commitment))
}

// changeTerms godoc
// @Summary Register new conditions for a commitment
// @Description Closes the open term the month before the new start and opens
// @Description a new term version. Past periods keep the conditions they had.
// @Tags commitments
// @Accept  json
// @Produce  json
// @Param   id path string true "Commitment ID"
// @Param   terms body dto.ChangeTermsRequest true "New conditions"
// @Success 200 {object} dto.CommitmentResponse
// @Failure 400 {object} map[string]string "Invalid input or start period not after current term"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Commitment not found"
// @Failure 500 {object} map[string]string "Failed to change terms"
// @Security BearerAuth
// @Router /commitments/{id}/terms [post]
func (h *commitmentHandler) changeTerms(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	commitmentID := c.Param("id")

	var req dto.ChangeTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	commitment, err := h.commitmentService.ChangeTerms(c.Request.Context(), userID, commitmentID, req)
	if err != nil {
		respondCommitmentError(c, logger, err, "change terms")
		return
	}

	logger.Info("Commitment terms changed", slog.String("commitment_id", commitmentID), slog.String("effective_from", req.EffectiveFrom))
	c.JSON(http.StatusOK, dto.ToCommitmentResponse(commitment))
}

// deleteCommitment godoc
// @Summary Delete a commitment
// @Description Marks a commitment as deleted (soft delete)
// @Tags commitments
// @Produce  json
// @Param   id path string true "Commitment ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Commitment not found"
// @Failure 500 {object} map[string]string "Failed to delete commitment"
// @Security BearerAuth
// @Router /commitments/{id} [delete]
func (h *commitmentHandler) deleteCommitment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	commitmentID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.commitmentService.DeleteCommitment(c.Request.Context(), userID, commitmentID); err != nil {
		respondCommitmentError(c, logger, err, "delete commitment")
		return
	}

	logger.Info("Commitment deleted", slog.String("commitment_id", commitmentID))
	c.Status(http.StatusNoContent)
}

// upsertPayment godoc
// @Summary Record or correct a payment
// @Description Records the payment of one period. Posting the same period
// @Description again replaces the previous record.
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   id path string true "Commitment ID"
// @Param   payment body dto.UpsertPaymentRequest true "Payment details"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input or no term covers the period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Commitment not found"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /commitments/{id}/payments [post]
func (h *commitmentHandler) upsertPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	commitmentID := c.Param("id")

	var req dto.UpsertPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, err := h.commitmentService.UpsertPayment(c.Request.Context(), userID, commitmentID, req)
	if err != nil {
		respondCommitmentError(c, logger, err, "record payment")
		return
	}

	logger.Info("Payment recorded", slog.String("commitment_id", commitmentID), slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// listPayments godoc
// @Summary List payments of a commitment
// @Description Retrieves every payment record of a commitment, ordered by period
// @Tags payments
// @Produce  json
// @Param   id path string true "Commitment ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Commitment not found"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Security BearerAuth
// @Router /commitments/{id}/payments [get]
func (h *commitmentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	commitmentID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payments, err := h.commitmentService.ListPayments(c.Request.Context(), userID, commitmentID)
	if err != nil {
		respondCommitmentError(c, logger, err, "list payments")
		return
	}

	c.JSON(http.StatusOK, dto.ToListPaymentResponse(payments))
}

// listPaymentsInRange godoc
// @Summary List payments across commitments by period range
// @Description Retrieves the user's payment records of every commitment whose
// @Description period falls within [from, to].
// @Tags payments
// @Produce  json
// @Param   from query string true "Start period (YYYY-MM)"
// @Param   to query string true "End period (YYYY-MM)"
// @Success 200 {array} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid or reversed range"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Security BearerAuth
// @Router /payments [get]
func (h *commitmentHandler) listPaymentsInRange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.PaymentRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid range parameters: " + err.Error()})
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

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payments, err := h.commitmentService.ListPaymentsInRange(c.Request.Context(), userID, from, to)
	if err != nil {
		respondCommitmentError(c, logger, err, "list payments in range")
		return
	}

	c.JSON(http.StatusOK, dto.ToListPaymentResponse(payments))
}

// deletePayment godoc
// @Summary Delete a payment record
// @Description Removes one payment record; the period reads as unpaid again
// @Tags payments
// @Produce  json
// @Param   id path string true "Commitment ID"
// @Param   paymentID path string true "Payment ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 500 {object} map[string]string "Failed to delete payment"
// @Security BearerAuth
// @Router /commitments/{id}/payments/{paymentID} [delete]
func (h *commitmentHandler) deletePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	commitmentID := c.Param("id")
	paymentID := c.Param("paymentID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.commitmentService.DeletePayment(c.Request.Context(), userID, commitmentID, paymentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		respondCommitmentError(c, logger, err, "delete payment")
		return
	}

	logger.Info("Payment deleted", slog.String("commitment_id", commitmentID), slog.String("payment_id", paymentID))
	c.Status(http.StatusNoContent)
}
