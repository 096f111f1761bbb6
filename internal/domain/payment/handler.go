package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/pkg/response"
	"climatejobs/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetWallet handles GET /api/v1/payments/wallet
func (h *Handler) GetWallet(c *gin.Context) {
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	w, err := h.service.Wallet(c.Request.Context(), actor.UserID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, w)
}

// PendingApprovals handles GET /api/v1/payments/pending-approvals
func (h *Handler) PendingApprovals(c *gin.Context) {
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	rows, err := h.service.PendingApprovals(c.Request.Context(), actor)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payments": rows})
}

// Approve handles PATCH /api/v1/payments/:id/approve
// @Summary Release a payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400,403,404,409 {object} map[string]interface{}
// @Router /payments/{id}/approve [patch]
func (h *Handler) Approve(c *gin.Context) {
	paymentID := c.Param("id")
	if err := validator.UUIDParam("payment ID", paymentID); err != nil {
		response.Fail(c, err)
		return
	}
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	approval, err := h.service.Approve(c.Request.Context(), actor, paymentID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, approval, "Payment approved successfully")
}
