package payment

import (
	"github.com/gin-gonic/gin"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/middleware"
)

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.GET("/wallet", h.GetWallet)
		payments.GET("/pending-approvals", middleware.Require(auth.PermManageJobs), h.PendingApprovals)
		payments.PATCH("/:id/approve", h.Approve)
	}
}
