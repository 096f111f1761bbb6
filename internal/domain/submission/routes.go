package submission

import (
	"github.com/gin-gonic/gin"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/middleware"
)

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	submissions := r.Group("/submissions")
	{
		submissions.POST("/create", h.Create)
		submissions.GET("/pending", middleware.Require(auth.PermManageJobs), h.ListPending)
		submissions.GET("/:id", h.Get)
		submissions.PATCH("/:id/verify", h.Verify)
	}
}
