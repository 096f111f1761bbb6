package application

import (
	"github.com/gin-gonic/gin"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/middleware"
)

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	{
		jobs.GET("/my-applications", h.ListMine)
		jobs.POST("/:id/apply", middleware.Require(auth.PermApplyJobs), h.Apply)
		jobs.GET("/:id/applications", h.ListForJob)
	}

	apps := r.Group("/applications")
	{
		apps.PATCH("/:id/accept", h.Accept)
		apps.PATCH("/:id/reject", h.Reject)
	}
}
