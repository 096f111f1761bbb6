package job

import (
	"github.com/gin-gonic/gin"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/middleware"
)

// RegisterRoutes mounts job routes on an authenticated group. Ownership is
// checked by the service against the loaded job.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	{
		jobs.POST("/create", middleware.Require(auth.PermManageJobs), h.Create)
		jobs.GET("/my-jobs", h.ListMine)
		jobs.GET("/discover", h.Discover)
		jobs.GET("/:id", h.Get)
		jobs.PATCH("/:id", h.Update)
		jobs.PATCH("/:id/status", middleware.Require(auth.PermForceJobStatus), h.ForceStatus)
		jobs.DELETE("/:id", h.Delete)
	}
}
