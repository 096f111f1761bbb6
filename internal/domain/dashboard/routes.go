package dashboard

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("/stats", h.Stats)
		dashboard.GET("/climate-impact", h.ClimateImpact)
	}
}
