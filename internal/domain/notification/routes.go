package notification

import (
	"github.com/gin-gonic/gin"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/middleware"
)

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.POST("/send", middleware.Require(auth.PermSendNotifications), h.Send)
		notifications.GET("/my-notifications", h.ListMine)
		notifications.PATCH("/:id/read", h.MarkRead)
	}
}
