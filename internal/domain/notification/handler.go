package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/pkg/apperr"
	"climatejobs/internal/pkg/pagination"
	"climatejobs/internal/pkg/response"
	"climatejobs/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Send godoc
// @Summary Send a notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendRequest true "Notification"
// @Success 201 {object} map[string]interface{}
// @Failure 400,403,404 {object} map[string]interface{}
// @Router /notifications/send [post]
func (h *Handler) Send(c *gin.Context) {
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, apperr.Invalid, "Invalid request body")
		return
	}

	n, err := h.service.Send(c.Request.Context(), actor, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, gin.H{"notification_id": n.ID}, "Notification sent successfully")
}

// ListMine godoc
// @Summary List my notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param unread_only query bool false "Only unread notifications"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /notifications/my-notifications [get]
func (h *Handler) ListMine(c *gin.Context) {
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	unreadOnly, _ := strconv.ParseBool(c.Query("unread_only"))
	p := pagination.FromQuery(c)

	list, total, err := h.service.ListMine(c.Request.Context(), actor.UserID, unreadOnly, p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Paginated(c, list, p, total)
}

// MarkRead handles PATCH /api/v1/notifications/:id/read
func (h *Handler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if err := validator.UUIDParam("notification ID", id); err != nil {
		response.Fail(c, err)
		return
	}
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	n, err := h.service.MarkRead(c.Request.Context(), actor, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, n, "Notification marked as read")
}
