package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Stats godoc
// @Summary Dashboard statistics
// @Description Government view for job creators and admins, worker view otherwise.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param user_type query string false "Set to government to request the government view"
// @Success 200 {object} map[string]interface{}
// @Router /dashboard/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), actor, c.Query("user_type"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// ClimateImpact handles GET /api/v1/dashboard/climate-impact
func (h *Handler) ClimateImpact(c *gin.Context) {
	impact, err := h.service.ClimateImpact(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, impact)
}
