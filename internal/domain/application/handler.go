package application

import (
	"errors"
	"io"
	"net/http"

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

// Apply handles POST /api/v1/jobs/:id/apply
// @Summary Apply for a job
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 201 {object} map[string]interface{}
// @Failure 400,404,409 {object} map[string]interface{}
// @Router /jobs/{id}/apply [post]
func (h *Handler) Apply(c *gin.Context) {
	jobID := c.Param("id")
	if err := validator.UUIDParam("job ID", jobID); err != nil {
		response.Fail(c, err)
		return
	}
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	// the body is optional
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, string(apperr.Invalid), "Invalid request body")
		return
	}

	app, err := h.service.Apply(c.Request.Context(), actor, jobID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, gin.H{"application_id": app.ID}, "Application submitted successfully")
}

// ListForJob handles GET /api/v1/jobs/:id/applications
func (h *Handler) ListForJob(c *gin.Context) {
	jobID := c.Param("id")
	if err := validator.UUIDParam("job ID", jobID); err != nil {
		response.Fail(c, err)
		return
	}
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	apps, err := h.service.ListForJob(c.Request.Context(), actor, jobID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"applications": apps})
}

// ListMine handles GET /api/v1/jobs/my-applications?filter=applied|ongoing|completed
func (h *Handler) ListMine(c *gin.Context) {
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	p := pagination.FromQuery(c)
	apps, total, err := h.service.ListMine(c.Request.Context(), actor, Filter(c.Query("filter")), p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Paginated(c, apps, p, total)
}

// Accept handles PATCH /api/v1/applications/:id/accept
func (h *Handler) Accept(c *gin.Context) {
	appID := c.Param("id")
	if err := validator.UUIDParam("application ID", appID); err != nil {
		response.Fail(c, err)
		return
	}
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	decision, err := h.service.Accept(c.Request.Context(), actor, appID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, decision, "Application accepted successfully")
}

// Reject handles PATCH /api/v1/applications/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	appID := c.Param("id")
	if err := validator.UUIDParam("application ID", appID); err != nil {
		response.Fail(c, err)
		return
	}
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	decision, err := h.service.Reject(c.Request.Context(), actor, appID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, decision, "Application rejected successfully")
}
