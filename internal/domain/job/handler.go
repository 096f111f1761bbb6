package job

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

// Create handles POST /api/v1/jobs/create
// @Summary Create job
// @Tags Jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Job"
// @Success 201 {object} map[string]interface{}
// @Failure 400,403 {object} map[string]interface{}
// @Router /jobs/create [post]
func (h *Handler) Create(c *gin.Context) {
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperr.Invalid), "Invalid request body")
		return
	}

	j, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, j, "Job created successfully")
}

// ListMine handles GET /api/v1/jobs/my-jobs
func (h *Handler) ListMine(c *gin.Context) {
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	p := pagination.FromQuery(c)
	items, total, err := h.service.ListMine(c.Request.Context(), actor, Status(c.Query("status")), p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Paginated(c, items, p, total)
}

// Discover handles GET /api/v1/jobs/discover?lat=&lng=&radius=&category=
func (h *Handler) Discover(c *gin.Context) {
	q := DiscoverQuery{Category: Category(c.Query("category"))}

	var err error
	if q.Lat, err = optionalFloat(c, "lat"); err != nil {
		response.Fail(c, err)
		return
	}
	if q.Lng, err = optionalFloat(c, "lng"); err != nil {
		response.Fail(c, err)
		return
	}
	radius, err := optionalFloat(c, "radius")
	if err != nil {
		response.Fail(c, err)
		return
	}
	if radius != nil {
		if *radius <= 0 {
			response.Fail(c, ErrInvalidRadius)
			return
		}
		q.RadiusKM = *radius
	}

	p := pagination.FromQuery(c)
	items, total, err := h.service.Discover(c.Request.Context(), q, p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Paginated(c, items, p, total)
}

// Get handles GET /api/v1/jobs/:id
func (h *Handler) Get(c *gin.Context) {
	jobID := c.Param("id")
	if err := validator.UUIDParam("job ID", jobID); err != nil {
		response.Fail(c, err)
		return
	}

	detail, err := h.service.Get(c.Request.Context(), jobID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// Update handles PATCH /api/v1/jobs/:id
func (h *Handler) Update(c *gin.Context) {
	jobID := c.Param("id")
	if err := validator.UUIDParam("job ID", jobID); err != nil {
		response.Fail(c, err)
		return
	}
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperr.Invalid), "Invalid request body")
		return
	}

	j, err := h.service.Update(c.Request.Context(), actor, jobID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, gin.H{"updated_job": j}, "Job updated successfully")
}

// ForceStatus handles PATCH /api/v1/jobs/:id/status (admin)
func (h *Handler) ForceStatus(c *gin.Context) {
	jobID := c.Param("id")
	if err := validator.UUIDParam("job ID", jobID); err != nil {
		response.Fail(c, err)
		return
	}
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	var req ForceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperr.Invalid), "Invalid request body")
		return
	}

	j, err := h.service.ForceStatus(c.Request.Context(), actor, jobID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, j, "Job status overridden")
}

// Delete handles DELETE /api/v1/jobs/:id
func (h *Handler) Delete(c *gin.Context) {
	jobID := c.Param("id")
	if err := validator.UUIDParam("job ID", jobID); err != nil {
		response.Fail(c, err)
		return
	}
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, jobID); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, nil, "Job deleted successfully")
}

func optionalFloat(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.New(apperr.Invalid, "Invalid "+name)
	}
	return &v, nil
}
