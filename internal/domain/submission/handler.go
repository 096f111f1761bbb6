package submission

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/pkg/apperr"
	"climatejobs/internal/pkg/response"
	"climatejobs/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary Submit proof of completion
// @Description Upload before and after photos (JPEG, PNG or WebP, 5 MB each) for an assigned job.
// @Tags Submissions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param job_id formData string true "Job ID"
// @Param before_photo formData file true "Before photo"
// @Param after_photo formData file true "After photo"
// @Param notes formData string false "Notes"
// @Param lat formData number false "Latitude"
// @Param lng formData number false "Longitude"
// @Success 201 {object} map[string]interface{}
// @Failure 400,403,404,409,413 {object} map[string]interface{}
// @Router /submissions/create [post]
func (h *Handler) Create(c *gin.Context) {
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		response.Abort(c, apperr.Invalid, "Content-Type must be multipart/form-data")
		return
	}

	req := CreateRequest{
		JobID: strings.TrimSpace(c.PostForm("job_id")),
		Notes: c.PostForm("notes"),
	}
	if err := validator.UUIDParam("job_id", req.JobID); err != nil {
		response.Fail(c, err)
		return
	}

	var err error
	if req.Lat, err = formFloat(c, "lat"); err != nil {
		response.Fail(c, err)
		return
	}
	if req.Lng, err = formFloat(c, "lng"); err != nil {
		response.Fail(c, err)
		return
	}

	before, err := readPhoto(c, "before_photo")
	if err != nil {
		response.Fail(c, err)
		return
	}
	after, err := readPhoto(c, "after_photo")
	if err != nil {
		response.Fail(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), actor, req, before, after)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, created, "Submission created successfully")
}

// ListPending handles GET /api/v1/submissions/pending
func (h *Handler) ListPending(c *gin.Context) {
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	rows, err := h.service.ListPending(c.Request.Context(), actor)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submissions": rows})
}

// Get handles GET /api/v1/submissions/:id
func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := validator.UUIDParam("submission ID", id); err != nil {
		response.Fail(c, err)
		return
	}
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	detail, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// Verify godoc
// @Summary Approve or reject a submission
// @Tags Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param body body VerifyRequest true "Decision"
// @Success 200 {object} map[string]interface{}
// @Failure 400,403,404,409 {object} map[string]interface{}
// @Router /submissions/{id}/verify [patch]
func (h *Handler) Verify(c *gin.Context) {
	id := c.Param("id")
	if err := validator.UUIDParam("submission ID", id); err != nil {
		response.Fail(c, err)
		return
	}
	actor, ok := auth.RequireIdentity(c)
	if !ok {
		return
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, apperr.Invalid, "Invalid request body")
		return
	}

	result, err := h.service.Verify(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, result, fmt.Sprintf("Submission %s successfully", req.Status))
}

func readPhoto(c *gin.Context, field string) (Photo, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return Photo{}, ErrPhotoRequired
		}
		return Photo{}, apperr.Wrap(apperr.Invalid, "Invalid multipart form", err)
	}
	if fh.Size > MaxPhotoSize {
		return Photo{}, ErrPhotoTooLarge
	}
	return loadPhoto(fh)
}

func loadPhoto(fh *multipart.FileHeader) (Photo, error) {
	f, err := fh.Open()
	if err != nil {
		return Photo{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	// one byte past the limit is enough to detect oversize
	data, err := io.ReadAll(io.LimitReader(f, MaxPhotoSize+1))
	if err != nil {
		return Photo{}, fmt.Errorf("failed to read file: %w", err)
	}
	return Photo{Filename: fh.Filename, Data: data}, nil
}

func formFloat(c *gin.Context, field string) (*float64, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validation("Validation failed", map[string]string{field: "number"})
	}
	return &v, nil
}
