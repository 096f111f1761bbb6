package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"climatejobs/internal/pkg/apperr"
	"climatejobs/internal/pkg/response"
)

// Handler manages all HTTP interactions for authentication and profiles
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register creates an account and returns a session.
// @Summary		Register
// @Tags		Auth
// @Accept		json
// @Produce		json
// @Param		body	body	RegisterRequest	true	"payload"
// @Success		201	{object}	map[string]interface{}
// @Failure		400,409	{object}	map[string]interface{}
// @Router		/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperr.Invalid), "Invalid request body")
		return
	}

	session, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, session, "User registered successfully")
}

// Login godoc
// @Summary		Login
// @Tags		Auth
// @Accept		json
// @Produce		json
// @Param		body	body	LoginRequest	true	"payload"
// @Success		200	{object}	map[string]interface{}
// @Failure		400,401	{object}	map[string]interface{}
// @Router		/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperr.Invalid), "Invalid request body")
		return
	}

	session, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, session, "Login successful")
}

func (h *Handler) GetMe(c *gin.Context) {
	id, ok := RequireIdentity(c)
	if !ok {
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), id.UserID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	id, ok := RequireIdentity(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperr.Invalid), "Invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), id.UserID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, user, "Profile updated successfully")
}

// RequireIdentity returns the authenticated caller, or answers 401 and
// reports false when the guard did not run.
func RequireIdentity(c *gin.Context) (Identity, bool) {
	id, ok := IdentityFrom(c)
	if !ok {
		response.Abort(c, apperr.Unauthenticated, "Authentication required")
	}
	return id, ok
}
