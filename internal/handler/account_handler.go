package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/response"
)

type accountService interface {
	Signup(ctx context.Context, role models.Role, req models.SignupRequest) (*models.IdentityInfo, error)
	Signin(ctx context.Context, role models.Role, req models.SigninRequest) (*models.SigninResponse, error)
}

// AccountHandler wires the signup/signin endpoints for both roles.
type AccountHandler struct {
	service accountService
}

// NewAccountHandler creates a new handler.
func NewAccountHandler(svc accountService) *AccountHandler {
	return &AccountHandler{service: svc}
}

// Signup godoc
// @Summary Register an identity
// @Description Create a user or admin account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param payload body models.SignupRequest true "Signup payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /user/signup [post]
func (h *AccountHandler) Signup(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid signup payload"))
			return
		}

		info, err := h.service.Signup(c.Request.Context(), role, req)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.Created(c, "signup successful", info)
	}
}

// Signin godoc
// @Summary Authenticate an identity
// @Description Exchange credentials for a role-scoped session token
// @Tags Accounts
// @Accept json
// @Produce json
// @Param payload body models.SigninRequest true "Signin payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /user/signin [post]
func (h *AccountHandler) Signin(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SigninRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid signin payload"))
			return
		}

		res, err := h.service.Signin(c.Request.Context(), role, req)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.JSON(c, http.StatusOK, "signin successful", res)
	}
}
