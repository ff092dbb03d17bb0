package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursedeck/coursedeck-api/internal/middleware"
	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/response"
)

type courseService interface {
	Create(ctx context.Context, adminID string, req models.CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, adminID string, req models.UpdateCourseRequest) (*models.Course, error)
	ListByOwner(ctx context.Context, adminID string) ([]models.Course, error)
	Preview(ctx context.Context) ([]models.Course, error)
}

// CourseHandler wires the admin course registry and the public catalog.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler creates a new handler.
func NewCourseHandler(svc courseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// Create godoc
// @Summary Create course
// @Description Create a course owned by the authenticated admin
// @Tags Courses
// @Accept json
// @Produce json
// @Param token header string true "Admin session token"
// @Param payload body models.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/course [post]
func (h *CourseHandler) Create(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.service.Create(c.Request.Context(), claims.IdentityID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "course created successfully", course)
}

// Update godoc
// @Summary Update course
// @Description Update one of the authenticated admin's own courses
// @Tags Courses
// @Accept json
// @Produce json
// @Param token header string true "Admin session token"
// @Param payload body models.UpdateCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/course [put]
func (h *CourseHandler) Update(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.service.Update(c.Request.Context(), claims.IdentityID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "course updated successfully", course)
}

// List godoc
// @Summary List own courses
// @Description List courses owned by the authenticated admin
// @Tags Courses
// @Produce json
// @Param token header string true "Admin session token"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/course [get]
func (h *CourseHandler) List(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	courses, err := h.service.ListByOwner(c.Request.Context(), claims.IdentityID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "courses fetched successfully", courses)
}

// Preview godoc
// @Summary Public catalog
// @Description List all courses without authentication
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /course/preview [get]
func (h *CourseHandler) Preview(c *gin.Context) {
	courses, err := h.service.Preview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "courses fetched successfully", courses)
}
