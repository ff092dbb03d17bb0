package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursedeck/coursedeck-api/internal/middleware"
	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/export"
	"github.com/coursedeck/coursedeck-api/pkg/response"
)

type purchaseService interface {
	Purchase(ctx context.Context, userID string, req models.PurchaseRequest) (*models.Purchase, error)
	List(ctx context.Context, userID string) ([]models.PurchaseDetail, error)
	ReceiptData(ctx context.Context, userID, purchaseID string) (*models.PurchaseDetail, *models.IdentityInfo, error)
}

type receiptRenderer interface {
	Render(r export.Receipt) ([]byte, error)
}

// PurchaseHandler wires the purchase ledger endpoints.
type PurchaseHandler struct {
	service  purchaseService
	receipts receiptRenderer
}

// NewPurchaseHandler creates a new handler.
func NewPurchaseHandler(svc purchaseService, receipts receiptRenderer) *PurchaseHandler {
	return &PurchaseHandler{service: svc, receipts: receipts}
}

// Purchase godoc
// @Summary Purchase a course
// @Description Record a purchase for the authenticated user; at most one per course
// @Tags Purchases
// @Accept json
// @Produce json
// @Param token header string true "User session token"
// @Param payload body models.PurchaseRequest true "Purchase payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /course/purchase [post]
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid purchase payload"))
		return
	}

	purchase, err := h.service.Purchase(c.Request.Context(), claims.IdentityID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "course purchased successfully", purchase)
}

// List godoc
// @Summary List own purchases
// @Description List the authenticated user's purchases joined with course data
// @Tags Purchases
// @Produce json
// @Param token header string true "User session token"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /user/purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	purchases, err := h.service.List(c.Request.Context(), claims.IdentityID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "purchases fetched successfully", purchases)
}

// Receipt godoc
// @Summary Download purchase receipt
// @Description Render one of the authenticated user's purchases as a PDF receipt
// @Tags Purchases
// @Produce application/pdf
// @Param token header string true "User session token"
// @Param id path string true "Purchase ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /user/purchases/{id}/receipt [get]
func (h *PurchaseHandler) Receipt(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	detail, buyer, err := h.service.ReceiptData(c.Request.Context(), claims.IdentityID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	pdf, err := h.receipts.Render(export.Receipt{
		PurchaseID:  detail.Purchase.ID,
		CourseTitle: detail.Course.Title,
		Price:       detail.Course.Price,
		BuyerEmail:  buyer.Email,
		PurchasedAt: detail.Purchase.CreatedAt,
	})
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render receipt"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", detail.Purchase.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
