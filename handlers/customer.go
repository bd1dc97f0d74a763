package handlers

import (
	"net/http"

	"tripay/services/payment"
	"tripay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CustomerHandler exposes the customer's order and review endpoints.
type CustomerHandler struct {
	svc    payment.InvoiceService
	logger *zap.Logger
}

// NewCustomerHandler creates a CustomerHandler.
func NewCustomerHandler(svc payment.InvoiceService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{svc: svc, logger: logger}
}

// MyOrders handles GET /api/customer/my_order.
func (h *CustomerHandler) MyOrders(c *gin.Context) {
	orders, err := h.svc.ListOrders(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// MyReviewableOrders handles GET /api/customer/my_order/review.
func (h *CustomerHandler) MyReviewableOrders(c *gin.Context) {
	orders, err := h.svc.ListReviewable(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type createReviewRequest struct {
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	IsRecommend bool   `json:"is_recommend"`
}

// CreateReview handles POST /api/customer/my_order/review/:id.
func (h *CustomerHandler) CreateReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	review, err := h.svc.AttachReview(c.Request.Context(), c.GetString("userID"), payment.ReviewInput{
		InvoiceID:   c.Param("id"),
		Rating:      req.Rating,
		Comment:     req.Comment,
		IsRecommend: req.IsRecommend,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}
