package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"tripay/config"
	"tripay/services/payment"
	"tripay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes the invoice/payment lifecycle over HTTP.
type PaymentHandler struct {
	svc    payment.InvoiceService
	logger *zap.Logger
}

// NewPaymentHandler creates a PaymentHandler.
func NewPaymentHandler(svc payment.InvoiceService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, logger: logger}
}

// statusFromKind maps service error kinds to HTTP status codes.
func statusFromKind(kind payment.Kind) int {
	switch kind {
	case payment.KindValidation:
		return http.StatusBadRequest
	case payment.KindNotFound:
		return http.StatusNotFound
	case payment.KindUnauthorized:
		return http.StatusForbidden
	case payment.KindConflict:
		return http.StatusConflict
	case payment.KindGateway:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError turns a service error into a JSON response. Gateway errors
// carry the upstream payload in the details field.
func respondError(c *gin.Context, err error) {
	var perr *payment.PaymentError
	if !errors.As(err, &perr) {
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	details := ""
	var gerr *payment.GatewayError
	if errors.As(perr.Err, &gerr) && len(gerr.Raw) > 0 {
		details = string(gerr.Raw)
	}
	utils.JSONError(c, statusFromKind(perr.Kind), perr.Message, details)
}

type createInvoiceRequest struct {
	DateTravel    string `json:"date_travel"`
	NumberOfGuest int    `json:"number_of_guest"`
	Note          string `json:"note"`
	ProductID     string `json:"product_id"`
}

// toInput parses the travel date, accepting RFC3339 or a plain date.
func (r createInvoiceRequest) toInput() (payment.CreateInvoiceInput, error) {
	in := payment.CreateInvoiceInput{
		NumberOfGuest: r.NumberOfGuest,
		Note:          r.Note,
		ProductID:     r.ProductID,
	}
	if r.DateTravel == "" {
		return in, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, r.DateTravel); err == nil {
			in.DateTravel = t
			return in, nil
		}
	}
	return in, fmt.Errorf("Date travel is invalid")
}

// CreateInvoice handles POST /api/payment/invoice.
func (h *PaymentHandler) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	in, err := req.toInput()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	invoice, err := h.svc.CreateInvoice(c.Request.Context(), c.GetString("userID"), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success create order in database",
		"invoice": invoice,
	})
}

// InitiatePayment handles POST /api/payment/invoice/:id/pay.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	initiation, err := h.svc.InitiatePayment(
		c.Request.Context(),
		c.GetString("userID"),
		c.Param("id"),
		c.GetHeader("Origin"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "success create order payment",
		"payment":     initiation.Payment,
		"invoice":     initiation.Invoice,
		"payment_url": initiation.PaymentURL,
	})
}

// Capture handles GET /api/payment/invoice/:id/capture. It is the target of
// the payment provider's redirect and is unauthenticated; the browser is
// sent back to the frontend orders page whether or not a capture was
// actually performed.
func (h *PaymentHandler) Capture(c *gin.Context) {
	outcome, err := h.svc.Capture(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if outcome.AlreadyCaptured {
		h.logger.Info("capture callback replay ignored", zap.String("invoice_id", outcome.Invoice.ID))
	}
	c.Redirect(http.StatusFound, config.AppConfig.FEHost+"/orders")
}

// OrderStatus handles GET /api/payment/invoice/:id. Expiry detected here is
// reported as a structured response, not a generic failure.
func (h *PaymentHandler) OrderStatus(c *gin.Context) {
	result, err := h.svc.OrderStatus(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Expired {
		c.JSON(http.StatusGone, gin.H{
			"message": "Order was expired",
			"status":  "expired",
			"details": "Your Payment link has been expired.",
		})
		return
	}
	if result.Approved {
		c.JSON(http.StatusOK, gin.H{"message": result.Message})
		return
	}
	c.Data(result.HTTPStatus, "application/json", result.Raw)
}

// DeleteInvoice handles DELETE /api/payment/invoice/:id.
func (h *PaymentHandler) DeleteInvoice(c *gin.Context) {
	if err := h.svc.DeleteInvoice(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success delete invoice"})
}
