package handler

import (
	"github.com/giftwell/backend/internal/application/gifting"
	"github.com/giftwell/backend/internal/domain/cart"
	"github.com/giftwell/backend/internal/domain/pricing"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CheckoutHandler handles pricing quotes and checkout hand-off
type CheckoutHandler struct {
	BaseHandler
	checkoutService *gifting.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *gifting.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// PricingQuery selects the payment method and an optional shipping
// override for a quote
type PricingQuery struct {
	Method   string `form:"method" binding:"omitempty,oneof=card bank_transfer"`
	Shipping string `form:"shipping"`
}

// CheckoutRequest carries the collected payment details
type CheckoutRequest struct {
	Method     string `json:"method" binding:"required,oneof=card bank_transfer"`
	CardNumber string `json:"card_number"`
	CardHolder string `json:"card_holder"`
	CardExpiry string `json:"card_expiry"`
	Shipping   string `json:"shipping"`
}

// Quote handles GET /carts/:id/pricing
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var query PricingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	method := pricing.MethodCard
	if query.Method != "" {
		method = pricing.PaymentMethod(query.Method)
	}

	shipping, ok := h.parseShipping(c, query.Shipping)
	if !ok {
		return
	}

	resp, err := h.checkoutService.Quote(c.Request.Context(), c.Param("id"), method, shipping)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Checkout handles POST /carts/:id/checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shipping, ok := h.parseShipping(c, req.Shipping)
	if !ok {
		return
	}

	resp, err := h.checkoutService.Checkout(c.Request.Context(), c.Param("id"), cart.PaymentDetails{
		Method:     req.Method,
		CardNumber: req.CardNumber,
		CardHolder: req.CardHolder,
		CardExpiry: req.CardExpiry,
	}, shipping)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// parseShipping parses an optional shipping override, responding with
// 400 when malformed or negative
func (h *CheckoutHandler) parseShipping(c *gin.Context, raw string) (*decimal.Decimal, bool) {
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		h.BadRequest(c, "Invalid shipping amount")
		return nil, false
	}
	return &d, true
}

// RegisterRoutes registers checkout routes on the API group
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/carts")
	{
		carts.GET("/:id/pricing", h.Quote)
		carts.POST("/:id/checkout", h.Checkout)
	}
}
