package handler

import (
	"github.com/giftwell/backend/internal/application/gifting"
	"github.com/giftwell/backend/internal/domain/cart"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler handles cart session API endpoints
type CartHandler struct {
	BaseHandler
	cartService *gifting.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *gifting.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddBoxRequest selects a preset box or builds a custom one, discriminated
// by kind. Capacity only applies to custom boxes; zero means unbound.
type AddBoxRequest struct {
	Kind      string `json:"kind" binding:"required,oneof=PRESET CUSTOM"`
	Name      string `json:"name" binding:"required,min=1,max=200"`
	Size      string `json:"size" binding:"max=50"`
	Theme     string `json:"theme" binding:"max=100"`
	BasePrice string `json:"base_price" binding:"money"`
	Capacity  int    `json:"capacity" binding:"min=0"`
}

// SetGiftRequest sets a gift line quantity on a box. Quantity zero or
// below removes the line.
type SetGiftRequest struct {
	GiftID   string `json:"gift_id" binding:"required,uuid"`
	Quantity int    `json:"quantity"`
}

// AddOnRequest selects one personalization option on an axis
type AddOnRequest struct {
	Axis  string `json:"axis" binding:"required"`
	Name  string `json:"name" binding:"required,max=100"`
	Price string `json:"price" binding:"money"`
}

// PersonalizationRequest replaces add-on selections and/or the message
type PersonalizationRequest struct {
	AddOns    []AddOnRequest `json:"add_ons" binding:"omitempty,dive"`
	ClearAxes []string       `json:"clear_axes"`
	Message   *string        `json:"message" binding:"omitempty,max=500"`
}

// AddRecipientRequest adds one manually entered recipient
type AddRecipientRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
	Tag     string `json:"tag" binding:"max=100"`
}

// PatchRecipientRequest is a partial recipient update; nil fields are
// left untouched. Required-field checks are deferred to the step gate.
type PatchRecipientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Tag     *string `json:"tag"`
}

// ImportRowRequest is one pre-parsed bulk import row; either name or the
// first/last pair identifies the recipient
type ImportRowRequest struct {
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Address   string `json:"address"`
	Tag       string `json:"tag"`
}

// ImportRecipientsRequest carries a bulk import batch
type ImportRecipientsRequest struct {
	Rows []ImportRowRequest `json:"rows" binding:"required,min=1,dive"`
}

// InclusionRequest toggles a recipient's campaign inclusion
type InclusionRequest struct {
	Included *bool `json:"included" binding:"required"`
}

// GateRequest carries payment details for the payment-step gate; other
// steps ignore the body
type GateRequest struct {
	Method     string `json:"method"`
	CardNumber string `json:"card_number"`
	CardHolder string `json:"card_holder"`
	CardExpiry string `json:"card_expiry"`
}

// Create handles POST /carts
func (h *CartHandler) Create(c *gin.Context) {
	resp, err := h.cartService.Create(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /carts/:id
func (h *CartHandler) Get(c *gin.Context) {
	resp, err := h.cartService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Destroy handles DELETE /carts/:id
func (h *CartHandler) Destroy(c *gin.Context) {
	if err := h.cartService.Destroy(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddBox handles POST /carts/:id/boxes
func (h *CartHandler) AddBox(c *gin.Context) {
	var req AddBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var (
		resp *gifting.CartResponse
		err  error
	)
	if req.Kind == string(cart.BoxKindCustom) {
		resp, err = h.cartService.BuildCustomBox(c.Request.Context(), c.Param("id"), gifting.BuildBoxRequest{
			Name:      req.Name,
			Size:      req.Size,
			Theme:     req.Theme,
			BasePrice: req.BasePrice,
			Capacity:  req.Capacity,
		})
	} else {
		resp, err = h.cartService.SelectPresetBox(c.Request.Context(), c.Param("id"), gifting.SelectBoxRequest{
			Name:      req.Name,
			Size:      req.Size,
			Theme:     req.Theme,
			BasePrice: req.BasePrice,
		})
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RemoveBox handles DELETE /carts/:id/boxes/:boxId
func (h *CartHandler) RemoveBox(c *gin.Context) {
	boxID, ok := h.parseUUID(c, c.Param("boxId"), "Invalid box id")
	if !ok {
		return
	}
	resp, err := h.cartService.RemoveBox(c.Request.Context(), c.Param("id"), boxID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetGift handles PUT /carts/:id/boxes/:boxId/gifts
func (h *CartHandler) SetGift(c *gin.Context) {
	boxID, ok := h.parseUUID(c, c.Param("boxId"), "Invalid box id")
	if !ok {
		return
	}

	var req SetGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	giftID, err := uuid.Parse(req.GiftID)
	if err != nil {
		h.BadRequest(c, "Invalid gift id")
		return
	}

	resp, err := h.cartService.AddOrUpdateGift(c.Request.Context(), c.Param("id"), boxID, giftID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetPersonalization handles PUT /carts/:id/boxes/:boxId/personalization
func (h *CartHandler) SetPersonalization(c *gin.Context) {
	boxID, ok := h.parseUUID(c, c.Param("boxId"), "Invalid box id")
	if !ok {
		return
	}

	var req PersonalizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := gifting.PersonalizationRequest{
		ClearAxes: req.ClearAxes,
		Message:   req.Message,
	}
	for _, a := range req.AddOns {
		appReq.AddOns = append(appReq.AddOns, gifting.AddOnSelection{
			Axis:  a.Axis,
			Name:  a.Name,
			Price: a.Price,
		})
	}

	resp, err := h.cartService.SetPersonalization(c.Request.Context(), c.Param("id"), boxID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddRecipient handles POST /carts/:id/recipients
func (h *CartHandler) AddRecipient(c *gin.Context) {
	var req AddRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.cartService.AddRecipient(c.Request.Context(), c.Param("id"), gifting.RecipientRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Tag:     req.Tag,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ImportRecipients handles POST /carts/:id/recipients/import
func (h *CartHandler) ImportRecipients(c *gin.Context) {
	var req ImportRecipientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rows := make([]gifting.ImportRowRequest, 0, len(req.Rows))
	for _, r := range req.Rows {
		rows = append(rows, gifting.ImportRowRequest{
			Name:      r.Name,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
			Phone:     r.Phone,
			Company:   r.Company,
			Address:   r.Address,
			Tag:       r.Tag,
		})
	}

	resp, err := h.cartService.ImportRecipients(c.Request.Context(), c.Param("id"), rows)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// PatchRecipient handles PATCH /carts/:id/recipients/:rid
func (h *CartHandler) PatchRecipient(c *gin.Context) {
	rid, ok := h.parseUUID(c, c.Param("rid"), "Invalid recipient id")
	if !ok {
		return
	}

	var req PatchRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.cartService.EditRecipient(c.Request.Context(), c.Param("id"), rid, gifting.RecipientPatchRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Tag:     req.Tag,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveRecipient handles DELETE /carts/:id/recipients/:rid
func (h *CartHandler) RemoveRecipient(c *gin.Context) {
	rid, ok := h.parseUUID(c, c.Param("rid"), "Invalid recipient id")
	if !ok {
		return
	}
	resp, err := h.cartService.RemoveRecipient(c.Request.Context(), c.Param("id"), rid)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetInclusion handles PUT /carts/:id/recipients/:rid/inclusion
func (h *CartHandler) SetInclusion(c *gin.Context) {
	rid, ok := h.parseUUID(c, c.Param("rid"), "Invalid recipient id")
	if !ok {
		return
	}

	var req InclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.cartService.ToggleInclusion(c.Request.Context(), c.Param("id"), rid, *req.Included)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Assign handles PUT /carts/:id/boxes/:boxId/assignments/:rid
func (h *CartHandler) Assign(c *gin.Context) {
	boxID, ok := h.parseUUID(c, c.Param("boxId"), "Invalid box id")
	if !ok {
		return
	}
	rid, ok := h.parseUUID(c, c.Param("rid"), "Invalid recipient id")
	if !ok {
		return
	}

	resp, err := h.cartService.Assign(c.Request.Context(), c.Param("id"), boxID, rid)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Unassign handles DELETE /carts/:id/boxes/:boxId/assignments/:rid
func (h *CartHandler) Unassign(c *gin.Context) {
	boxID, ok := h.parseUUID(c, c.Param("boxId"), "Invalid box id")
	if !ok {
		return
	}
	rid, ok := h.parseUUID(c, c.Param("rid"), "Invalid recipient id")
	if !ok {
		return
	}

	resp, err := h.cartService.Unassign(c.Request.Context(), c.Param("id"), boxID, rid)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AssignAll handles POST /carts/:id/boxes/:boxId/assign-all
func (h *CartHandler) AssignAll(c *gin.Context) {
	boxID, ok := h.parseUUID(c, c.Param("boxId"), "Invalid box id")
	if !ok {
		return
	}
	resp, err := h.cartService.AssignAll(c.Request.Context(), c.Param("id"), boxID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListAssignments handles GET /carts/:id/boxes/:boxId/assignments
func (h *CartHandler) ListAssignments(c *gin.Context) {
	boxID, ok := h.parseUUID(c, c.Param("boxId"), "Invalid box id")
	if !ok {
		return
	}
	resp, err := h.cartService.AssignedRecipients(c.Request.Context(), c.Param("id"), boxID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CheckGate handles POST /carts/:id/gates/:step
func (h *CartHandler) CheckGate(c *gin.Context) {
	step := cart.Step(c.Param("step"))
	if !step.IsValid() {
		h.BadRequest(c, "Unknown step")
		return
	}

	var payment *cart.PaymentDetails
	if step == cart.StepPayment && c.Request.ContentLength > 0 {
		var req GateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		payment = &cart.PaymentDetails{
			Method:     req.Method,
			CardNumber: req.CardNumber,
			CardHolder: req.CardHolder,
			CardExpiry: req.CardExpiry,
		}
	}

	resp, err := h.cartService.CheckStep(c.Request.Context(), c.Param("id"), step, payment)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// parseUUID parses an id path parameter, responding with 400 on failure
func (h *CartHandler) parseUUID(c *gin.Context, raw, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		h.BadRequest(c, message)
		return uuid.Nil, false
	}
	return id, true
}

// RegisterRoutes registers cart routes on the API group
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/carts")
	{
		carts.POST("", h.Create)
		carts.GET("/:id", h.Get)
		carts.DELETE("/:id", h.Destroy)

		carts.POST("/:id/boxes", h.AddBox)
		carts.DELETE("/:id/boxes/:boxId", h.RemoveBox)
		carts.PUT("/:id/boxes/:boxId/gifts", h.SetGift)
		carts.PUT("/:id/boxes/:boxId/personalization", h.SetPersonalization)

		carts.POST("/:id/recipients", h.AddRecipient)
		carts.POST("/:id/recipients/import", h.ImportRecipients)
		carts.PATCH("/:id/recipients/:rid", h.PatchRecipient)
		carts.DELETE("/:id/recipients/:rid", h.RemoveRecipient)
		carts.PUT("/:id/recipients/:rid/inclusion", h.SetInclusion)

		carts.PUT("/:id/boxes/:boxId/assignments/:rid", h.Assign)
		carts.DELETE("/:id/boxes/:boxId/assignments/:rid", h.Unassign)
		carts.POST("/:id/boxes/:boxId/assign-all", h.AssignAll)
		carts.GET("/:id/boxes/:boxId/assignments", h.ListAssignments)

		carts.POST("/:id/gates/:step", h.CheckGate)
	}
}
