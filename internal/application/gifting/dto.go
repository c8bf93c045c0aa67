package gifting

import (
	"github.com/giftwell/backend/internal/domain/cart"
	"github.com/giftwell/backend/internal/domain/pricing"
)

// SelectBoxRequest selects a preset box from the catalog flow
type SelectBoxRequest struct {
	Name      string
	Size      string
	Theme     string
	BasePrice string
}

// BuildBoxRequest builds a custom box; a positive capacity binds the
// packaging flow's ceiling
type BuildBoxRequest struct {
	Name      string
	Size      string
	Theme     string
	BasePrice string
	Capacity  int
}

// AddOnSelection sets one personalization axis
type AddOnSelection struct {
	Axis  string
	Name  string
	Price string
}

// PersonalizationRequest replaces one or more personalization axes.
// ClearAxes removes selections; Message replaces the gift message when
// non-nil.
type PersonalizationRequest struct {
	AddOns    []AddOnSelection
	ClearAxes []string
	Message   *string
}

// RecipientRequest carries one manually entered recipient
type RecipientRequest struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Tag     string
}

// RecipientPatchRequest is a partial recipient update
type RecipientPatchRequest struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Tag     *string
}

// ImportRowRequest is one pre-parsed bulk import row. The standard shape
// uses Name; the digital-gift variant sends FirstName/LastName instead.
type ImportRowRequest struct {
	Name      string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	Address   string
	Tag       string
}

// toInput maps either row variant onto the registry's input shape
func (r ImportRowRequest) toInput() cart.RecipientInput {
	name := r.Name
	if name == "" {
		name = r.FirstName
		if r.LastName != "" {
			if name != "" {
				name += " "
			}
			name += r.LastName
		}
	}
	tag := r.Tag
	if tag == "" {
		tag = r.Company
	}
	return cart.RecipientInput{
		Name:    name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		Tag:     tag,
	}
}

// GiftLineResponse is one gift line in a box
type GiftLineResponse struct {
	GiftID    string `json:"gift_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Amount    string `json:"amount"`
}

// AddOnResponse is one selected personalization option
type AddOnResponse struct {
	Axis  string `json:"axis"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// BoxResponse is one box with its derived totals
type BoxResponse struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Kind          string             `json:"kind"`
	Size          string             `json:"size"`
	Theme         string             `json:"theme"`
	BasePrice     string             `json:"base_price"`
	Lines         []GiftLineResponse `json:"lines"`
	AddOns        []AddOnResponse    `json:"add_ons"`
	AddOnsCost    string             `json:"add_ons_cost"`
	Message       string             `json:"message"`
	Capacity      *int               `json:"capacity,omitempty"`
	TotalQuantity int                `json:"total_quantity"`
	BoxTotal      string             `json:"box_total"`
	AssignedCount int                `json:"assigned_count"`
}

// RecipientResponse is one registry entry
type RecipientResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Tag         string `json:"tag"`
	Source      string `json:"source"`
	Included    bool   `json:"included"`
	IsDuplicate bool   `json:"is_duplicate"`
	Status      string `json:"status"`
}

// AssignmentResponse is one box-recipient pair
type AssignmentResponse struct {
	BoxID       string `json:"box_id"`
	RecipientID string `json:"recipient_id"`
}

// CartResponse is the full session snapshot every screen reads
type CartResponse struct {
	ID          string               `json:"id"`
	Boxes       []BoxResponse        `json:"boxes"`
	Recipients  []RecipientResponse  `json:"recipients"`
	Assignments []AssignmentResponse `json:"assignments"`
	Subtotal    string               `json:"subtotal"`
}

// PricingResponse is a derived order breakdown
type PricingResponse struct {
	Method        string `json:"method"`
	Subtotal      string `json:"subtotal"`
	Tax           string `json:"tax"`
	Shipping      string `json:"shipping"`
	ProcessingFee string `json:"processing_fee"`
	Total         string `json:"total"`
}

// GateResponse is the outcome of one step gate
type GateResponse struct {
	Step    string   `json:"step"`
	Blocked bool     `json:"blocked"`
	Reasons []string `json:"reasons"`
}

// CheckoutResponse is the final hand-off record for the external payment
// collaborator
type CheckoutResponse struct {
	Method        string `json:"method"`
	Subtotal      string `json:"subtotal"`
	Tax           string `json:"tax"`
	Shipping      string `json:"shipping"`
	ProcessingFee string `json:"processing_fee"`
	Total         string `json:"total"`
}

// ToBoxResponse maps a box and its assignment count to a response
func ToBoxResponse(b *cart.Box, assignedCount int) BoxResponse {
	lines := make([]GiftLineResponse, 0, len(b.Lines))
	for _, l := range b.Lines {
		lines = append(lines, GiftLineResponse{
			GiftID:    l.GiftID.String(),
			Name:      l.Name,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Quantity:  l.Quantity,
			Amount:    l.Amount().StringFixed(2),
		})
	}
	addOns := make([]AddOnResponse, 0, len(b.Personalization.AddOns))
	for _, a := range b.Personalization.AddOns {
		addOns = append(addOns, AddOnResponse{
			Axis:  string(a.Axis),
			Name:  a.Name,
			Price: a.Price.StringFixed(2),
		})
	}
	return BoxResponse{
		ID:            b.ID.String(),
		Name:          b.Name,
		Kind:          string(b.Kind),
		Size:          b.Size,
		Theme:         b.Theme,
		BasePrice:     b.BasePrice.StringFixed(2),
		Lines:         lines,
		AddOns:        addOns,
		AddOnsCost:    b.AddOnsCost().StringFixed(2),
		Message:       b.Personalization.Message,
		Capacity:      b.Capacity,
		TotalQuantity: b.TotalQuantity(),
		BoxTotal:      pricing.BoxTotal(b).StringFixed(2),
		AssignedCount: assignedCount,
	}
}

// ToRecipientResponse maps a recipient to a response
func ToRecipientResponse(r *cart.Recipient) RecipientResponse {
	return RecipientResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
		Tag:         r.Tag,
		Source:      string(r.Source),
		Included:    r.Included,
		IsDuplicate: r.IsDuplicate,
		Status:      string(r.Status),
	}
}

// ToCartResponse maps a whole session snapshot
func ToCartResponse(s *cart.Session) *CartResponse {
	boxes := make([]BoxResponse, 0, len(s.Boxes))
	for _, b := range s.Boxes {
		boxes = append(boxes, ToBoxResponse(b, s.Matrix.CountFor(b.ID)))
	}
	recipients := make([]RecipientResponse, 0, len(s.Recipients))
	for _, r := range s.Recipients {
		recipients = append(recipients, ToRecipientResponse(r))
	}
	assignments := make([]AssignmentResponse, 0, s.Matrix.Len())
	for _, p := range s.Matrix.Pairs() {
		assignments = append(assignments, AssignmentResponse{
			BoxID:       p.BoxID.String(),
			RecipientID: p.RecipientID.String(),
		})
	}
	return &CartResponse{
		ID:          s.ID,
		Boxes:       boxes,
		Recipients:  recipients,
		Assignments: assignments,
		Subtotal:    pricing.OrderSubtotal(s.Boxes).StringFixed(2),
	}
}

// ToPricingResponse maps a breakdown to a response
func ToPricingResponse(bd pricing.Breakdown) *PricingResponse {
	return &PricingResponse{
		Method:        string(bd.Method),
		Subtotal:      bd.Subtotal.StringFixed(2),
		Tax:           bd.Tax.StringFixed(2),
		Shipping:      bd.Shipping.StringFixed(2),
		ProcessingFee: bd.ProcessingFee.StringFixed(2),
		Total:         bd.Total.StringFixed(2),
	}
}
