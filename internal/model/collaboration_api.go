package model

import (
	"time"

	"github.com/google/uuid"
)

// PartyInput describes the counterparty named in a new collaboration request.
type PartyInput struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar,omitempty"`
}

// CreateCollaborationRequest represents a request to open a collaboration.
type CreateCollaborationRequest struct {
	Kind           CollaborationKind `json:"kind" binding:"required"`
	Counterparty   PartyInput        `json:"counterparty"`
	Title          string            `json:"title"`
	SubjectID      string            `json:"subject_id"`
	Message        string            `json:"message"`
	ProposedAmount *Money            `json:"proposed_amount,omitempty" swaggertype:"string" example:"₹5000"`
}

// ReasonRequest carries a free-text reason for reject and dispute calls.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// CounterOfferRequest carries a counter-offer amount.
type CounterOfferRequest struct {
	Amount Money `json:"amount" swaggertype:"string" example:"₹5000"`
}

// ConfirmPaymentRequest carries the payment confirmation signal.
type ConfirmPaymentRequest struct {
	Reference string `json:"reference"`
	Confirmed bool   `json:"confirmed"`
}

// DisputeDecisionRequest carries the brand's decision on a reviewed dispute.
type DisputeDecisionRequest struct {
	Refund bool `json:"refund"`
}

// RefundResolutionRequest carries the staff ruling on a refund request.
type RefundResolutionRequest struct {
	Approve bool `json:"approve"`
}

// CollaborationResponse represents a collaboration in API responses.
type CollaborationResponse struct {
	ID              uuid.UUID           `json:"id"`
	CollabID        string              `json:"collab_id"`
	Kind            CollaborationKind   `json:"kind"`
	Title           string              `json:"title"`
	SubjectID       string              `json:"subject_id,omitempty"`
	Message         string              `json:"message,omitempty"`
	Requester       Party               `json:"requester"`
	Fulfiller       Party               `json:"fulfiller"`
	InitiatedBy     Role                `json:"initiated_by"`
	Status          CollaborationStatus `json:"status"`
	CurrentOffer    *Offer              `json:"current_offer,omitempty"`
	ProposedAmount  *Money              `json:"proposed_amount,omitempty" swaggertype:"string" example:"₹5000"`
	FinalAmount     *Money              `json:"final_amount,omitempty" swaggertype:"string" example:"₹5000"`
	PaymentStatus   PaymentStatus       `json:"payment_status,omitempty"`
	WorkStatus      WorkStatus          `json:"work_status,omitempty"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
	DisputeReason   string              `json:"dispute_reason,omitempty"`
	DisputedBy      Role                `json:"disputed_by,omitempty"`
	Payout          *Settlement         `json:"payout,omitempty"`
	Version         int64               `json:"version"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToResponse converts a Collaboration to CollaborationResponse.
func (c *Collaboration) ToResponse() *CollaborationResponse {
	return &CollaborationResponse{
		ID:              c.ID,
		CollabID:        c.CollabID,
		Kind:            c.Kind,
		Title:           c.Title,
		SubjectID:       c.SubjectID,
		Message:         c.Message,
		Requester:       c.Requester,
		Fulfiller:       c.Fulfiller,
		InitiatedBy:     c.InitiatedBy,
		Status:          c.Status,
		CurrentOffer:    c.CurrentOffer,
		ProposedAmount:  c.ProposedAmount,
		FinalAmount:     c.FinalAmount,
		PaymentStatus:   c.PaymentStatus,
		WorkStatus:      c.WorkStatus,
		RejectionReason: c.RejectionReason,
		DisputeReason:   c.DisputeReason,
		DisputedBy:      c.DisputedBy,
		Payout:          c.Payout,
		Version:         c.Version,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// CollaborationListResponse represents a list of collaborations.
type CollaborationListResponse struct {
	Collaborations []*CollaborationResponse `json:"collaborations"`
	Total          int                      `json:"total"`
}

// DashboardItem is a viewer-relative projection of a collaboration.
type DashboardItem struct {
	ID            uuid.UUID           `json:"id"`
	CollabID      string              `json:"collab_id"`
	Kind          CollaborationKind   `json:"kind"`
	Title         string              `json:"title"`
	Status        CollaborationStatus `json:"status"`
	PartnerName   string              `json:"partner_name"`
	PartnerAvatar string              `json:"partner_avatar,omitempty"`
	PartnerRole   Role                `json:"partner_role"`
	Amount        *Money              `json:"amount,omitempty" swaggertype:"string" example:"₹5000"`
	PaymentStatus PaymentStatus       `json:"payment_status,omitempty"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// DashboardResponse groups dashboard items into pending, active and archived buckets.
type DashboardResponse struct {
	Pending  []DashboardItem `json:"pending"`
	Active   []DashboardItem `json:"active"`
	Archived []DashboardItem `json:"archived"`
}
