package model

import (
	"time"

	"github.com/google/uuid"
)

// CollaborationKind tags which marketplace flow a record belongs to.
type CollaborationKind string

const (
	KindDirect   CollaborationKind = "direct"
	KindCampaign CollaborationKind = "campaign"
	KindAdSlot   CollaborationKind = "ad_slot"
	KindBanner   CollaborationKind = "banner"
)

// String returns the string representation of the kind.
func (k CollaborationKind) String() string {
	return string(k)
}

// IsValid checks if the kind is known.
func (k CollaborationKind) IsValid() bool {
	switch k {
	case KindDirect, KindCampaign, KindAdSlot, KindBanner:
		return true
	}
	return false
}

// Role identifies the side an account plays in the marketplace.
type Role string

const (
	RoleBrand      Role = "brand"
	RoleInfluencer Role = "influencer"
	RoleChannel    Role = "channel"
	RoleAgency     Role = "agency"
	RoleStaff      Role = "staff"
)

// IsValid checks if the role is known.
func (r Role) IsValid() bool {
	switch r {
	case RoleBrand, RoleInfluencer, RoleChannel, RoleAgency, RoleStaff:
		return true
	}
	return false
}

// CollaborationStatus represents the lifecycle state of a collaboration.
type CollaborationStatus string

const (
	StatusPending                  CollaborationStatus = "pending"
	StatusPendingBrandReview       CollaborationStatus = "pending_brand_review"
	StatusPendingApproval          CollaborationStatus = "pending_approval"
	StatusInfluencerOffer          CollaborationStatus = "influencer_offer"
	StatusBrandOffer               CollaborationStatus = "brand_offer"
	StatusBrandCounterOffer        CollaborationStatus = "brand_counter_offer"
	StatusInfluencerCounterOffer   CollaborationStatus = "influencer_counter_offer"
	StatusAgencyOffer              CollaborationStatus = "agency_offer"
	StatusChannelOffer             CollaborationStatus = "channel_offer"
	StatusAgreementReached         CollaborationStatus = "agreement_reached"
	StatusInProgress               CollaborationStatus = "in_progress"
	StatusWorkSubmitted            CollaborationStatus = "work_submitted"
	StatusCompleted                CollaborationStatus = "completed"
	StatusDisputed                 CollaborationStatus = "disputed"
	StatusBrandDecisionPending     CollaborationStatus = "brand_decision_pending"
	StatusRefundPendingAdminReview CollaborationStatus = "refund_pending_admin_review"
	StatusRejected                 CollaborationStatus = "rejected"
)

// String returns the string representation of the status.
func (s CollaborationStatus) String() string {
	return string(s)
}

// PaymentStatus tracks money movement independently of the lifecycle status.
type PaymentStatus string

const (
	PaymentStatusNone            PaymentStatus = ""
	PaymentStatusPaid            PaymentStatus = "paid"
	PaymentStatusPayoutRequested PaymentStatus = "payout_requested"
	PaymentStatusPayoutComplete  PaymentStatus = "payout_complete"
	PaymentStatusRefunded        PaymentStatus = "refunded"
)

// paymentTransitions lists the forward-only payment moves. A refund is possible
// until the payout has actually been disbursed.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusNone:            {PaymentStatusPaid},
	PaymentStatusPaid:            {PaymentStatusPayoutRequested, PaymentStatusRefunded},
	PaymentStatusPayoutRequested: {PaymentStatusPayoutComplete, PaymentStatusRefunded},
	PaymentStatusPayoutComplete:  {}, // Terminal state
	PaymentStatusRefunded:        {}, // Terminal state
}

// CanAdvanceTo checks if the payment status may move to target.
func (p PaymentStatus) CanAdvanceTo(target PaymentStatus) bool {
	for _, a := range paymentTransitions[p] {
		if a == target {
			return true
		}
	}
	return false
}

// WorkStatus is the fulfiller's progress marker.
type WorkStatus string

const (
	WorkStatusNone    WorkStatus = ""
	WorkStatusStarted WorkStatus = "started"
)

// Party is one counterparty of a collaboration with its display metadata.
type Party struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;not null;index"`
	Role   Role      `json:"role" gorm:"not null"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar,omitempty"`
}

// Offer is an open negotiation amount.
type Offer struct {
	Amount    Money `json:"amount" swaggertype:"string" example:"₹5000"`
	OfferedBy Role  `json:"offered_by"`
}

// Settlement is the payout breakdown computed from the final amount.
type Settlement struct {
	Gross         Money `json:"gross" swaggertype:"string"`
	Commission    Money `json:"commission" swaggertype:"string"`
	GST           Money `json:"gst" swaggertype:"string"`
	ProcessingFee Money `json:"processing_fee" swaggertype:"string"`
	Payout        Money `json:"payout" swaggertype:"string"`
}

// Collaboration is the persisted record shared by all collaboration kinds.
type Collaboration struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CollabID         string            `gorm:"uniqueIndex;not null"`
	Kind             CollaborationKind `gorm:"not null;index"`
	Title            string            `gorm:"not null;default:''"`
	SubjectID        string            `gorm:"index"` // campaign, slot or banner reference
	Message          string
	Requester        Party               `gorm:"embedded;embeddedPrefix:requester_"`
	Fulfiller        Party               `gorm:"embedded;embeddedPrefix:fulfiller_"`
	InitiatedBy      Role                `gorm:"not null"`
	Status           CollaborationStatus `gorm:"not null;index"`
	CurrentOffer     *Offer              `gorm:"serializer:json"`
	ProposedAmount   *Money              `gorm:"serializer:json"`
	FinalAmount      *Money              `gorm:"serializer:json"`
	PaymentStatus    PaymentStatus       `gorm:"not null;default:''"`
	PaymentReference string
	WorkStatus       WorkStatus `gorm:"not null;default:''"`
	RejectionReason  string
	DisputeReason    string
	DisputedBy       Role
	Payout           *Settlement `gorm:"serializer:json"`
	Version          int64       `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time `gorm:"index"`
}

// TableName returns the database table name.
func (Collaboration) TableName() string {
	return "collaborations"
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (c *Collaboration) Clone() *Collaboration {
	if c == nil {
		return nil
	}
	out := *c
	if c.CurrentOffer != nil {
		offer := *c.CurrentOffer
		out.CurrentOffer = &offer
	}
	if c.ProposedAmount != nil {
		m := *c.ProposedAmount
		out.ProposedAmount = &m
	}
	if c.FinalAmount != nil {
		m := *c.FinalAmount
		out.FinalAmount = &m
	}
	if c.Payout != nil {
		s := *c.Payout
		out.Payout = &s
	}
	return &out
}

// IsParticipant reports whether the user is one of the two counterparties.
func (c *Collaboration) IsParticipant(userID uuid.UUID) bool {
	return c.Requester.ID == userID || c.Fulfiller.ID == userID
}

// CollaborationFilter narrows listing queries.
type CollaborationFilter struct {
	Kind   *CollaborationKind
	Status *CollaborationStatus
}
