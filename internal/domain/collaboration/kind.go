package collaboration

import (
	"strings"

	"github.com/collabhub/server/internal/model"
)

// Adapter supplies the per-kind parameters of the shared state machine.
type Adapter interface {
	Kind() model.CollaborationKind
	RequesterRole() model.Role
	FulfillerRole() model.Role
	InitiatorRole() model.Role
	InitialStatus() model.CollaborationStatus
	// OfferStatus returns the negotiation status entered when role makes an offer.
	OfferStatus(role model.Role) (model.CollaborationStatus, bool)
	// TitleLabel names the title field for this kind, e.g. "campaign".
	TitleLabel() string
	// ApplyRequest maps kind-specific request fields onto a new record.
	ApplyRequest(c *model.Collaboration, req *model.CreateCollaborationRequest) error
}

type kindAdapter struct {
	kind           model.CollaborationKind
	requester      model.Role
	fulfiller      model.Role
	initiator      model.Role
	initial        model.CollaborationStatus
	requesterOffer model.CollaborationStatus
	fulfillerOffer model.CollaborationStatus
	titleLabel     string
	needsSubject   bool
}

func (a *kindAdapter) Kind() model.CollaborationKind { return a.kind }
func (a *kindAdapter) RequesterRole() model.Role { return a.requester }
func (a *kindAdapter) FulfillerRole() model.Role { return a.fulfiller }
func (a *kindAdapter) InitiatorRole() model.Role { return a.initiator }
func (a *kindAdapter) InitialStatus() model.CollaborationStatus { return a.initial }
func (a *kindAdapter) TitleLabel() string { return a.titleLabel }

func (a *kindAdapter) OfferStatus(role model.Role) (model.CollaborationStatus, bool) {
	switch role {
	case a.requester:
		return a.requesterOffer, true
	case a.fulfiller:
		return a.fulfillerOffer, true
	}
	return "", false
}

func (a *kindAdapter) ApplyRequest(c *model.Collaboration, req *model.CreateCollaborationRequest) error {
	title := strings.TrimSpace(req.Title)
	subject := strings.TrimSpace(req.SubjectID)

	if a.needsSubject {
		if subject == "" {
			return validationError("%s id is required", a.titleLabel)
		}
		if title == "" {
			return validationError("%s name is required", a.titleLabel)
		}
	}
	if title == "" {
		title = "Direct collaboration"
	}

	c.Title = title
	c.SubjectID = subject
	c.Message = strings.TrimSpace(req.Message)
	return nil
}

var adapters = map[model.CollaborationKind]Adapter{
	model.KindDirect: &kindAdapter{
		kind:           model.KindDirect,
		requester:      model.RoleBrand,
		fulfiller:      model.RoleInfluencer,
		initiator:      model.RoleBrand,
		initial:        model.StatusPending,
		requesterOffer: model.StatusBrandOffer,
		fulfillerOffer: model.StatusInfluencerOffer,
		titleLabel:     "collaboration",
	},
	model.KindCampaign: &kindAdapter{
		kind:           model.KindCampaign,
		requester:      model.RoleBrand,
		fulfiller:      model.RoleInfluencer,
		initiator:      model.RoleInfluencer,
		initial:        model.StatusPendingBrandReview,
		requesterOffer: model.StatusBrandCounterOffer,
		fulfillerOffer: model.StatusInfluencerCounterOffer,
		titleLabel:     "campaign",
		needsSubject:   true,
	},
	model.KindAdSlot: &kindAdapter{
		kind:           model.KindAdSlot,
		requester:      model.RoleBrand,
		fulfiller:      model.RoleChannel,
		initiator:      model.RoleBrand,
		initial:        model.StatusPendingApproval,
		requesterOffer: model.StatusBrandOffer,
		fulfillerOffer: model.StatusChannelOffer,
		titleLabel:     "ad slot",
		needsSubject:   true,
	},
	model.KindBanner: &kindAdapter{
		kind:           model.KindBanner,
		requester:      model.RoleBrand,
		fulfiller:      model.RoleAgency,
		initiator:      model.RoleBrand,
		initial:        model.StatusPendingApproval,
		requesterOffer: model.StatusBrandOffer,
		fulfillerOffer: model.StatusAgencyOffer,
		titleLabel:     "banner placement",
		needsSubject:   true,
	},
}

// AdapterFor returns the adapter registered for kind.
func AdapterFor(kind model.CollaborationKind) (Adapter, error) {
	a, ok := adapters[kind]
	if !ok {
		return nil, validationError("unknown collaboration kind %q", kind)
	}
	return a, nil
}

// isOfferStatusOf reports whether s is one of the adapter's two offer statuses.
func isOfferStatusOf(a Adapter, s model.CollaborationStatus) bool {
	req, _ := a.OfferStatus(a.RequesterRole())
	ful, _ := a.OfferStatus(a.FulfillerRole())
	return s == req || s == ful
}
