package collaboration

import (
	"sort"

	"github.com/collabhub/server/internal/model"
)

// Bucket is a dashboard section.
type Bucket string

const (
	BucketPending  Bucket = "pending"
	BucketActive   Bucket = "active"
	BucketArchived Bucket = "archived"
)

// BucketOf classifies a status into its dashboard section.
func BucketOf(s model.CollaborationStatus) Bucket {
	switch {
	case IsInitial(s), IsOffer(s), s == model.StatusAgreementReached:
		return BucketPending
	case s == model.StatusCompleted, s == model.StatusRejected:
		return BucketArchived
	default:
		return BucketActive
	}
}

// Group partitions records into pending, active and archived items as seen by
// viewer. Every record lands in exactly one bucket; each bucket is ordered by
// last update, newest first, with ties broken by collab id.
func Group(records []*model.Collaboration, viewer Actor) model.DashboardResponse {
	out := model.DashboardResponse{
		Pending:  []model.DashboardItem{},
		Active:   []model.DashboardItem{},
		Archived: []model.DashboardItem{},
	}

	for _, c := range records {
		if c == nil {
			continue
		}
		item := toDashboardItem(c, viewer)
		switch BucketOf(c.Status) {
		case BucketPending:
			out.Pending = append(out.Pending, item)
		case BucketActive:
			out.Active = append(out.Active, item)
		default:
			out.Archived = append(out.Archived, item)
		}
	}

	sortItems(out.Pending)
	sortItems(out.Active)
	sortItems(out.Archived)
	return out
}

func sortItems(items []model.DashboardItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].UpdatedAt.After(items[j].UpdatedAt)
		}
		return items[i].CollabID < items[j].CollabID
	})
}

// partnerOf resolves the other party relative to the viewer. Viewers that sit
// on neither side (staff) see the fulfiller.
func partnerOf(c *model.Collaboration, viewer Actor) model.Party {
	switch sideOf(c, viewer) {
	case sideFulfiller:
		return c.Requester
	case sideRequester:
		return c.Fulfiller
	}
	if viewer.UserID == c.Fulfiller.ID {
		return c.Requester
	}
	return c.Fulfiller
}

func toDashboardItem(c *model.Collaboration, viewer Actor) model.DashboardItem {
	partner := partnerOf(c, viewer)

	var amount *model.Money
	switch {
	case c.FinalAmount != nil:
		m := *c.FinalAmount
		amount = &m
	case c.CurrentOffer != nil:
		m := c.CurrentOffer.Amount
		amount = &m
	case c.ProposedAmount != nil:
		m := *c.ProposedAmount
		amount = &m
	}

	return model.DashboardItem{
		ID:            c.ID,
		CollabID:      c.CollabID,
		Kind:          c.Kind,
		Title:         c.Title,
		Status:        c.Status,
		PartnerName:   partner.Name,
		PartnerAvatar: partner.Avatar,
		PartnerRole:   partner.Role,
		Amount:        amount,
		PaymentStatus: c.PaymentStatus,
		UpdatedAt:     c.UpdatedAt,
	}
}
