package collaboration

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabhub/server/internal/model"
)

func groupingRecord(status model.CollaborationStatus, collabID string, updated time.Time, brand, creator model.Party) *model.Collaboration {
	return &model.Collaboration{
		ID:        uuid.New(),
		CollabID:  collabID,
		Kind:      model.KindDirect,
		Title:     collabID,
		Requester: brand,
		Fulfiller: creator,
		Status:    status,
		UpdatedAt: updated,
	}
}

func TestBucketOf(t *testing.T) {
	for _, s := range KnownStatuses() {
		t.Run(string(s), func(t *testing.T) {
			b := BucketOf(s)
			switch s {
			case model.StatusCompleted, model.StatusRejected:
				assert.Equal(t, BucketArchived, b)
			case model.StatusInProgress, model.StatusWorkSubmitted, model.StatusDisputed,
				model.StatusBrandDecisionPending, model.StatusRefundPendingAdminReview:
				assert.Equal(t, BucketActive, b)
			default:
				assert.Equal(t, BucketPending, b)
			}
		})
	}
}

func TestGroup(t *testing.T) {
	brand := model.Party{ID: uuid.New(), Role: model.RoleBrand, Name: "Acme", Avatar: "acme.png"}
	creator := model.Party{ID: uuid.New(), Role: model.RoleInfluencer, Name: "Riya", Avatar: "riya.png"}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []*model.Collaboration{
		groupingRecord(model.StatusPending, "COL-B", base, brand, creator),
		groupingRecord(model.StatusBrandOffer, "COL-A", base, brand, creator),
		groupingRecord(model.StatusAgreementReached, "COL-C", base.Add(time.Hour), brand, creator),
		groupingRecord(model.StatusInProgress, "COL-D", base, brand, creator),
		groupingRecord(model.StatusDisputed, "COL-E", base.Add(2*time.Hour), brand, creator),
		groupingRecord(model.StatusCompleted, "COL-F", base, brand, creator),
		groupingRecord(model.StatusRejected, "COL-G", base.Add(-time.Hour), brand, creator),
		nil,
	}
	records[1].CurrentOffer = &model.Offer{Amount: model.MustParseMoney("₹4000"), OfferedBy: model.RoleBrand}
	final := model.MustParseMoney("₹5000")
	records[2].FinalAmount = &final

	t.Run("brand viewer", func(t *testing.T) {
		out := Group(records, Actor{UserID: brand.ID, Role: model.RoleBrand})

		require.Len(t, out.Pending, 3)
		assert.Equal(t, "COL-C", out.Pending[0].CollabID)
		assert.Equal(t, "COL-A", out.Pending[1].CollabID)
		assert.Equal(t, "COL-B", out.Pending[2].CollabID)

		require.Len(t, out.Active, 2)
		assert.Equal(t, "COL-E", out.Active[0].CollabID)

		require.Len(t, out.Archived, 2)
		assert.Equal(t, "COL-F", out.Archived[0].CollabID)

		assert.Equal(t, "Riya", out.Pending[0].PartnerName)
		assert.Equal(t, "riya.png", out.Pending[0].PartnerAvatar)
		assert.Equal(t, model.RoleInfluencer, out.Pending[0].PartnerRole)
		require.NotNil(t, out.Pending[0].Amount)
		assert.Equal(t, "₹5000", out.Pending[0].Amount.String())
		require.NotNil(t, out.Pending[1].Amount)
		assert.Equal(t, "₹4000", out.Pending[1].Amount.String())
		assert.Nil(t, out.Pending[2].Amount)
	})

	t.Run("creator viewer sees the brand", func(t *testing.T) {
		out := Group(records, Actor{UserID: creator.ID, Role: model.RoleInfluencer})
		for _, item := range append(append(out.Pending, out.Active...), out.Archived...) {
			assert.Equal(t, "Acme", item.PartnerName)
		}
	})

	t.Run("empty input yields empty buckets", func(t *testing.T) {
		out := Group(nil, Actor{UserID: brand.ID})
		assert.NotNil(t, out.Pending)
		assert.Empty(t, out.Pending)
		assert.Empty(t, out.Active)
		assert.Empty(t, out.Archived)
	})
}
