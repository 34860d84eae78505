package collaboration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabhub/server/internal/model"
)

func TestAdapterFor(t *testing.T) {
	tests := []struct {
		kind           model.CollaborationKind
		requester      model.Role
		fulfiller      model.Role
		initiator      model.Role
		initial        model.CollaborationStatus
		requesterOffer model.CollaborationStatus
		fulfillerOffer model.CollaborationStatus
	}{
		{model.KindDirect, model.RoleBrand, model.RoleInfluencer, model.RoleBrand, model.StatusPending, model.StatusBrandOffer, model.StatusInfluencerOffer},
		{model.KindCampaign, model.RoleBrand, model.RoleInfluencer, model.RoleInfluencer, model.StatusPendingBrandReview, model.StatusBrandCounterOffer, model.StatusInfluencerCounterOffer},
		{model.KindAdSlot, model.RoleBrand, model.RoleChannel, model.RoleBrand, model.StatusPendingApproval, model.StatusBrandOffer, model.StatusChannelOffer},
		{model.KindBanner, model.RoleBrand, model.RoleAgency, model.RoleBrand, model.StatusPendingApproval, model.StatusBrandOffer, model.StatusAgencyOffer},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			a, err := AdapterFor(tt.kind)
			require.NoError(t, err)

			assert.Equal(t, tt.kind, a.Kind())
			assert.Equal(t, tt.requester, a.RequesterRole())
			assert.Equal(t, tt.fulfiller, a.FulfillerRole())
			assert.Equal(t, tt.initiator, a.InitiatorRole())
			assert.Equal(t, tt.initial, a.InitialStatus())

			got, ok := a.OfferStatus(tt.requester)
			assert.True(t, ok)
			assert.Equal(t, tt.requesterOffer, got)

			got, ok = a.OfferStatus(tt.fulfiller)
			assert.True(t, ok)
			assert.Equal(t, tt.fulfillerOffer, got)

			_, ok = a.OfferStatus(model.RoleStaff)
			assert.False(t, ok)
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		_, err := AdapterFor("podcast")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestAdapter_ApplyRequest(t *testing.T) {
	t.Run("direct defaults the title", func(t *testing.T) {
		a, _ := AdapterFor(model.KindDirect)
		c := &model.Collaboration{}
		require.NoError(t, a.ApplyRequest(c, &model.CreateCollaborationRequest{Message: "  hi  "}))
		assert.Equal(t, "Direct collaboration", c.Title)
		assert.Equal(t, "hi", c.Message)
	})

	t.Run("campaign requires subject and title", func(t *testing.T) {
		a, _ := AdapterFor(model.KindCampaign)

		err := a.ApplyRequest(&model.Collaboration{}, &model.CreateCollaborationRequest{Title: "Summer"})
		assert.ErrorIs(t, err, ErrValidation)

		err = a.ApplyRequest(&model.Collaboration{}, &model.CreateCollaborationRequest{SubjectID: "cmp-1"})
		assert.ErrorIs(t, err, ErrValidation)

		c := &model.Collaboration{}
		require.NoError(t, a.ApplyRequest(c, &model.CreateCollaborationRequest{SubjectID: "cmp-1", Title: "Summer"}))
		assert.Equal(t, "cmp-1", c.SubjectID)
		assert.Equal(t, "Summer", c.Title)
	})
}
