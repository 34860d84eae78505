package collaboration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/collabhub/server/internal/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from model.CollaborationStatus
		to   model.CollaborationStatus
		want bool
	}{
		{model.StatusPending, model.StatusInfluencerOffer, true},
		{model.StatusPending, model.StatusRejected, true},
		{model.StatusPending, model.StatusAgreementReached, false},
		{model.StatusPending, model.StatusInProgress, false},
		{model.StatusInfluencerOffer, model.StatusBrandOffer, true},
		{model.StatusInfluencerOffer, model.StatusInfluencerOffer, false},
		{model.StatusBrandOffer, model.StatusAgreementReached, true},
		{model.StatusPendingBrandReview, model.StatusBrandCounterOffer, true},
		{model.StatusPendingApproval, model.StatusChannelOffer, true},
		{model.StatusAgreementReached, model.StatusInProgress, true},
		{model.StatusAgreementReached, model.StatusRejected, false},
		{model.StatusInProgress, model.StatusWorkSubmitted, true},
		{model.StatusInProgress, model.StatusCompleted, false},
		{model.StatusWorkSubmitted, model.StatusCompleted, true},
		{model.StatusCompleted, model.StatusDisputed, true},
		{model.StatusCompleted, model.StatusRejected, false},
		{model.StatusDisputed, model.StatusBrandDecisionPending, true},
		{model.StatusDisputed, model.StatusCompleted, false},
		{model.StatusBrandDecisionPending, model.StatusRefundPendingAdminReview, true},
		{model.StatusBrandDecisionPending, model.StatusCompleted, true},
		{model.StatusRefundPendingAdminReview, model.StatusRejected, true},
		{model.StatusRefundPendingAdminReview, model.StatusCompleted, true},
		{model.StatusRejected, model.StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestAllowedTransitions(t *testing.T) {
	t.Run("rejected is terminal", func(t *testing.T) {
		assert.Empty(t, AllowedTransitions(model.StatusRejected))
		assert.True(t, IsTerminal(model.StatusRejected))
	})

	t.Run("unknown status has no edges", func(t *testing.T) {
		assert.Empty(t, AllowedTransitions(model.CollaborationStatus("bogus")))
	})

	t.Run("returns a copy", func(t *testing.T) {
		allowed := AllowedTransitions(model.StatusAgreementReached)
		allowed[0] = model.StatusRejected
		assert.Equal(t, []model.CollaborationStatus{model.StatusInProgress}, AllowedTransitions(model.StatusAgreementReached))
	})

	t.Run("every known status has an entry", func(t *testing.T) {
		for _, s := range KnownStatuses() {
			_, ok := transitions[s]
			assert.True(t, ok, s)
		}
	})
}

func TestStatusClassification(t *testing.T) {
	assert.True(t, IsInitial(model.StatusPendingBrandReview))
	assert.False(t, IsInitial(model.StatusBrandOffer))
	assert.True(t, IsOffer(model.StatusAgencyOffer))
	assert.False(t, IsOffer(model.StatusAgreementReached))
	assert.True(t, IsKnownStatus(model.StatusRefundPendingAdminReview))
	assert.False(t, IsKnownStatus(model.CollaborationStatus("bogus")))
}
