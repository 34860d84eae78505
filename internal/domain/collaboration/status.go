package collaboration

import "github.com/collabhub/server/internal/model"

// initialStatuses are the states a fresh request can start in, depending on kind.
var initialStatuses = []model.CollaborationStatus{
	model.StatusPending,
	model.StatusPendingBrandReview,
	model.StatusPendingApproval,
}

// offerStatuses are the open-negotiation states.
var offerStatuses = []model.CollaborationStatus{
	model.StatusInfluencerOffer,
	model.StatusBrandOffer,
	model.StatusBrandCounterOffer,
	model.StatusInfluencerCounterOffer,
	model.StatusAgencyOffer,
	model.StatusChannelOffer,
}

// transitions defines the directed status graph. Kind adapters narrow the
// offer edges further; anything missing here is never legal.
var transitions = buildTransitions()

func buildTransitions() map[model.CollaborationStatus][]model.CollaborationStatus {
	t := make(map[model.CollaborationStatus][]model.CollaborationStatus)

	negotiating := append([]model.CollaborationStatus{model.StatusRejected}, offerStatuses...)
	for _, s := range initialStatuses {
		t[s] = negotiating
	}
	for _, s := range offerStatuses {
		next := []model.CollaborationStatus{model.StatusAgreementReached, model.StatusRejected}
		for _, o := range offerStatuses {
			if o != s {
				next = append(next, o)
			}
		}
		t[s] = next
	}

	t[model.StatusAgreementReached] = []model.CollaborationStatus{model.StatusInProgress}
	t[model.StatusInProgress] = []model.CollaborationStatus{model.StatusWorkSubmitted, model.StatusDisputed}
	t[model.StatusWorkSubmitted] = []model.CollaborationStatus{model.StatusCompleted, model.StatusDisputed}
	t[model.StatusCompleted] = []model.CollaborationStatus{model.StatusDisputed}
	t[model.StatusDisputed] = []model.CollaborationStatus{model.StatusBrandDecisionPending}
	t[model.StatusBrandDecisionPending] = []model.CollaborationStatus{model.StatusRefundPendingAdminReview, model.StatusCompleted}
	t[model.StatusRefundPendingAdminReview] = []model.CollaborationStatus{model.StatusRejected, model.StatusCompleted}
	t[model.StatusRejected] = []model.CollaborationStatus{} // Terminal state

	return t
}

// CanTransition checks if moving from one status to another follows an edge of the graph.
func CanTransition(from, to model.CollaborationStatus) bool {
	for _, a := range transitions[from] {
		if a == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns all statuses reachable in one step from the given status.
func AllowedTransitions(from model.CollaborationStatus) []model.CollaborationStatus {
	allowed, ok := transitions[from]
	if !ok {
		return []model.CollaborationStatus{}
	}
	result := make([]model.CollaborationStatus, len(allowed))
	copy(result, allowed)
	return result
}

// KnownStatuses returns every status of the graph.
func KnownStatuses() []model.CollaborationStatus {
	result := make([]model.CollaborationStatus, 0, len(transitions))
	for _, s := range allStatuses {
		result = append(result, s)
	}
	return result
}

var allStatuses = []model.CollaborationStatus{
	model.StatusPending,
	model.StatusPendingBrandReview,
	model.StatusPendingApproval,
	model.StatusInfluencerOffer,
	model.StatusBrandOffer,
	model.StatusBrandCounterOffer,
	model.StatusInfluencerCounterOffer,
	model.StatusAgencyOffer,
	model.StatusChannelOffer,
	model.StatusAgreementReached,
	model.StatusInProgress,
	model.StatusWorkSubmitted,
	model.StatusCompleted,
	model.StatusDisputed,
	model.StatusBrandDecisionPending,
	model.StatusRefundPendingAdminReview,
	model.StatusRejected,
}

// IsKnownStatus reports whether s is part of the graph.
func IsKnownStatus(s model.CollaborationStatus) bool {
	return contains(allStatuses, s)
}

// IsInitial reports whether s is a fresh-request status.
func IsInitial(s model.CollaborationStatus) bool {
	return contains(initialStatuses, s)
}

// IsOffer reports whether s is an open-negotiation status.
func IsOffer(s model.CollaborationStatus) bool {
	return contains(offerStatuses, s)
}

// IsTerminal reports whether no further edge leaves s.
func IsTerminal(s model.CollaborationStatus) bool {
	return s == model.StatusRejected
}

func contains(list []model.CollaborationStatus, s model.CollaborationStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
