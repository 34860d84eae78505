package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/collabhub/server/internal/model"
	"github.com/collabhub/server/internal/port/outbound"
)

// collaborationStore implements outbound.CollaborationDatabasePort in memory.
// Records are cloned on the way in and out.
type collaborationStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*model.Collaboration
}

// NewCollaborationStore creates an empty in-memory collaboration store.
func NewCollaborationStore() outbound.CollaborationDatabasePort {
	return &collaborationStore{records: make(map[uuid.UUID]*model.Collaboration)}
}

func (s *collaborationStore) Create(ctx context.Context, collab *model.Collaboration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if collab.ID == uuid.Nil {
		collab.ID = uuid.New()
	}
	if _, exists := s.records[collab.ID]; exists {
		return fmt.Errorf("collaboration %s already exists", collab.ID)
	}
	for _, r := range s.records {
		if r.CollabID == collab.CollabID {
			return fmt.Errorf("collab id %s already exists", collab.CollabID)
		}
	}
	if collab.Version == 0 {
		collab.Version = 1
	}
	s.records[collab.ID] = collab.Clone()
	return nil
}

func (s *collaborationStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Collaboration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return r.Clone(), nil
}

func (s *collaborationStore) FindByParticipant(ctx context.Context, userID uuid.UUID, filter *model.CollaborationFilter) ([]*model.Collaboration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Collaboration, 0)
	for _, r := range s.records {
		if !r.IsParticipant(userID) {
			continue
		}
		if filter != nil {
			if filter.Kind != nil && r.Kind != *filter.Kind {
				continue
			}
			if filter.Status != nil && r.Status != *filter.Status {
				continue
			}
		}
		result = append(result, r.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (s *collaborationStore) Update(ctx context.Context, collab *model.Collaboration, expectedVersion int64, columns ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.records[collab.ID]
	if !ok || stored.Version != expectedVersion {
		return outbound.ErrVersionConflict
	}

	next := stored.Clone()
	for _, col := range columns {
		if err := applyColumn(next, collab, col); err != nil {
			return err
		}
	}
	next.Version = collab.Version
	next.UpdatedAt = collab.UpdatedAt
	s.records[collab.ID] = next
	return nil
}

// applyColumn copies one named column from src onto dst.
func applyColumn(dst, src *model.Collaboration, column string) error {
	switch column {
	case "title":
		dst.Title = src.Title
	case "message":
		dst.Message = src.Message
	case "status":
		dst.Status = src.Status
	case "current_offer":
		dst.CurrentOffer = src.Clone().CurrentOffer
	case "final_amount":
		dst.FinalAmount = src.Clone().FinalAmount
	case "payment_status":
		dst.PaymentStatus = src.PaymentStatus
	case "payment_reference":
		dst.PaymentReference = src.PaymentReference
	case "work_status":
		dst.WorkStatus = src.WorkStatus
	case "rejection_reason":
		dst.RejectionReason = src.RejectionReason
	case "dispute_reason":
		dst.DisputeReason = src.DisputeReason
	case "disputed_by":
		dst.DisputedBy = src.DisputedBy
	case "payout":
		dst.Payout = src.Clone().Payout
	default:
		return fmt.Errorf("unknown column %q", column)
	}
	return nil
}

var _ outbound.CollaborationDatabasePort = (*collaborationStore)(nil)
