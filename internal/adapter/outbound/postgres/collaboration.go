package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/collabhub/server/internal/model"
	"github.com/collabhub/server/internal/port/outbound"
)

// collaborationAdapter implements outbound.CollaborationDatabasePort.
type collaborationAdapter struct {
	db *gorm.DB
}

// NewCollaborationAdapter creates a new collaboration database adapter.
func NewCollaborationAdapter(db *gorm.DB) outbound.CollaborationDatabasePort {
	return &collaborationAdapter{db: db}
}

func (a *collaborationAdapter) Create(ctx context.Context, collab *model.Collaboration) error {
	if collab.ID == uuid.Nil {
		collab.ID = uuid.New()
	}
	return a.db.WithContext(ctx).Create(collab).Error
}

func (a *collaborationAdapter) FindByID(ctx context.Context, id uuid.UUID) (*model.Collaboration, error) {
	var collab model.Collaboration
	err := a.db.WithContext(ctx).First(&collab, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &collab, nil
}

func (a *collaborationAdapter) FindByParticipant(ctx context.Context, userID uuid.UUID, filter *model.CollaborationFilter) ([]*model.Collaboration, error) {
	var records []*model.Collaboration

	query := a.db.WithContext(ctx).
		Model(&model.Collaboration{}).
		Where("requester_id = ? OR fulfiller_id = ?", userID, userID)

	// Apply filters
	if filter != nil {
		if filter.Kind != nil {
			query = query.Where("kind = ?", string(*filter.Kind))
		}
		if filter.Status != nil {
			query = query.Where("status = ?", string(*filter.Status))
		}
	}

	if err := query.Order("updated_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (a *collaborationAdapter) Update(ctx context.Context, collab *model.Collaboration, expectedVersion int64, columns ...string) error {
	selected := append(append([]string{}, columns...), "version", "updated_at")

	result := a.db.WithContext(ctx).
		Model(&model.Collaboration{}).
		Where("id = ? AND version = ?", collab.ID, expectedVersion).
		Select(selected).
		Updates(collab)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return outbound.ErrVersionConflict
	}
	return nil
}

// Migrate creates or updates the collaborations table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Collaboration{})
}

var _ outbound.CollaborationDatabasePort = (*collaborationAdapter)(nil)
