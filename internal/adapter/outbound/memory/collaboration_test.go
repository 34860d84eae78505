package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabhub/server/internal/model"
	"github.com/collabhub/server/internal/port/outbound"
)

func newRecord(brand, influencer uuid.UUID) *model.Collaboration {
	return &model.Collaboration{
		ID:        uuid.New(),
		CollabID:  "COL-20260101-" + uuid.NewString()[:5],
		Kind:      model.KindDirect,
		Title:     "Launch video",
		Requester: model.Party{ID: brand, Role: model.RoleBrand, Name: "Acme"},
		Fulfiller: model.Party{ID: influencer, Role: model.RoleInfluencer, Name: "Riya"},
		Status:    model.StatusPending,
		Version:   1,
		UpdatedAt: time.Now(),
	}
}

func TestCollaborationStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewCollaborationStore()
	brand, influencer := uuid.New(), uuid.New()

	rec := newRecord(brand, influencer)
	require.NoError(t, store.Create(ctx, rec))

	t.Run("find by id returns a copy", func(t *testing.T) {
		got, err := store.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		got.Title = "changed"

		again, err := store.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "Launch video", again.Title)
	})

	t.Run("missing id returns nil", func(t *testing.T) {
		got, err := store.FindByID(ctx, uuid.New())
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate collab id is refused", func(t *testing.T) {
		dup := newRecord(brand, influencer)
		dup.CollabID = rec.CollabID
		assert.Error(t, store.Create(ctx, dup))
	})

	t.Run("find by participant and filter", func(t *testing.T) {
		other := newRecord(brand, uuid.New())
		other.Kind = model.KindBanner
		require.NoError(t, store.Create(ctx, other))

		all, err := store.FindByParticipant(ctx, brand, nil)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		kind := model.KindBanner
		banners, err := store.FindByParticipant(ctx, brand, &model.CollaborationFilter{Kind: &kind})
		require.NoError(t, err)
		require.Len(t, banners, 1)
		assert.Equal(t, other.ID, banners[0].ID)

		mine, err := store.FindByParticipant(ctx, influencer, nil)
		require.NoError(t, err)
		assert.Len(t, mine, 1)
	})
}

func TestCollaborationStore_Update(t *testing.T) {
	ctx := context.Background()
	store := NewCollaborationStore()
	rec := newRecord(uuid.New(), uuid.New())
	rec.Message = "original message"
	require.NoError(t, store.Create(ctx, rec))

	t.Run("writes only named columns", func(t *testing.T) {
		next := rec.Clone()
		next.Status = model.StatusInfluencerOffer
		next.CurrentOffer = &model.Offer{Amount: model.MustParseMoney("₹5000"), OfferedBy: model.RoleInfluencer}
		next.Message = "should not be written"
		next.Version = 2

		require.NoError(t, store.Update(ctx, next, 1, "status", "current_offer"))

		got, err := store.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusInfluencerOffer, got.Status)
		assert.Equal(t, "original message", got.Message)
		assert.Equal(t, int64(2), got.Version)
		require.NotNil(t, got.CurrentOffer)
		assert.Equal(t, model.RoleInfluencer, got.CurrentOffer.OfferedBy)
	})

	t.Run("stale version conflicts and leaves record untouched", func(t *testing.T) {
		stale := rec.Clone()
		stale.Status = model.StatusRejected
		stale.Version = 2

		err := store.Update(ctx, stale, 1, "status")
		assert.ErrorIs(t, err, outbound.ErrVersionConflict)

		got, err := store.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusInfluencerOffer, got.Status)
	})

	t.Run("unknown column is an error", func(t *testing.T) {
		next := rec.Clone()
		next.Version = 3
		assert.Error(t, store.Update(ctx, next, 2, "kind"))
	})
}

func TestUsageCounter(t *testing.T) {
	ctx := context.Background()
	c := NewUsageCounter()
	id := uuid.New()

	n, err := c.Increment(ctx, id, outbound.UsageRequests)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Increment(ctx, id, outbound.UsageRequests)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := c.Get(ctx, id, outbound.UsageCompleted)
	require.NoError(t, err)
	assert.Zero(t, got)
}
