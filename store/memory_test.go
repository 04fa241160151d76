package store

import (
	"context"
	"testing"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStoreVersioning(t *testing.T) {
	ctx := context.Background()
	st := NewMemorySessionStore()

	_, err := st.Load(ctx, "919000000001")
	assert.ErrorIs(t, err, ErrNotFound)

	s := models.NewSession("919000000001", time.Now())
	require.NoError(t, st.Save(ctx, s))
	assert.Equal(t, int64(1), s.Version)

	first, err := st.Load(ctx, "919000000001")
	require.NoError(t, err)
	second, err := st.Load(ctx, "919000000001")
	require.NoError(t, err)

	first.ConversationState.CurrentStep = models.StepMainMenu
	require.NoError(t, st.Save(ctx, first))

	second.ConversationState.CurrentStep = models.StepViewingCart
	assert.ErrorIs(t, st.Save(ctx, second), ErrVersionConflict)

	loaded, err := st.Load(ctx, "919000000001")
	require.NoError(t, err)
	assert.Equal(t, models.StepMainMenu, loaded.ConversationState.CurrentStep)
	assert.Equal(t, int64(2), loaded.Version)
}

func TestMemorySessionStoreRejectsSecondCreate(t *testing.T) {
	ctx := context.Background()
	st := NewMemorySessionStore()

	require.NoError(t, st.Save(ctx, models.NewSession("c1", time.Now())))
	assert.ErrorIs(t, st.Save(ctx, models.NewSession("c1", time.Now())), ErrVersionConflict)
}

func TestMemorySessionStoreIsolatesCopies(t *testing.T) {
	ctx := context.Background()
	st := NewMemorySessionStore()

	s := models.NewSession("c1", time.Now())
	s.Cart = append(s.Cart, models.NewCatalogLine("idli", 1, time.Now()))
	require.NoError(t, st.Save(ctx, s))

	s.Cart[0].Quantity = 99

	loaded, err := st.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Cart[0].Quantity)
}

func TestMemoryOrderStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryOrderStore()
	base := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"o1", "o2", "o3"} {
		require.NoError(t, st.Create(ctx, models.Order{
			ID:         id,
			CustomerID: "c1",
			Status:     models.OrderStatusPending,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, st.Create(ctx, models.Order{ID: "other", CustomerID: "c2", CreatedAt: base}))
	assert.ErrorIs(t, st.Create(ctx, models.Order{ID: "o1"}), ErrAlreadyExists)

	recent, err := st.FindRecentOrders(ctx, "c1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "o3", recent[0].ID)
	assert.Equal(t, "o2", recent[1].ID)

	require.NoError(t, st.UpdateStatus(ctx, "o1", models.OrderStatusAwaitingPayment, "https://pay.example/o1"))
	got, err := st.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAwaitingPayment, got.Status)
	assert.Equal(t, "https://pay.example/o1", got.PaymentURL)

	require.NoError(t, st.UpdateStatus(ctx, "o1", models.OrderStatusConfirmed, ""))
	got, err = st.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/o1", got.PaymentURL)

	assert.ErrorIs(t, st.UpdateStatus(ctx, "missing", models.OrderStatusConfirmed, ""), ErrNotFound)
	_, err = st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaticCatalogReplace(t *testing.T) {
	ctx := context.Background()
	c := NewStaticCatalog(nil)

	snap, err := c.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)

	c.Replace(&models.Snapshot{Items: []models.CatalogItem{{ID: "idli"}}})
	snap, err = c.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Items, 1)
}
