package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/recipeshare/backend/internal/models"
)

func setupOrderService(t *testing.T) *OrderService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}))
	return NewOrderService(db, zap.NewNop())
}

func TestCreateOrderDefaultsStatus(t *testing.T) {
	svc := setupOrderService(t)

	created, err := svc.CreateOrder(context.Background(), &models.Order{
		Restaurant: "Trattoria",
		Recipe:     "Carbonara",
		Date:       "today",
		Time:       "19:00",
		Quantity:   2,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, models.OrderStatusPending, created.Status)
}

func TestCreateOrderInvalid(t *testing.T) {
	svc := setupOrderService(t)

	_, err := svc.CreateOrder(context.Background(), &models.Order{
		Restaurant: "Trattoria",
	})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Messages, "Recipe name is required")
	assert.Contains(t, ve.Messages, "Quantity must be at least 1")
}

func TestListOrdersNewestFirst(t *testing.T) {
	svc := setupOrderService(t)
	ctx := context.Background()

	first, err := svc.CreateOrder(ctx, &models.Order{
		Restaurant: "Trattoria", Recipe: "Carbonara", Quantity: 1,
	})
	require.NoError(t, err)

	second := &models.Order{
		Restaurant: "Bistro", Recipe: "Ratatouille", Quantity: 3,
		CreatedAt: first.CreatedAt.Add(time.Second),
	}
	_, err = svc.CreateOrder(ctx, second)
	require.NoError(t, err)

	orders, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "Bistro", orders[0].Restaurant)
	assert.Equal(t, "Trattoria", orders[1].Restaurant)
}
