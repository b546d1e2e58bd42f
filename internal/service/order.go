package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recipeshare/backend/internal/models"
)

// OrderService persists booking orders. Same store pattern as recipes:
// validate, then write; never a partial write.
type OrderService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewOrderService creates a new OrderService instance
func NewOrderService(db *gorm.DB, logger *zap.Logger) *OrderService {
	return &OrderService{
		db:     db,
		logger: logger,
	}
}

// CreateOrder persists a booking order. A missing status defaults to
// pending before validation; that is order intake behavior, not a recipe
// store concern.
func (s *OrderService) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if messages := order.Validate(); len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	order.ID = uuid.New()
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns all orders, most recent first.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
