package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
)

// Order is a booking order extracted from a chat conversation. The recipe
// field references a recipe by name only; orders and recipes share no keys.
type Order struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Restaurant string    `gorm:"size:255;not null" json:"restaurant"`
	Recipe     string    `gorm:"size:255;not null" json:"recipe"`
	Date       string    `gorm:"size:50" json:"date"`
	Time       string    `gorm:"size:10" json:"time"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Status     string    `gorm:"size:20;not null" json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Validate checks the presence constraints for an order.
func (o *Order) Validate() []string {
	var messages []string

	if strings.TrimSpace(o.Restaurant) == "" {
		messages = append(messages, "Restaurant is required")
	}
	if strings.TrimSpace(o.Recipe) == "" {
		messages = append(messages, "Recipe name is required")
	}
	if o.Quantity < 1 {
		messages = append(messages, "Quantity must be at least 1")
	}
	switch o.Status {
	case OrderStatusPending, OrderStatusConfirmed:
	default:
		messages = append(messages, "Status must be pending or confirmed")
	}

	return messages
}
