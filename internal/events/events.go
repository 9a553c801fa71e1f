package events

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/restaurant_admin/internal/models"
)

const (
	MenuCreated = "menu_created"
	MenuUpdated = "menu_updated"
	MenuDeleted = "menu_deleted"

	OrderCreated = "order_created"
	OrderUpdated = "order_updated"
	OrderDeleted = "order_deleted"
)

type MenuEvent struct {
	Type        string           `json:"type"`
	MenuID      uint             `json:"menuID"`
	Name        string           `json:"name,omitempty"`
	Category    string           `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	IsAvailable bool             `json:"is_available"`
	At          time.Time        `json:"at"`
}

type OrderEvent struct {
	Type      string             `json:"type"`
	OrderID   uint               `json:"orderID"`
	Status    models.OrderStatus `json:"status,omitempty"`
	Total     *decimal.Decimal   `json:"total,omitempty"`
	LineCount int                `json:"line_count"`
	At        time.Time          `json:"at"`
}

func NewMenuEvent(typ string, m models.MenuItem) MenuEvent {
	price := m.Price
	return MenuEvent{
		Type:        typ,
		MenuID:      m.ID,
		Name:        m.Name,
		Category:    m.Category,
		Price:       &price,
		IsAvailable: m.IsAvailable,
		At:          time.Now().UTC(),
	}
}

func NewOrderEvent(typ string, o models.Order) OrderEvent {
	total := o.Total
	return OrderEvent{
		Type:      typ,
		OrderID:   o.ID,
		Status:    o.Status,
		Total:     &total,
		LineCount: len(o.Lines),
		At:        time.Now().UTC(),
	}
}

func Key(id uint) string { return strconv.FormatUint(uint64(id), 10) }
