package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/restaurant_admin/internal/models"
)

type CreateMenuRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category"`
	ImageURL    string           `json:"image_url"`
	IsAvailable *bool            `json:"is_available"`
}

type PatchMenuRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"image_url"`
	IsAvailable *bool            `json:"is_available"`
}

type OrderItemRequest struct {
	MenuID   uint `json:"menu_id"`
	Quantity int  `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerName string             `json:"customer_name"`
	Notes        string             `json:"notes"`
	Items        []OrderItemRequest `json:"items"`
}

// UpdateOrderRequest: nil means "leave as is"; a non-nil Items replaces every line.
type UpdateOrderRequest struct {
	CustomerName *string             `json:"customer_name"`
	Status       *string             `json:"status"`
	Notes        *string             `json:"notes"`
	Items        *[]OrderItemRequest `json:"items"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type OrderLineResponse struct {
	ID        uint            `json:"id"`
	MenuID    uint            `json:"menu_id"`
	MenuName  string          `json:"menu_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID           uint                `json:"id"`
	CustomerName string              `json:"customer_name"`
	Status       models.OrderStatus  `json:"status"`
	Total        decimal.Decimal     `json:"total"`
	Notes        string              `json:"notes"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Items        []OrderLineResponse `json:"items"`
}

func NewOrderResponse(o models.Order) OrderResponse {
	items := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, OrderLineResponse{
			ID:        l.ID,
			MenuID:    l.MenuItemID,
			MenuName:  l.MenuName(),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
		})
	}
	return OrderResponse{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Status:       o.Status,
		Total:        o.Total,
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Items:        items,
	}
}

func NewOrderResponses(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}

type AdminResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func NewAdminResponse(a models.Admin) AdminResponse {
	return AdminResponse{ID: a.ID, Username: a.Username, Role: a.Role}
}
