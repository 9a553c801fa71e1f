package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type MenuItem struct {
	ID          uint            `gorm:"primaryKey"                  json:"id"`
	Name        string          `gorm:"size:100;not null;index"     json:"name"`
	Description string          `gorm:"type:text"                   json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Category    string          `gorm:"size:50;not null;index"      json:"category"`
	ImageURL    string          `gorm:"size:255"                    json:"image_url"`
	IsAvailable bool            `gorm:"not null"                    json:"is_available"`
	CreatedAt   time.Time       `gorm:"index"                       json:"created_at"`
	UpdatedAt   time.Time       `                                   json:"updated_at"`
}

type Order struct {
	ID           uint            `gorm:"primaryKey"                          json:"id"`
	CustomerName string          `gorm:"size:100;not null"                   json:"customer_name"`
	Status       OrderStatus     `gorm:"size:20;not null;index"              json:"status"`
	Total        decimal.Decimal `gorm:"type:numeric(12,2);not null"         json:"total"`
	Notes        string          `gorm:"type:text"                           json:"notes"`
	CreatedAt    time.Time       `gorm:"index"                               json:"created_at"`
	UpdatedAt    time.Time       `                                           json:"updated_at"`
	Lines        []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderLine keeps its own copy of the price; the catalog is consulted only for the name.
type OrderLine struct {
	ID         uint            `gorm:"primaryKey"                   json:"id"`
	OrderID    uint            `gorm:"not null;index"               json:"order_id"`
	MenuItemID uint            `gorm:"not null;index"               json:"menu_id"`
	Quantity   int             `gorm:"not null;check:quantity > 0"  json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null"  json:"unit_price"`
	MenuItem   *MenuItem       `gorm:"foreignKey:MenuItemID"        json:"-"`
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l OrderLine) MenuName() string {
	if l.MenuItem == nil {
		return ""
	}
	return l.MenuItem.Name
}

type Admin struct {
	ID           uint      `gorm:"primaryKey"               json:"id"`
	Username     string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null"        json:"-"`
	Role         string    `gorm:"size:20;not null"         json:"role"`
	CreatedAt    time.Time `                                json:"created_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"           json:"id"`
	AdminID   uint   `gorm:"index;not null"       json:"admin_id"`
	Token     string `gorm:"uniqueIndex;not null" json:"-"`
	JTI       string `gorm:"uniqueIndex;not null" json:"jti"`
	ExpiresAt int64  `gorm:"not null"             json:"expires_at"`
	Revoked   bool   `gorm:"not null"             json:"revoked"`
}

func All() []any {
	return []any{&MenuItem{}, &Order{}, &OrderLine{}, &Admin{}, &RefreshToken{}}
}
