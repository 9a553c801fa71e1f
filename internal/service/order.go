package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/restaurant_admin/internal/events"
	"github.com/Skotchmaster/restaurant_admin/internal/models"
	"github.com/Skotchmaster/restaurant_admin/internal/repo"
	"github.com/Skotchmaster/restaurant_admin/internal/transport"
	"github.com/Skotchmaster/restaurant_admin/pkg/logging"
)

// MaxLineQuantity caps a single line; larger kitchen orders are split by hand.
const MaxLineQuantity = 1000

type OrderService struct {
	Repo   *repo.GormRepo
	Events Publisher
	Topic  string
}

// CreateOrder persists a pending order with its lines and total in one transaction.
// Every line copies the menu item's current price.
func (s *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create")

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, fmt.Errorf("%w: customer_name is required", ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items must contain at least one entry", ErrValidation)
	}
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerName: name,
		Notes:        req.Notes,
		Status:       models.OrderStatusPending,
	}

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		lines, err := priceLines(ctx, tx, req.Items)
		if err != nil {
			return err
		}
		if err := applyTotal(order, lines); err != nil {
			return err
		}

		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		return tx.CreateLines(ctx, lines)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.Repo.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	l.Info("order_created", "order_id", created.ID, "lines", len(created.Lines), "total", created.Total.String())
	publish(ctx, s.Events, s.Topic, events.Key(created.ID), events.NewOrderEvent(events.OrderCreated, *created))
	return created, nil
}

// UpdateOrder applies the supplied fields atomically. A non-nil Items replaces
// every line and recomputes the total; otherwise lines and total are untouched.
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, req transport.UpdateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update", "order_id", id)

	var name string
	if req.CustomerName != nil {
		name = strings.TrimSpace(*req.CustomerName)
		if name == "" {
			return nil, fmt.Errorf("%w: customer_name must not be empty", ErrValidation)
		}
	}
	var status models.OrderStatus
	if req.Status != nil {
		var err error
		if status, err = parseStatus(*req.Status); err != nil {
			return nil, err
		}
	}
	if req.Items != nil {
		if err := validateItems(*req.Items); err != nil {
			return nil, err
		}
	}

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		order, err := tx.LockOrder(ctx, id)
		if err != nil {
			return notFound(err, fmt.Sprintf("order %d", id))
		}

		if req.CustomerName != nil {
			order.CustomerName = name
		}
		if req.Status != nil {
			order.Status = status
		}
		if req.Notes != nil {
			order.Notes = *req.Notes
		}

		if req.Items != nil {
			lines, err := priceLines(ctx, tx, *req.Items)
			if err != nil {
				return err
			}
			if err := applyTotal(order, lines); err != nil {
				return err
			}
			if err := tx.DeleteLines(ctx, order.ID); err != nil {
				return err
			}
			for i := range lines {
				lines[i].OrderID = order.ID
			}
			if err := tx.CreateLines(ctx, lines); err != nil {
				return err
			}
		}

		return tx.SaveOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	l.Info("order_updated", "status", string(updated.Status), "lines_replaced", req.Items != nil, "total", updated.Total.String())
	publish(ctx, s.Events, s.Topic, events.Key(updated.ID), events.NewOrderEvent(events.OrderUpdated, *updated))
	return updated, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	return s.UpdateOrder(ctx, id, transport.UpdateOrderRequest{Status: &status})
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("order %d", id))
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, status string, offset, limit int) (int64, []models.Order, error) {
	st, err := parseStatusFilter(status)
	if err != nil {
		return 0, nil, err
	}
	return s.Repo.ListOrders(ctx, st, offset, limit)
}

// OrdersForReport returns every order matching the optional status filter.
func (s *OrderService) OrdersForReport(ctx context.Context, status string) ([]models.Order, error) {
	st, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	return s.Repo.AllOrders(ctx, st)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		return notFound(tx.DeleteOrder(ctx, id), fmt.Sprintf("order %d", id))
	})
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Info("order_deleted", "order_id", id)
	publish(ctx, s.Events, s.Topic, events.Key(id), events.OrderEvent{Type: events.OrderDeleted, OrderID: id})
	return nil
}

func validateItems(items []transport.OrderItemRequest) error {
	for i, it := range items {
		if it.MenuID == 0 {
			return fmt.Errorf("%w: items[%d].menu_id is required", ErrValidation, i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d].quantity must be greater than 0", ErrValidation, i)
		}
		if it.Quantity > MaxLineQuantity {
			return fmt.Errorf("%w: items[%d].quantity must not exceed %d", ErrValidation, i, MaxLineQuantity)
		}
	}
	return nil
}

// priceLines resolves every requested item inside tx and freezes its current price.
func priceLines(ctx context.Context, tx *repo.GormRepo, items []transport.OrderItemRequest) ([]models.OrderLine, error) {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.MenuID)
	}

	menus, err := tx.GetMenusByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]models.OrderLine, 0, len(items))
	for i, it := range items {
		m, ok := menus[it.MenuID]
		if !ok {
			return nil, fmt.Errorf("%w: items[%d]: menu item %d does not exist", ErrNotFound, i, it.MenuID)
		}
		if !m.IsAvailable {
			return nil, fmt.Errorf("%w: items[%d]: menu item %q is not available", ErrConflict, i, m.Name)
		}
		lines = append(lines, models.OrderLine{
			MenuItemID: m.ID,
			Quantity:   it.Quantity,
			UnitPrice:  m.Price,
		})
	}
	return lines, nil
}

func parseStatus(s string) (models.OrderStatus, error) {
	st := models.OrderStatus(strings.TrimSpace(s))
	if !st.Valid() {
		return "", fmt.Errorf("%w: status must be one of pending, completed, cancelled", ErrValidation)
	}
	return st, nil
}

func parseStatusFilter(s string) (models.OrderStatus, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return parseStatus(s)
}
