package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/restaurant_admin/internal/events"
	"github.com/Skotchmaster/restaurant_admin/internal/models"
	"github.com/Skotchmaster/restaurant_admin/internal/repo"
	"github.com/Skotchmaster/restaurant_admin/internal/transport"
	"github.com/Skotchmaster/restaurant_admin/pkg/logging"
)

const (
	maxMenuName     = 100
	maxCategory     = 50
	maxImageURL     = 255
	priceFractional = 2
)

// numeric(10,2) leaves eight integer digits.
var maxPrice = decimal.New(1, 8)

type MenuService struct {
	Repo   *repo.GormRepo
	Events Publisher
	Topic  string
	Index  MenuIndexer
}

func (s *MenuService) GetMenu(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.Repo.GetMenu(ctx, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("menu item %d", id))
	}
	return item, nil
}

func (s *MenuService) ListMenus(ctx context.Context, f repo.MenuFilter, offset, limit int) (int64, []models.MenuItem, error) {
	return s.Repo.ListMenus(ctx, f, offset, limit)
}

func (s *MenuService) Categories(ctx context.Context) ([]string, error) {
	return s.Repo.Categories(ctx)
}

// SearchMenus prefers the search cluster and falls back to SQL when it is absent or failing.
func (s *MenuService) SearchMenus(ctx context.Context, query string, offset, limit int) (int64, []models.MenuItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, fmt.Errorf("%w: q is required", ErrValidation)
	}

	if s.Index != nil {
		total, ids, err := s.Index.SearchMenus(ctx, query, offset, limit)
		if err == nil {
			items, err := s.loadInOrder(ctx, ids)
			if err != nil {
				return 0, nil, err
			}
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("menu_search_fallback", "reason", "search cluster failed", "error", err)
	}

	return s.Repo.SearchMenus(ctx, query, offset, limit)
}

func (s *MenuService) loadInOrder(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	byID, err := s.Repo.GetMenusByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.MenuItem, 0, len(ids))
	for _, id := range ids {
		// the index may lag behind a delete
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *MenuService) CreateMenu(ctx context.Context, req transport.CreateMenuRequest) (*models.MenuItem, error) {
	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)

	if err := validateMenuName(name); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if req.Price == nil {
		return nil, fmt.Errorf("%w: price is required", ErrValidation)
	}
	if err := validatePrice(*req.Price); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(req.ImageURL) > maxImageURL {
		return nil, fmt.Errorf("%w: image_url must be at most %d characters", ErrValidation, maxImageURL)
	}

	item := &models.MenuItem{
		Name:        name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    category,
		ImageURL:    req.ImageURL,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.Repo.CreateMenu(ctx, item); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, events.MenuCreated, *item)
	return item, nil
}

// PatchMenu never touches order lines: they carry their own price copy.
func (s *MenuService) PatchMenu(ctx context.Context, id uint, req transport.PatchMenuRequest) (*models.MenuItem, error) {
	if req.Name != nil {
		if err := validateMenuName(strings.TrimSpace(*req.Name)); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		if err := validateCategory(strings.TrimSpace(*req.Category)); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != nil && utf8.RuneCountInString(*req.ImageURL) > maxImageURL {
		return nil, fmt.Errorf("%w: image_url must be at most %d characters", ErrValidation, maxImageURL)
	}

	item, err := s.Repo.GetMenu(ctx, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("menu item %d", id))
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Category != nil {
		item.Category = strings.TrimSpace(*req.Category)
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.Repo.SaveMenu(ctx, item); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, events.MenuUpdated, *item)
	return item, nil
}

// DeleteMenu refuses items that historical orders still point at.
func (s *MenuService) DeleteMenu(ctx context.Context, id uint) error {
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetMenu(ctx, id); err != nil {
			return notFound(err, fmt.Sprintf("menu item %d", id))
		}
		used, err := tx.MenuReferenced(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("%w: menu item %d is referenced by existing orders", ErrConflict, id)
		}
		return notFound(tx.DeleteMenu(ctx, id), fmt.Sprintf("menu item %d", id))
	})
	if err != nil {
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteMenu(ctx, id); err != nil {
			logging.FromContext(ctx).Error("menu_unindex_failed", "menu_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, s.Topic, events.Key(id), events.MenuEvent{Type: events.MenuDeleted, MenuID: id})
	return nil
}

func (s *MenuService) afterWrite(ctx context.Context, typ string, item models.MenuItem) {
	if s.Index != nil {
		if err := s.Index.IndexMenu(ctx, item); err != nil {
			logging.FromContext(ctx).Error("menu_index_failed", "menu_id", item.ID, "error", err)
		}
	}
	publish(ctx, s.Events, s.Topic, events.Key(item.ID), events.NewMenuEvent(typ, item))
}

// Reindex pushes the whole catalog into the search cluster.
func (s *MenuService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	const batch = 100
	n := 0
	for offset := 0; ; offset += batch {
		_, items, err := s.Repo.ListMenus(ctx, repo.MenuFilter{}, offset, batch)
		if err != nil {
			return n, err
		}
		for _, it := range items {
			if err := s.Index.IndexMenu(ctx, it); err != nil {
				return n, err
			}
			n++
		}
		if len(items) < batch {
			return n, nil
		}
	}
}

func validateMenuName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if utf8.RuneCountInString(name) > maxMenuName {
		return fmt.Errorf("%w: name must be at most %d characters", ErrValidation, maxMenuName)
	}
	return nil
}

func validateCategory(category string) error {
	if category == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if utf8.RuneCountInString(category) > maxCategory {
		return fmt.Errorf("%w: category must be at most %d characters", ErrValidation, maxCategory)
	}
	return nil
}

func validatePrice(p decimal.Decimal) error {
	if !p.IsPositive() {
		return fmt.Errorf("%w: price must be greater than 0", ErrValidation)
	}
	if !p.Equal(p.Round(priceFractional)) {
		return fmt.Errorf("%w: price must have at most %d decimal places", ErrValidation, priceFractional)
	}
	if p.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%w: price must be below %s", ErrValidation, maxPrice)
	}
	return nil
}
