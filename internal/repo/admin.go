package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/restaurant_admin/internal/models"
)

var ErrAdminAlreadyExist = errors.New("admin already exist")

func (r *GormRepo) FindAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *GormRepo) GetAdminByID(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := r.DB.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *GormRepo) CreateAdminIfNotExists(ctx context.Context, a *models.Admin) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Admin{}).Where("username = ?", a.Username).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrAdminAlreadyExist
	}
	return r.DB.WithContext(ctx).Create(a).Error
}
