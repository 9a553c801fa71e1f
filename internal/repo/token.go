package repo

import (
	"context"
	"errors"
	"time"

	jwthelp "github.com/Skotchmaster/restaurant_admin/pkg/jwt"

	"github.com/Skotchmaster/restaurant_admin/internal/models"
)

var ErrRefreshUnusable = errors.New("refresh token expired or revoked")

func (r *GormRepo) AddRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) FindRefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// RotateRefreshToken revokes oldJTI and stores next atomically.
// rawOld must hash to the stored value, so a forged token with a valid JTI is refused.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI, rawOld string, next *models.RefreshToken) error {
	return r.Transaction(ctx, func(tx *GormRepo) error {
		var cur models.RefreshToken
		if err := tx.forUpdate(tx.DB.WithContext(ctx)).Where("jti = ?", oldJTI).First(&cur).Error; err != nil {
			return err
		}
		if cur.Revoked || cur.ExpiresAt < time.Now().Unix() || cur.Token != jwthelp.Sha256Hex(rawOld) {
			return ErrRefreshUnusable
		}

		if err := tx.DB.WithContext(ctx).Model(&models.RefreshToken{}).
			Where("id = ?", cur.ID).Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.DB.WithContext(ctx).Create(next).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, rawToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", jwthelp.Sha256Hex(rawToken)).
		Update("revoked", true).Error
}
