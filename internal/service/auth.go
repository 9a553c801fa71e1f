package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant_admin/internal/models"
	"github.com/Skotchmaster/restaurant_admin/internal/repo"
	pkghash "github.com/Skotchmaster/restaurant_admin/pkg/hash"
	jwthelp "github.com/Skotchmaster/restaurant_admin/pkg/jwt"
	"github.com/Skotchmaster/restaurant_admin/pkg/logging"
	"github.com/Skotchmaster/restaurant_admin/pkg/tokens"
)

const (
	RoleAdmin = "admin"

	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (s *AuthService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return DefaultAccessTTL
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return DefaultRefreshTTL
}

func (s *AuthService) CreateAccessToken(admin models.Admin, exp time.Time) (string, error) {
	return tokens.SignAccess(tokens.AccessClaims{
		Role:     admin.Role,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(admin.ID), 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}, s.JWTSecret)
}

func (s *AuthService) CreateRefreshToken(adminID uint, exp time.Time) (string, string, error) {
	jti := jwthelp.NewJTI()
	tok, err := tokens.SignRefresh(tokens.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(adminID), 10),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}, s.RefreshSecret)
	if err != nil {
		return "", "", err
	}
	return tok, jti, nil
}

// issue signs a new pair; the refresh record is returned unsaved so the caller picks the transaction.
func (s *AuthService) issue(admin models.Admin) (*tokens.Pair, *models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(s.accessTTL())
	refreshExp := now.Add(s.refreshTTL())

	access, err := s.CreateAccessToken(admin, accessExp)
	if err != nil {
		return nil, nil, err
	}
	refresh, jti, err := s.CreateRefreshToken(admin.ID, refreshExp)
	if err != nil {
		return nil, nil, err
	}

	record := &models.RefreshToken{
		AdminID:   admin.ID,
		Token:     jwthelp.Sha256Hex(refresh),
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}
	return &tokens.Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, record, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*tokens.Pair, *models.Admin, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	admin, err := s.Repo.FindAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !pkghash.CheckPassword(admin.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, nil, ErrInvalidCredentials
	}

	pair, record, err := s.issue(*admin)
	if err != nil {
		return nil, nil, err
	}
	if err := s.Repo.AddRefreshToken(ctx, record); err != nil {
		return nil, nil, err
	}

	l.Info("login_success", "admin_id", admin.ID)
	return pair, admin, nil
}

// Refresh rotates refreshToken: the old one is revoked in the same transaction that stores the new one.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	adminID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidRefreshToken)
	}
	admin, err := s.Repo.GetAdminByID(ctx, uint(adminID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: admin is gone", ErrInvalidRefreshToken)
		}
		return nil, err
	}

	pair, record, err := s.issue(*admin)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, refreshToken, record); err != nil {
		if errors.Is(err, repo.ErrRefreshUnusable) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
		}
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *AuthService) CurrentAdmin(ctx context.Context, subject string) (*models.Admin, error) {
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrNotFound)
	}
	admin, err := s.Repo.GetAdminByID(ctx, uint(id))
	if err != nil {
		return nil, notFound(err, "admin")
	}
	return admin, nil
}

// Session reports who the access token belongs to without failing on bad tokens.
func (s *AuthService) Session(accessToken string) (*tokens.AccessClaims, bool) {
	if accessToken == "" {
		return nil, false
	}
	claims, err := tokens.AccessClaimsFromToken(accessToken, s.JWTSecret)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// EnsureAdmin creates the admin account unless the username is already taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	pwHash, err := pkghash.HashPassword(password)
	if err != nil {
		return false, err
	}

	err = s.Repo.CreateAdminIfNotExists(ctx, &models.Admin{
		Username:     username,
		PasswordHash: pwHash,
		Role:         RoleAdmin,
	})
	if errors.Is(err, repo.ErrAdminAlreadyExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
