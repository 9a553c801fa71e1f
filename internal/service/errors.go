package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409

	ErrInvalidCredentials  = errors.New("invalid username or password") // 401
	ErrInvalidRefreshToken = errors.New("invalid refresh token")        // 401
)

// notFound turns gorm's miss into ErrNotFound and passes everything else through.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}
