// Package services holds the application operations. Each service depends on
// the narrow store interfaces in stores.go; gorm and pgx live behind them.
package services

import (
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
)

// Clock returns the current time. Swapped in tests.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

const maxBodyLen = 5000

func requireUser(u *models.User) error {
	if u == nil || u.ID == 0 {
		return apperr.Unauthenticated("authentication required")
	}
	return nil
}
