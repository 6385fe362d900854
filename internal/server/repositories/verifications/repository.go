// Package verifications stores the single-use email confirmation codes
// issued to users.
package verifications

import (
	"context"
	"time"

	"github.com/dmitrijs2005/eatery/internal/server/models"
)

// Repository defines operations for issuing, redeeming, and expiring
// verification codes.
type Repository interface {
	// Create stores a new verification.
	Create(ctx context.Context, v *models.Verification) error

	// FindByCode returns the verification for code together with its user.
	// Implementations return common.ErrorNotFound when the code is unknown.
	FindByCode(ctx context.Context, code string) (*models.Verification, error)

	// DeleteByID removes a single verification. Deleting a missing row is not an error.
	DeleteByID(ctx context.Context, id string) error

	// DeleteByUserID removes every verification of a user and returns how many were removed.
	DeleteByUserID(ctx context.Context, userID string) (int64, error)

	// DeleteExpired removes verifications whose expiry is at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// CountByUserID returns the number of outstanding verifications of a user.
	CountByUserID(ctx context.Context, userID string) (int, error)
}
