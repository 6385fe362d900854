// Package users stores registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/eatery/internal/server/models"
)

// Repository persists users. Lookups return common.ErrorNotFound when the
// user is absent; writes return common.ErrorAlreadyExists when the email is
// already taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}
