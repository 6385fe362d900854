// Package verification issues and redeems the single-use codes that
// confirm ownership of an account email.
package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/eatery/internal/common"
	"github.com/dmitrijs2005/eatery/internal/dbx"
	"github.com/dmitrijs2005/eatery/internal/server/models"
	"github.com/dmitrijs2005/eatery/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// DefaultTTL is how long an issued code stays redeemable.
const DefaultTTL = 24 * time.Hour

// Issuer creates verification codes. Each code is a random uuid v4.
type Issuer struct {
	repomanager repomanager.RepositoryManager
	ttl         time.Duration
	now         func() time.Time
	newCode     func() string
}

// NewIssuer returns an Issuer whose codes expire after ttl
// (DefaultTTL when ttl is not positive).
func NewIssuer(m repomanager.RepositoryManager, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		repomanager: m,
		ttl:         ttl,
		now:         func() time.Time { return time.Now().UTC() },
		newCode:     uuid.NewString,
	}
}

// Issue replaces any outstanding codes of user with a fresh one and
// persists it through tx, so the write joins the caller's transaction.
func (i *Issuer) Issue(ctx context.Context, tx dbx.DBTX, user *models.User) (*models.Verification, error) {
	repo := i.repomanager.Verifications(tx)

	if _, err := repo.DeleteByUserID(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("error removing previous verifications: %w", err)
	}

	now := i.now()
	v := &models.Verification{
		ID:        uuid.NewString(),
		Code:      i.newCode(),
		UserID:    user.ID,
		ExpiresAt: now.Add(i.ttl),
		CreatedAt: now,
		User:      user,
	}

	if err := repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("error creating verification: %w", err)
	}

	return v, nil
}

// Redeem looks up code together with its user. Unknown codes yield
// common.ErrorNotFound. Expired codes are deleted through tx and yield
// an error matching both common.ErrorNotFound and
// common.ErrVerificationExpired.
func (i *Issuer) Redeem(ctx context.Context, tx dbx.DBTX, code string) (*models.Verification, error) {
	repo := i.repomanager.Verifications(tx)

	v, err := repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if v.Expired(i.now()) {
		if err := repo.DeleteByID(ctx, v.ID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorNotFound, common.ErrVerificationExpired)
	}

	return v, nil
}

// Purge deletes every expired code and returns how many were removed.
func (i *Issuer) Purge(ctx context.Context, db dbx.DBTX) (int64, error) {
	return i.repomanager.Verifications(db).DeleteExpired(ctx, i.now())
}

// TTL returns the lifetime of issued codes.
func (i *Issuer) TTL() time.Duration { return i.ttl }
