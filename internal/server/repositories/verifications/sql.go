package verifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/eatery/internal/common"
	"github.com/dmitrijs2005/eatery/internal/dbx"
	"github.com/dmitrijs2005/eatery/internal/server/models"
)

// SQLRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type SQLRepository struct {
	db dbx.DBTX
}

// NewSQLRepository constructs a repository bound to the given DBTX.
func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, v *models.Verification) error {
	query := `
		INSERT INTO verifications (id, code, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, v.ID, v.Code, v.UserID, v.ExpiresAt.UTC(), v.CreatedAt.UTC()); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) FindByCode(ctx context.Context, code string) (*models.Verification, error) {
	query := `
		SELECT v.id, v.code, v.user_id, v.expires_at, v.created_at,
		       u.id, u.email, u.password_hash, u.role, u.verified, u.created_at, u.updated_at
		FROM verifications v
		JOIN users u ON u.id = v.user_id
		WHERE v.code = $1
	`
	v := &models.Verification{User: &models.User{}}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&v.ID, &v.Code, &v.UserID, &v.ExpiresAt, &v.CreatedAt,
		&v.User.ID, &v.User.Email, &v.User.PasswordHash, &v.User.Role, &v.User.Verified,
		&v.User.CreatedAt, &v.User.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *SQLRepository) DeleteByID(ctx context.Context, id string) error {
	query := `
		DELETE FROM verifications
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	query := `
		DELETE FROM verifications
		WHERE user_id = $1
	`
	return r.execCount(ctx, query, userID)
}

func (r *SQLRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM verifications
		WHERE expires_at <= $1
	`
	return r.execCount(ctx, query, now.UTC())
}

func (r *SQLRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM verifications
		WHERE user_id = $1
	`
	var n int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) execCount(ctx context.Context, query string, arg any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, arg)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
