package verification

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/eatery/internal/common"
	"github.com/dmitrijs2005/eatery/internal/dbx"
	"github.com/dmitrijs2005/eatery/internal/server/models"
	usersrepo "github.com/dmitrijs2005/eatery/internal/server/repositories/users"
	verificationsrepo "github.com/dmitrijs2005/eatery/internal/server/repositories/verifications"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeVerificationsRepo struct {
	rows map[string]*models.Verification // by code

	createErr    error
	deleteErr    error
	deleteAllErr error
	expiredArg   time.Time
}

func newFakeRepo() *fakeVerificationsRepo {
	return &fakeVerificationsRepo{rows: map[string]*models.Verification{}}
}

func (f *fakeVerificationsRepo) Create(_ context.Context, v *models.Verification) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.rows[v.Code]; ok {
		return common.ErrorAlreadyExists
	}
	f.rows[v.Code] = v
	return nil
}

func (f *fakeVerificationsRepo) FindByCode(_ context.Context, code string) (*models.Verification, error) {
	v, ok := f.rows[code]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return v, nil
}

func (f *fakeVerificationsRepo) DeleteByID(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for code, v := range f.rows {
		if v.ID == id {
			delete(f.rows, code)
		}
	}
	return nil
}

func (f *fakeVerificationsRepo) DeleteByUserID(_ context.Context, userID string) (int64, error) {
	if f.deleteAllErr != nil {
		return 0, f.deleteAllErr
	}
	var n int64
	for code, v := range f.rows {
		if v.UserID == userID {
			delete(f.rows, code)
			n++
		}
	}
	return n, nil
}

func (f *fakeVerificationsRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.expiredArg = now
	var n int64
	for code, v := range f.rows {
		if v.Expired(now) {
			delete(f.rows, code)
			n++
		}
	}
	return n, nil
}

func (f *fakeVerificationsRepo) CountByUserID(_ context.Context, userID string) (int, error) {
	n := 0
	for _, v := range f.rows {
		if v.UserID == userID {
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	v *fakeVerificationsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository           { return nil }
func (m *fakeRepoManager) Verifications(dbx.DBTX) verificationsrepo.Repository {
	return m.v
}

func newIssuer(t *testing.T) (*Issuer, *fakeVerificationsRepo, *time.Time) {
	t.Helper()
	repo := newFakeRepo()
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	i := NewIssuer(&fakeRepoManager{v: repo}, time.Hour)
	i.now = func() time.Time { return clock }
	return i, repo, &clock
}

// --- tests ---

func TestNewIssuer_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewIssuer(nil, 0).TTL())
	assert.Equal(t, time.Minute, NewIssuer(nil, time.Minute).TTL())
}

func TestIssue_CreatesUUIDCode(t *testing.T) {
	i, repo, clock := newIssuer(t)
	user := &models.User{ID: "u1", Email: "a@b.c"}

	v, err := i.Issue(context.Background(), nil, user)
	require.NoError(t, err)

	_, err = uuid.Parse(v.Code)
	assert.NoError(t, err, "code must be a uuid")
	assert.Equal(t, "u1", v.UserID)
	assert.Same(t, user, v.User)
	assert.Equal(t, clock.Add(time.Hour), v.ExpiresAt)
	assert.Contains(t, repo.rows, v.Code)
}

func TestIssue_ReplacesPrevious(t *testing.T) {
	i, repo, _ := newIssuer(t)
	user := &models.User{ID: "u1"}

	first, err := i.Issue(context.Background(), nil, user)
	require.NoError(t, err)
	second, err := i.Issue(context.Background(), nil, user)
	require.NoError(t, err)

	assert.NotEqual(t, first.Code, second.Code)
	n, _ := repo.CountByUserID(context.Background(), "u1")
	assert.Equal(t, 1, n, "only the latest code may stay outstanding")
	assert.NotContains(t, repo.rows, first.Code)
}

func TestIssue_RepoErrors(t *testing.T) {
	t.Run("delete previous fails", func(t *testing.T) {
		i, repo, _ := newIssuer(t)
		repo.deleteAllErr = errors.New("boom")
		_, err := i.Issue(context.Background(), nil, &models.User{ID: "u1"})
		require.ErrorContains(t, err, "boom")
	})

	t.Run("create fails", func(t *testing.T) {
		i, repo, _ := newIssuer(t)
		repo.createErr = errors.New("boom")
		_, err := i.Issue(context.Background(), nil, &models.User{ID: "u1"})
		require.ErrorContains(t, err, "boom")
	})
}

func TestRedeem(t *testing.T) {
	i, _, clock := newIssuer(t)
	v, err := i.Issue(context.Background(), nil, &models.User{ID: "u1"})
	require.NoError(t, err)

	got, err := i.Redeem(context.Background(), nil, v.Code)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	_, err = i.Redeem(context.Background(), nil, "unknown")
	require.ErrorIs(t, err, common.ErrorNotFound)

	*clock = clock.Add(2 * time.Hour)
	_, err = i.Redeem(context.Background(), nil, v.Code)
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.ErrorIs(t, err, common.ErrVerificationExpired)
}

func TestRedeem_ExpiredIsDeleted(t *testing.T) {
	i, repo, clock := newIssuer(t)
	v, err := i.Issue(context.Background(), nil, &models.User{ID: "u1"})
	require.NoError(t, err)

	*clock = v.ExpiresAt
	_, err = i.Redeem(context.Background(), nil, v.Code)
	require.Error(t, err)
	assert.NotContains(t, repo.rows, v.Code)
}

func TestPurge(t *testing.T) {
	i, repo, clock := newIssuer(t)
	_, err := i.Issue(context.Background(), nil, &models.User{ID: "u1"})
	require.NoError(t, err)
	_, err = i.Issue(context.Background(), nil, &models.User{ID: "u2"})
	require.NoError(t, err)

	n, err := i.Purge(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	*clock = clock.Add(time.Hour)
	n, err = i.Purge(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, *clock, repo.expiredArg)
}
