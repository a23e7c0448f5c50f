package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerodesign/zerodesign-backend/internal/data/repos/testutil"
	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
)

func TestPasswordResetTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewPasswordResetTokenRepo(db, testutil.Logger(t))
	dbc := dbctx.New(context.Background())

	u := &types.User{Email: "reset@example.com", Password: "pw", FirstName: "A", LastName: "B"}
	require.NoError(t, db.Create(u).Error)

	now := time.Now()
	live := &types.PasswordResetToken{UserID: u.ID, Token: "live-token", ExpiresAt: now.Add(time.Hour)}
	stale := &types.PasswordResetToken{UserID: u.ID, Token: "stale-token", ExpiresAt: now.Add(-time.Minute)}
	require.NoError(t, repo.Create(dbc, live))
	require.NoError(t, repo.Create(dbc, stale))

	got, err := repo.GetByToken(dbc, "live-token")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Valid(now))

	got, err = repo.GetByToken(dbc, "stale-token")
	require.NoError(t, err)
	assert.False(t, got.Valid(now))

	missing, err := repo.GetByToken(dbc, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.MarkUsed(dbc, live.ID))
	got, err = repo.GetByToken(dbc, "live-token")
	require.NoError(t, err)
	assert.True(t, got.Used)
	assert.False(t, got.Valid(now))

	n, err := repo.DeleteExpired(dbc, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, repo.Create(dbc, &types.PasswordResetToken{UserID: u.ID, Token: "again", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.DeleteByUserID(dbc, u.ID))
	missing, err = repo.GetByToken(dbc, "again")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
