package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerodesign/zerodesign-backend/internal/data/repos"
	"github.com/zerodesign/zerodesign-backend/internal/data/repos/testutil"
)

func TestUserProfile(t *testing.T) {
	db := testutil.DB(t)
	svc := NewUserService(testLogger(t), repos.NewUserRepo(db, testLogger(t)))
	u := createUser(t, db, uniqueEmail())
	other := createUser(t, db, uniqueEmail())
	ctx := asUser(u.ID)

	me, err := svc.GetMe(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.Email, me.Email)

	_, err = svc.GetMe(context.Background())
	assertAPIErr(t, err, http.StatusUnauthorized, "unauthorized")
	_, err = svc.GetMe(asUser(uuid.New()))
	assertAPIErr(t, err, http.StatusNotFound, "user_not_found")

	_, err = svc.UpdateProfile(ctx, UpdateProfileInput{FirstName: "A", LastName: "B", Email: other.Email})
	assertAPIErr(t, err, http.StatusConflict, "email_taken")
	_, err = svc.UpdateProfile(ctx, UpdateProfileInput{FirstName: "A", LastName: "", Email: u.Email})
	assertAPIErr(t, err, http.StatusBadRequest, "missing_fields")

	newEmail := uniqueEmail()
	updated, err := svc.UpdateProfile(ctx, UpdateProfileInput{FirstName: "Grace", LastName: "Hopper", Email: " " + newEmail})
	require.NoError(t, err)
	assert.Equal(t, newEmail, updated.Email)

	me, err = svc.GetMe(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Grace", me.FirstName)
	assert.Equal(t, newEmail, me.Email)

	// keeping the same email is not a conflict with oneself
	_, err = svc.UpdateProfile(ctx, UpdateProfileInput{FirstName: "Grace", LastName: "H", Email: newEmail})
	require.NoError(t, err)
}

func TestUserPreferences(t *testing.T) {
	db := testutil.DB(t)
	svc := NewUserService(testLogger(t), repos.NewUserRepo(db, testLogger(t)))
	u := createUser(t, db, uniqueEmail())
	ctx := asUser(u.ID)

	prefs, err := svc.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Empty(t, prefs)

	require.NoError(t, svc.SetPreferences(ctx, map[string]any{"theme": "dark", "units": "kg"}))
	prefs, err = svc.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"theme": "dark", "units": "kg"}, prefs)

	admin, err := svc.IsAdmin(context.Background(), u.ID)
	require.NoError(t, err)
	assert.False(t, admin)
}
