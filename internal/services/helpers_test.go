package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zerodesign/zerodesign-backend/internal/data/repos"
	"github.com/zerodesign/zerodesign-backend/internal/data/repos/testutil"
	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/ctxutil"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return testutil.Logger(t)
}

func asUser(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})
}

func uniqueEmail() string {
	return "user-" + uuid.NewString()[:8] + "@example.com"
}

func createUser(t *testing.T, db *gorm.DB, email string) *types.User {
	t.Helper()
	hash, err := HashPassword("Str0ng!pass")
	require.NoError(t, err)
	u := &types.User{ID: uuid.New(), Email: email, Password: hash, FirstName: "Ada", LastName: "Lovelace"}
	_, err = repos.NewUserRepo(db, testLogger(t)).Create(dbctx.New(context.Background()), []*types.User{u})
	require.NoError(t, err)
	return u
}

func mustJSONField(t *testing.T, raw []byte, field string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	v, ok := m[field]
	require.True(t, ok, "field %q missing", field)
	return string(v)
}
