package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	types "github.com/zerodesign/zerodesign-backend/internal/domain"
)

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "zd"}
	assert.Equal(t, "postgres://u:p@db:5432/zd?sslmode=disable", cfg.DSN())
	cfg.SSLMode = "require"
	assert.Equal(t, "postgres://u:p@db:5432/zd?sslmode=require", cfg.DSN())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
}

func TestAutoMigrateAllOnSQLite(t *testing.T) {
	gdb, err := OpenSQLiteQuiet(fmt.Sprintf("file:migrate_%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, AutoMigrateAll(gdb))

	u := &types.User{Email: "a@example.com", Password: "x", FirstName: "A", LastName: "B"}
	require.NoError(t, gdb.Create(u).Error)
	dup := &types.User{Email: "a@example.com", Password: "x", FirstName: "C", LastName: "D"}
	err = gdb.Create(dup).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}
