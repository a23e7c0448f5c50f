package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/zerodesign/zerodesign-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedFabric(tb testing.TB, ctx context.Context, tx *gorm.DB, id string, factor *float64) *types.Fabric {
	tb.Helper()
	f := &types.Fabric{
		ID:          id,
		FabricType:  "Cotton",
		Composition: "100% cotton",
		CO2KgPerKg:  factor,
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed fabric: %v", err)
	}
	return f
}

func SeedAccessory(tb testing.TB, ctx context.Context, tx *gorm.DB, id string, factor *float64) *types.Accessory {
	tb.Helper()
	a := &types.Accessory{
		ID:            id,
		AccessoryName: "Button",
		Material:      "Plastic",
		CO2KgPerKg:    factor,
		Unit:          "kg",
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed accessory: %v", err)
	}
	return a
}

// SeedProcess inserts a process and, when avg is non-nil, its emission row.
func SeedProcess(tb testing.TB, ctx context.Context, tx *gorm.DB, id string, avg *float64) *types.Process {
	tb.Helper()
	p := &types.Process{
		ID:          id,
		Category:    "Top",
		StageGroup:  "Manufacturing",
		Stage:       "Sewing",
		ProcessName: "process " + id,
		Unit:        "piece",
	}
	if avg != nil {
		p.Emission = &types.Emission{ProcessID: id, AvgCO2Kg: avg}
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed process: %v", err)
	}
	return p
}

func SeedCalculation(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, total float64) *types.Calculation {
	tb.Helper()
	c := &types.Calculation{
		ID:          uuid.New(),
		UserID:      userID,
		ProductName: "product",
		TotalCO2Kg:  total,
		FabricCO2Kg: total,
		Breakdown:   datatypes.JSON([]byte("{}")),
		CreatedAt:   time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed calculation: %v", err)
	}
	return c
}

func PtrFloat(v float64) *float64 { return &v }

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
