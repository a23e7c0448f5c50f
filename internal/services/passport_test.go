package services

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerodesign/zerodesign-backend/internal/data/repos"
	"github.com/zerodesign/zerodesign-backend/internal/data/repos/testutil"
	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
)

func newTestPassports(t *testing.T) (*passportService, repos.CalculationRepo) {
	t.Helper()
	db := testutil.DB(t)
	log := testLogger(t)
	calcRepo := repos.NewCalculationRepo(db, log)
	svc := NewPassportService(log, repos.NewPassportRepo(db, log), calcRepo).(*passportService)
	return svc, calcRepo
}

func storedCalculation(t *testing.T, calcRepo repos.CalculationRepo, userID uuid.UUID) *types.Calculation {
	t.Helper()
	c := &types.Calculation{UserID: userID, ProductName: "Jacket", TotalCO2Kg: 6.5, Breakdown: []byte(`{"total_co2_kg":6.5}`), CreatedAt: time.Now().UTC()}
	require.NoError(t, calcRepo.Create(dbctx.New(asUser(userID)), c))
	return c
}

func TestNewDPPCode(t *testing.T) {
	code, err := NewDPPCode()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^DPP-[0-9A-F]{12}$`), code)
}

func TestPassportCreateAndLookup(t *testing.T) {
	svc, calcRepo := newTestPassports(t)
	userID := uuid.New()
	ctx := asUser(userID)
	calc := storedCalculation(t, calcRepo, userID)

	p, err := svc.Create(ctx, CreatePassportInput{CalculationID: calc.ID, ProductName: " Jacket ", Category: "outerwear"})
	require.NoError(t, err)
	assert.Equal(t, "Jacket", p.ProductName)
	assert.Equal(t, 6.5, p.TotalCO2Kg)
	assert.JSONEq(t, `{"total_co2_kg":6.5}`, string(p.Breakdown))

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.DPPCode, got.DPPCode)

	_, err = svc.Get(asUser(uuid.New()), p.ID)
	assertAPIErr(t, err, http.StatusNotFound, "passport_not_found")

	byCode, err := svc.GetByCode(asUser(uuid.New()), " "+p.DPPCode+" ")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byCode.ID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPassportCreateValidation(t *testing.T) {
	svc, calcRepo := newTestPassports(t)
	userID := uuid.New()
	ctx := asUser(userID)
	calc := storedCalculation(t, calcRepo, userID)

	_, err := svc.Create(ctx, CreatePassportInput{CalculationID: calc.ID})
	assertAPIErr(t, err, http.StatusBadRequest, "missing_product_name")
	_, err = svc.Create(ctx, CreatePassportInput{ProductName: "x"})
	assertAPIErr(t, err, http.StatusBadRequest, "missing_calculation")
	_, err = svc.Create(asUser(uuid.New()), CreatePassportInput{CalculationID: calc.ID, ProductName: "x"})
	assertAPIErr(t, err, http.StatusNotFound, "calculation_not_found")
}

func TestPassportCreateRetriesCodeCollision(t *testing.T) {
	svc, calcRepo := newTestPassports(t)
	userID := uuid.New()
	ctx := asUser(userID)
	calc := storedCalculation(t, calcRepo, userID)

	fixed := "DPP-" + uuid.NewString()[24:]
	codes := []string{fixed, fixed, "DPP-" + uuid.NewString()[24:]}
	svc.newCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}

	first, err := svc.Create(ctx, CreatePassportInput{CalculationID: calc.ID, ProductName: "a"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreatePassportInput{CalculationID: calc.ID, ProductName: "b"})
	require.NoError(t, err)
	assert.NotEqual(t, first.DPPCode, second.DPPCode)
}
