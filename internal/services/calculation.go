package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/zerodesign/zerodesign-backend/internal/data/repos"
	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/modules/footprint"
	"github.com/zerodesign/zerodesign-backend/internal/platform/apierr"
	"github.com/zerodesign/zerodesign-backend/internal/platform/ctxutil"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 1000
)

// Calculator is the slice of the footprint aggregator the services use.
type Calculator interface {
	Calculate(ctx context.Context, req footprint.Request) (*footprint.Breakdown, error)
	AvailableItems(ctx context.Context) (*footprint.Catalog, error)
}

type CalculateInput struct {
	ProductName         string    `json:"product_name"`
	FabricID            string    `json:"fabric_id"`
	FabricQuantityKg    *float64  `json:"fabric_quantity_kg"`
	AccessoryIDs        []string  `json:"accessory_ids"`
	AccessoryQuantities []float64 `json:"accessory_quantities"`
	ProcessIDs          []string  `json:"process_ids"`
}

// CalculationResult is a breakdown plus the id of the history row it was
// stored under.
type CalculationResult struct {
	*footprint.Breakdown
	CalculationID uuid.UUID `json:"calculation_id"`
	CalculatedAt  time.Time `json:"calculated_at"`
}

type CalculationService interface {
	AvailableItems(ctx context.Context) (*footprint.Catalog, error)
	Calculate(ctx context.Context, in CalculateInput) (*CalculationResult, error)
	History(ctx context.Context, limit int) ([]*types.Calculation, error)
	GetOwned(ctx context.Context, id uuid.UUID) (*types.Calculation, error)
}

type calculationService struct {
	log        *logger.Logger
	calculator Calculator
	calcRepo   repos.CalculationRepo
	now        func() time.Time
}

func NewCalculationService(log *logger.Logger, calculator Calculator, calcRepo repos.CalculationRepo) CalculationService {
	return &calculationService{
		log:        log.With("service", "CalculationService"),
		calculator: calculator,
		calcRepo:   calcRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (cs *calculationService) AvailableItems(ctx context.Context) (*footprint.Catalog, error) {
	return cs.calculator.AvailableItems(ctx)
}

func (in CalculateInput) request() (footprint.Request, error) {
	req := footprint.Request{
		FabricID:            strings.TrimSpace(in.FabricID),
		FabricQuantityKg:    footprint.DefaultQuantity,
		AccessoryIDs:        compactIDs(in.AccessoryIDs),
		AccessoryQuantities: in.AccessoryQuantities,
		ProcessIDs:          compactIDs(in.ProcessIDs),
	}
	if len(in.AccessoryIDs) != len(req.AccessoryIDs) {
		// quantities are positional, so blank ids cannot be dropped silently
		return req, apierr.Invalid("invalid_accessory_ids", "accessory ids must not be blank")
	}
	if req.FabricID == "" && len(req.AccessoryIDs) == 0 && len(req.ProcessIDs) == 0 {
		return req, apierr.Invalid("empty_selection", "select at least one fabric, accessory or process")
	}
	if in.FabricQuantityKg != nil {
		if *in.FabricQuantityKg < 0 {
			return req, apierr.Invalid("invalid_quantity", "fabric quantity must not be negative")
		}
		req.FabricQuantityKg = *in.FabricQuantityKg
	}
	for i, q := range in.AccessoryQuantities {
		if q < 0 {
			return req, apierr.Invalid("invalid_quantity", fmt.Sprintf("accessory quantity %d must not be negative", i))
		}
	}
	return req, nil
}

func compactIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// Calculate runs the aggregator and records the result in the caller's
// history. When the reference store fails the zero breakdown is returned
// together with the error.
func (cs *calculationService) Calculate(ctx context.Context, in CalculateInput) (*CalculationResult, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", "not signed in")
	}
	req, err := in.request()
	if err != nil {
		return nil, err
	}

	breakdown, err := cs.calculator.Calculate(ctx, req)
	if err != nil {
		cs.log.With(ctxutil.LogFields(ctx)...).Error("calculation failed", "error", err)
		return &CalculationResult{Breakdown: breakdown}, err
	}

	raw, err := json.Marshal(breakdown)
	if err != nil {
		return nil, fmt.Errorf("encode breakdown: %w", err)
	}
	calc := &types.Calculation{
		UserID:         userID,
		ProductName:    SanitizeInput(in.ProductName),
		TotalCO2Kg:     breakdown.TotalCO2Kg,
		FabricCO2Kg:    breakdown.Summary.FabricCO2,
		AccessoryCO2Kg: breakdown.Summary.AccessoriesCO2,
		ProcessCO2Kg:   breakdown.Summary.ProcessesCO2,
		Breakdown:      datatypes.JSON(raw),
		CreatedAt:      cs.now(),
	}
	if err := cs.calcRepo.Create(dbctx.New(ctx), calc); err != nil {
		return nil, fmt.Errorf("save calculation: %w", err)
	}
	cs.log.With(ctxutil.LogFields(ctx)...).Debug("calculation stored", "calculation_id", calc.ID.String(), "total_co2_kg", calc.TotalCO2Kg)

	return &CalculationResult{
		Breakdown:     breakdown,
		CalculationID: calc.ID,
		CalculatedAt:  calc.CreatedAt,
	}, nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func (cs *calculationService) History(ctx context.Context, limit int) ([]*types.Calculation, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", "not signed in")
	}
	rows, err := cs.calcRepo.ListByUser(dbctx.New(ctx), userID, clampLimit(limit, DefaultHistoryLimit, MaxHistoryLimit))
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	return rows, nil
}

// GetOwned loads a calculation of the current user. Calculations owned by
// someone else are reported as not found.
func (cs *calculationService) GetOwned(ctx context.Context, id uuid.UUID) (*types.Calculation, error) {
	return loadOwnedCalculation(ctx, cs.calcRepo, id)
}

func loadOwnedCalculation(ctx context.Context, calcRepo repos.CalculationRepo, id uuid.UUID) (*types.Calculation, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", "not signed in")
	}
	calc, err := calcRepo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("load calculation: %w", err)
	}
	if calc == nil || calc.UserID != userID {
		return nil, apierr.NotFound("calculation_not_found", "calculation not found")
	}
	return calc, nil
}
