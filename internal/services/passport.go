package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/zerodesign/zerodesign-backend/internal/data/db"
	"github.com/zerodesign/zerodesign-backend/internal/data/repos"
	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/apierr"
	"github.com/zerodesign/zerodesign-backend/internal/platform/ctxutil"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

const dppCodeAttempts = 3

type CreatePassportInput struct {
	CalculationID uuid.UUID `json:"calculation_id"`
	ProductName   string    `json:"product_name"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
}

type PassportService interface {
	Create(ctx context.Context, in CreatePassportInput) (*types.Passport, error)
	List(ctx context.Context) ([]*types.Passport, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Passport, error)
	GetByCode(ctx context.Context, code string) (*types.Passport, error)
}

type passportService struct {
	log          *logger.Logger
	passportRepo repos.PassportRepo
	calcRepo     repos.CalculationRepo
	newCode      func() (string, error)
}

func NewPassportService(log *logger.Logger, passportRepo repos.PassportRepo, calcRepo repos.CalculationRepo) PassportService {
	return &passportService{
		log:          log.With("service", "PassportService"),
		passportRepo: passportRepo,
		calcRepo:     calcRepo,
		newCode:      NewDPPCode,
	}
}

// NewDPPCode returns "DPP-" followed by 12 upper-case hex digits.
func NewDPPCode() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate dpp code: %w", err)
	}
	return "DPP-" + strings.ToUpper(hex.EncodeToString(b)), nil
}

func (ps *passportService) Create(ctx context.Context, in CreatePassportInput) (*types.Passport, error) {
	name := SanitizeInput(in.ProductName)
	if name == "" {
		return nil, apierr.Invalid("missing_product_name", "product name is required")
	}
	if in.CalculationID == uuid.Nil {
		return nil, apierr.Invalid("missing_calculation", "calculation id is required")
	}
	calc, err := loadOwnedCalculation(ctx, ps.calcRepo, in.CalculationID)
	if err != nil {
		return nil, err
	}

	p := &types.Passport{
		UserID:        calc.UserID,
		CalculationID: calc.ID,
		ProductName:   name,
		Category:      SanitizeInput(in.Category),
		Description:   SanitizeInput(in.Description),
		TotalCO2Kg:    calc.TotalCO2Kg,
		Breakdown:     calc.Breakdown,
	}
	dbc := dbctx.New(ctx)
	for attempt := 1; ; attempt++ {
		code, err := ps.newCode()
		if err != nil {
			return nil, err
		}
		p.ID = uuid.Nil
		p.DPPCode = code
		err = ps.passportRepo.Create(dbc, p)
		if err == nil {
			break
		}
		if !db.IsUniqueViolation(err) || attempt >= dppCodeAttempts {
			return nil, fmt.Errorf("create passport: %w", err)
		}
		ps.log.Warn("dpp code collision, retrying", "attempt", attempt)
	}
	ps.log.With(ctxutil.LogFields(ctx)...).Info("passport created", "passport_id", p.ID.String(), "dpp_code", p.DPPCode)
	return p, nil
}

func (ps *passportService) List(ctx context.Context) ([]*types.Passport, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", "not signed in")
	}
	rows, err := ps.passportRepo.ListByUser(dbctx.New(ctx), userID)
	if err != nil {
		return nil, fmt.Errorf("list passports: %w", err)
	}
	return rows, nil
}

func (ps *passportService) Get(ctx context.Context, id uuid.UUID) (*types.Passport, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", "not signed in")
	}
	p, err := ps.passportRepo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("load passport: %w", err)
	}
	if p == nil || p.UserID != userID {
		return nil, apierr.NotFound("passport_not_found", "passport not found")
	}
	return p, nil
}

// GetByCode resolves a printed DPP code. Codes are public identifiers, so
// any signed-in user may look one up.
func (ps *passportService) GetByCode(ctx context.Context, code string) (*types.Passport, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apierr.Invalid("missing_code", "dpp code is required")
	}
	p, err := ps.passportRepo.GetByCode(dbctx.New(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("load passport: %w", err)
	}
	if p == nil {
		return nil, apierr.NotFound("passport_not_found", "passport not found")
	}
	return p, nil
}
