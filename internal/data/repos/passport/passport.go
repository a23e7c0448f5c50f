package passport

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

type PassportRepo interface {
	Create(dbc dbctx.Context, p *types.Passport) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Passport, error)
	GetByCode(dbc dbctx.Context, code string) (*types.Passport, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Passport, error)
}

type passportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPassportRepo(db *gorm.DB, baseLog *logger.Logger) PassportRepo {
	repoLog := baseLog.With("repo", "PassportRepo")
	return &passportRepo{db: db, log: repoLog}
}

func (r *passportRepo) Create(dbc dbctx.Context, p *types.Passport) error {
	return dbc.DB(r.db).Create(p).Error
}

func (r *passportRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Passport, error) {
	return r.first(dbc, "id = ?", id)
}

func (r *passportRepo) GetByCode(dbc dbctx.Context, code string) (*types.Passport, error) {
	return r.first(dbc, "dpp_code = ?", code)
}

func (r *passportRepo) first(dbc dbctx.Context, query string, arg any) (*types.Passport, error) {
	var row types.Passport
	if err := dbc.DB(r.db).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *passportRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Passport, error) {
	var results []*types.Passport
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
