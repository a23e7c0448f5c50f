package calculation

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

type CalculationRepo interface {
	Create(dbc dbctx.Context, calc *types.Calculation) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Calculation, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Calculation, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type calculationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCalculationRepo(db *gorm.DB, baseLog *logger.Logger) CalculationRepo {
	repoLog := baseLog.With("repo", "CalculationRepo")
	return &calculationRepo{db: db, log: repoLog}
}

func (r *calculationRepo) Create(dbc dbctx.Context, calc *types.Calculation) error {
	return dbc.DB(r.db).Create(calc).Error
}

func (r *calculationRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Calculation, error) {
	var row types.Calculation
	if err := dbc.DB(r.db).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByUser returns the newest calculations first. limit <= 0 means no limit.
func (r *calculationRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Calculation, error) {
	var results []*types.Calculation
	q := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *calculationRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.Calculation{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
