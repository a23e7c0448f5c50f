package settings

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

type SettingRepo interface {
	Get(dbc dbctx.Context, key string) (*types.Setting, error)
	List(dbc dbctx.Context, publicOnly bool) ([]*types.Setting, error)
	Upsert(dbc dbctx.Context, setting *types.Setting) error
	Delete(dbc dbctx.Context, key string) error
}

type settingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSettingRepo(db *gorm.DB, baseLog *logger.Logger) SettingRepo {
	repoLog := baseLog.With("repo", "SettingRepo")
	return &settingRepo{db: db, log: repoLog}
}

func (r *settingRepo) Get(dbc dbctx.Context, key string) (*types.Setting, error) {
	var row types.Setting
	if err := dbc.DB(r.db).Where("setting_key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *settingRepo) List(dbc dbctx.Context, publicOnly bool) ([]*types.Setting, error) {
	var results []*types.Setting
	q := dbc.DB(r.db).Order("setting_key")
	if publicOnly {
		q = q.Where("is_public = ?", true)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *settingRepo) Upsert(dbc dbctx.Context, setting *types.Setting) error {
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"setting_value", "data_type", "description", "is_public", "updated_at"}),
		}).
		Create(setting).Error
}

func (r *settingRepo) Delete(dbc dbctx.Context, key string) error {
	return dbc.DB(r.db).Where("setting_key = ?", key).Delete(&types.Setting{}).Error
}
