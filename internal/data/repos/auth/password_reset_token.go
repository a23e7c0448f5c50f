package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

type PasswordResetTokenRepo interface {
	Create(dbc dbctx.Context, token *types.PasswordResetToken) error
	GetByToken(dbc dbctx.Context, token string) (*types.PasswordResetToken, error)
	MarkUsed(dbc dbctx.Context, id uuid.UUID) error
	DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error
	DeleteExpired(dbc dbctx.Context, now time.Time) (int64, error)
}

type passwordResetTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPasswordResetTokenRepo(db *gorm.DB, baseLog *logger.Logger) PasswordResetTokenRepo {
	repoLog := baseLog.With("repo", "PasswordResetTokenRepo")
	return &passwordResetTokenRepo{db: db, log: repoLog}
}

func (r *passwordResetTokenRepo) Create(dbc dbctx.Context, token *types.PasswordResetToken) error {
	return dbc.DB(r.db).Create(token).Error
}

func (r *passwordResetTokenRepo) GetByToken(dbc dbctx.Context, token string) (*types.PasswordResetToken, error) {
	var row types.PasswordResetToken
	if err := dbc.DB(r.db).Where("token = ?", token).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *passwordResetTokenRepo) MarkUsed(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).
		Model(&types.PasswordResetToken{}).
		Where("id = ?", id).
		Update("used", true).Error
}

func (r *passwordResetTokenRepo) DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error {
	return dbc.DB(r.db).
		Where("user_id = ?", userID).
		Delete(&types.PasswordResetToken{}).Error
}

func (r *passwordResetTokenRepo) DeleteExpired(dbc dbctx.Context, now time.Time) (int64, error) {
	res := dbc.DB(r.db).
		Where("expires_at < ? OR used = ?", now, true).
		Delete(&types.PasswordResetToken{})
	return res.RowsAffected, res.Error
}
