package repos

import (
	"gorm.io/gorm"

	"github.com/zerodesign/zerodesign-backend/internal/data/repos/auth"
	"github.com/zerodesign/zerodesign-backend/internal/data/repos/calculation"
	"github.com/zerodesign/zerodesign-backend/internal/data/repos/passport"
	"github.com/zerodesign/zerodesign-backend/internal/data/repos/reference"
	"github.com/zerodesign/zerodesign-backend/internal/data/repos/settings"
	"github.com/zerodesign/zerodesign-backend/internal/data/repos/user"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type PasswordResetTokenRepo = auth.PasswordResetTokenRepo

type ReferenceRepo = reference.ReferenceRepo
type ReferenceStore = reference.Store
type FabricFilter = reference.FabricFilter
type ReferenceSearchResult = reference.SearchResult

type SettingRepo = settings.SettingRepo
type CalculationRepo = calculation.CalculationRepo
type PassportRepo = passport.PassportRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewPasswordResetTokenRepo(db *gorm.DB, log *logger.Logger) PasswordResetTokenRepo {
	return auth.NewPasswordResetTokenRepo(db, log)
}

func NewReferenceRepo(db *gorm.DB, log *logger.Logger) ReferenceRepo {
	return reference.NewReferenceRepo(db, log)
}
func NewReferenceStore(db *gorm.DB, repo ReferenceRepo, log *logger.Logger) *ReferenceStore {
	return reference.NewStore(db, repo, log)
}

func NewSettingRepo(db *gorm.DB, log *logger.Logger) SettingRepo {
	return settings.NewSettingRepo(db, log)
}
func NewCalculationRepo(db *gorm.DB, log *logger.Logger) CalculationRepo {
	return calculation.NewCalculationRepo(db, log)
}
func NewPassportRepo(db *gorm.DB, log *logger.Logger) PassportRepo {
	return passport.NewPassportRepo(db, log)
}
