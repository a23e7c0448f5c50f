package app

import (
	"gorm.io/gorm"

	"github.com/zerodesign/zerodesign-backend/internal/data/repos"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

type Repos struct {
	User               repos.UserRepo
	PasswordResetToken repos.PasswordResetTokenRepo
	Reference          repos.ReferenceRepo
	ReferenceStore     *repos.ReferenceStore
	Setting            repos.SettingRepo
	Calculation        repos.CalculationRepo
	Passport           repos.PassportRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	reference := repos.NewReferenceRepo(db, log)
	return Repos{
		User:               repos.NewUserRepo(db, log),
		PasswordResetToken: repos.NewPasswordResetTokenRepo(db, log),
		Reference:          reference,
		ReferenceStore:     repos.NewReferenceStore(db, reference, log),
		Setting:            repos.NewSettingRepo(db, log),
		Calculation:        repos.NewCalculationRepo(db, log),
		Passport:           repos.NewPassportRepo(db, log),
	}
}
