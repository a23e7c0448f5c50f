package domain

import (
	"github.com/zerodesign/zerodesign-backend/internal/domain/auth"
	"github.com/zerodesign/zerodesign-backend/internal/domain/calculation"
	"github.com/zerodesign/zerodesign-backend/internal/domain/passport"
	"github.com/zerodesign/zerodesign-backend/internal/domain/reference"
	"github.com/zerodesign/zerodesign-backend/internal/domain/settings"
	"github.com/zerodesign/zerodesign-backend/internal/domain/user"
)

type (
	Fabric         = reference.Fabric
	Accessory      = reference.Accessory
	Process        = reference.Process
	Emission       = reference.Emission
	LifecycleEntry = reference.LifecycleEntry
	ProcessRow     = reference.ProcessRow

	User               = user.User
	PasswordResetToken = auth.PasswordResetToken

	Setting     = settings.Setting
	Calculation = calculation.Calculation
	Passport    = passport.Passport
)

// Models lists every table owned by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&Fabric{},
		&Accessory{},
		&Process{},
		&Emission{},
		&LifecycleEntry{},
		&User{},
		&PasswordResetToken{},
		&Setting{},
		&Calculation{},
		&Passport{},
	}
}
