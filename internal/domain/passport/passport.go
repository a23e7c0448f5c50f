package passport

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Passport struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DPPCode       string         `gorm:"uniqueIndex;not null;column:dpp_code" json:"dpp_code"`
	UserID        uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id"`
	CalculationID uuid.UUID      `gorm:"type:uuid;index;not null" json:"calculation_id"`
	ProductName   string         `gorm:"not null;column:product_name" json:"product_name"`
	Category      string         `gorm:"column:category" json:"category"`
	Description   string         `gorm:"column:description" json:"description"`
	TotalCO2Kg    float64        `gorm:"column:total_co2_kg;not null" json:"total_co2_kg"`
	Breakdown     datatypes.JSON `gorm:"column:breakdown" json:"breakdown"`
	CreatedAt     time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Passport) TableName() string { return "passports" }

func (p *Passport) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
