package calculation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Calculation is one persisted footprint result.
type Calculation struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id"`
	ProductName    string         `gorm:"column:product_name" json:"product_name"`
	TotalCO2Kg     float64        `gorm:"column:total_co2;not null" json:"total_co2"`
	FabricCO2Kg    float64        `gorm:"column:fabric_co2;not null" json:"fabric_co2"`
	AccessoryCO2Kg float64        `gorm:"column:accessory_co2;not null" json:"accessory_co2"`
	ProcessCO2Kg   float64        `gorm:"column:process_co2;not null" json:"process_co2"`
	Breakdown      datatypes.JSON `gorm:"column:breakdown" json:"breakdown"`
	CreatedAt      time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (Calculation) TableName() string { return "co2_calculations" }

func (c *Calculation) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
