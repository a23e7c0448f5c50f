package settings

import "time"

const (
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeJSON    = "json"
	TypeString  = "string"
)

const (
	KeyCO2Threshold = "co2_threshold"
	KeyAlertColor   = "alert_color"
)

type Setting struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	Key         string    `gorm:"uniqueIndex;not null;column:setting_key" json:"key"`
	Value       string    `gorm:"column:setting_value" json:"value"`
	DataType    string    `gorm:"not null;default:string;column:data_type" json:"data_type"`
	Description string    `gorm:"column:description" json:"description"`
	IsPublic    bool      `gorm:"not null;default:false;column:is_public" json:"is_public"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }
