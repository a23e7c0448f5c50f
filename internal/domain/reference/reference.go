package reference

// Reference tables are read-mostly emission-factor data. Identifiers are
// opaque strings so that a malformed id simply fails to match.

type Fabric struct {
	ID          string   `gorm:"type:varchar(64);primaryKey" json:"id" yaml:"id"`
	FabricType  string   `gorm:"column:fabric_type;not null" json:"fabric_type" yaml:"fabric_type"`
	Composition string   `gorm:"column:composition" json:"composition" yaml:"composition"`
	CO2KgPerKg  *float64 `gorm:"column:co2_kg_per_kg" json:"co2_kg_per_kg" yaml:"co2_kg_per_kg"`
	Gender      string   `gorm:"column:gender" json:"gender" yaml:"gender"`
	Category    string   `gorm:"column:category" json:"category" yaml:"category"`
	Product     string   `gorm:"column:product" json:"product" yaml:"product"`
}

func (Fabric) TableName() string { return "fabrics" }

type Accessory struct {
	ID            string   `gorm:"type:varchar(64);primaryKey" json:"id" yaml:"id"`
	AccessoryName string   `gorm:"column:accessory_name;not null" json:"accessory_name" yaml:"accessory_name"`
	Material      string   `gorm:"column:material" json:"material" yaml:"material"`
	Composition   string   `gorm:"column:composition" json:"composition" yaml:"composition"`
	CO2KgPerKg    *float64 `gorm:"column:co2_kg_per_kg" json:"co2_kg_per_kg" yaml:"co2_kg_per_kg"`
	Gender        string   `gorm:"column:gender" json:"gender" yaml:"gender"`
	Category      string   `gorm:"column:category" json:"category" yaml:"category"`
	Product       string   `gorm:"column:product" json:"product" yaml:"product"`
	Unit          string   `gorm:"column:unit" json:"unit" yaml:"unit"`
}

func (Accessory) TableName() string { return "accessories" }

type Process struct {
	ID              string `gorm:"type:varchar(64);primaryKey" json:"id" yaml:"id"`
	Category        string `gorm:"column:category" json:"category" yaml:"category"`
	StageGroup      string `gorm:"column:stage_group" json:"stage_group" yaml:"stage_group"`
	Stage           string `gorm:"column:stage" json:"stage" yaml:"stage"`
	ProcessName     string `gorm:"column:process_name;not null" json:"process_name" yaml:"process_name"`
	Unit            string `gorm:"column:unit" json:"unit" yaml:"unit"`
	Description     string `gorm:"column:description" json:"description" yaml:"description"`
	AppliedProducts string `gorm:"column:applied_products" json:"applied_products" yaml:"applied_products"`

	Emission *Emission `gorm:"foreignKey:ProcessID;references:ID;constraint:OnDelete:CASCADE" json:"emission,omitempty" yaml:"emission,omitempty"`
}

func (Process) TableName() string { return "processes" }

// Emission holds the measured range for one process. Only AvgCO2Kg feeds totals.
type Emission struct {
	ProcessID string   `gorm:"type:varchar(64);primaryKey;column:process_id" json:"process_id" yaml:"-"`
	MinCO2Kg  *float64 `gorm:"column:min_co2_kg" json:"min_co2_kg" yaml:"min_co2_kg"`
	MaxCO2Kg  *float64 `gorm:"column:max_co2_kg" json:"max_co2_kg" yaml:"max_co2_kg"`
	AvgCO2Kg  *float64 `gorm:"column:avg_co2_kg" json:"avg_co2_kg" yaml:"avg_co2_kg"`
	Source    string   `gorm:"column:source" json:"source" yaml:"source"`
	Notes     string   `gorm:"column:notes" json:"notes" yaml:"notes"`
}

func (Emission) TableName() string { return "emissions" }

// LifecycleEntry is the legacy flat process table consulted when the primary
// processes table has no match.
type LifecycleEntry struct {
	ID              string   `gorm:"type:varchar(64);primaryKey" json:"id" yaml:"id"`
	UpperCategory   string   `gorm:"column:upper_category" json:"upper_category" yaml:"upper_category"`
	Category        string   `gorm:"column:category" json:"category" yaml:"category"`
	StageGroup      string   `gorm:"column:stage_group" json:"stage_group" yaml:"stage_group"`
	Stage           string   `gorm:"column:stage" json:"stage" yaml:"stage"`
	ProcessName     string   `gorm:"column:process_name;not null" json:"process_name" yaml:"process_name"`
	InputMaterial   string   `gorm:"column:input_material" json:"input_material" yaml:"input_material"`
	Unit            string   `gorm:"column:unit" json:"unit" yaml:"unit"`
	Description     string   `gorm:"column:description" json:"description" yaml:"description"`
	AppliedProducts string   `gorm:"column:applied_products" json:"applied_products" yaml:"applied_products"`
	MinCO2Kg        *float64 `gorm:"column:min_co2_kg" json:"min_co2_kg" yaml:"min_co2_kg"`
	MaxCO2Kg        *float64 `gorm:"column:max_co2_kg" json:"max_co2_kg" yaml:"max_co2_kg"`
	AvgCO2Kg        *float64 `gorm:"column:avg_co2_kg" json:"avg_co2_kg" yaml:"avg_co2_kg"`
	Source          string   `gorm:"column:source" json:"source" yaml:"source"`
	Notes           string   `gorm:"column:notes" json:"notes" yaml:"notes"`
}

func (LifecycleEntry) TableName() string { return "lifecycle_master" }

// ProcessRow is the flattened shape both process tables are read into.
type ProcessRow struct {
	ID              string   `gorm:"column:id"`
	Category        string   `gorm:"column:category"`
	StageGroup      string   `gorm:"column:stage_group"`
	Stage           string   `gorm:"column:stage"`
	ProcessName     string   `gorm:"column:process_name"`
	Unit            string   `gorm:"column:unit"`
	Description     string   `gorm:"column:description"`
	AppliedProducts string   `gorm:"column:applied_products"`
	MinCO2Kg        *float64 `gorm:"column:min_co2_kg"`
	MaxCO2Kg        *float64 `gorm:"column:max_co2_kg"`
	AvgCO2Kg        *float64 `gorm:"column:avg_co2_kg"`
	Source          string   `gorm:"column:source"`
	Notes           string   `gorm:"column:notes"`
}
