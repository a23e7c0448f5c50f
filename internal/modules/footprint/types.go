package footprint

// DefaultQuantity is used for every quantity the caller leaves out.
const DefaultQuantity = 1.0

// Request holds the five calculation inputs. An empty FabricID means no
// fabric was selected.
type Request struct {
	FabricID            string    `json:"fabric_id"`
	FabricQuantityKg    float64   `json:"fabric_quantity_kg"`
	AccessoryIDs        []string  `json:"accessory_ids"`
	AccessoryQuantities []float64 `json:"accessory_quantities"`
	ProcessIDs          []string  `json:"process_ids"`
}

type FabricDetails struct {
	ID          string  `json:"id"`
	FabricType  string  `json:"fabric_type"`
	Composition string  `json:"composition"`
	CO2PerKg    float64 `json:"co2_per_kg"`
	QuantityKg  float64 `json:"quantity_kg"`
	Gender      string  `json:"gender"`
	Category    string  `json:"category"`
	Product     string  `json:"product"`
}

type FabricResult struct {
	CO2Kg   float64        `json:"co2_kg"`
	Details *FabricDetails `json:"details"`
	Error   string         `json:"error,omitempty"`
}

type AccessoryDetail struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Material    string  `json:"material"`
	Composition string  `json:"composition"`
	CO2PerKg    float64 `json:"co2_per_kg"`
	QuantityKg  float64 `json:"quantity_kg"`
	CO2Total    float64 `json:"co2_total"`
	Gender      string  `json:"gender"`
	Category    string  `json:"category"`
	Product     string  `json:"product"`
	Unit        string  `json:"unit"`
}

type AccessoryResult struct {
	CO2Kg   float64           `json:"co2_kg"`
	Details []AccessoryDetail `json:"details"`
	Count   int               `json:"count"`
	Error   string            `json:"error,omitempty"`
}

type ProcessDetail struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	StageGroup      string   `json:"stage_group"`
	Stage           string   `json:"stage"`
	Unit            string   `json:"unit"`
	Description     string   `json:"description"`
	AppliedProducts string   `json:"applied_products"`
	MinCO2Kg        *float64 `json:"min_co2_kg"`
	MaxCO2Kg        *float64 `json:"max_co2_kg"`
	AvgCO2Kg        float64  `json:"avg_co2_kg"`
	Source          string   `json:"source"`
	Notes           string   `json:"notes"`
}

// Process lookup origins.
const (
	SourcePrimary   = "processes"
	SourceLifecycle = "lifecycle"
)

type ProcessResult struct {
	CO2Kg   float64         `json:"co2_kg"`
	Details []ProcessDetail `json:"details"`
	Count   int             `json:"count"`
	Source  string          `json:"source,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type Summary struct {
	FabricCO2      float64 `json:"fabric_co2"`
	AccessoriesCO2 float64 `json:"accessories_co2"`
	ProcessesCO2   float64 `json:"processes_co2"`
	TotalItems     int     `json:"total_items"`
}

// Breakdown is the result of one calculation. Per-category problems are
// listed in Errors; Error is only set when the whole calculation failed.
type Breakdown struct {
	TotalCO2Kg  float64         `json:"total_co2_kg"`
	Fabric      FabricResult    `json:"fabric"`
	Accessories AccessoryResult `json:"accessories"`
	Processes   ProcessResult   `json:"processes"`
	Summary     Summary         `json:"summary"`
	Errors      []string        `json:"errors"`
	Error       string          `json:"error,omitempty"`
}

func emptyBreakdown() *Breakdown {
	return &Breakdown{
		Accessories: AccessoryResult{Details: []AccessoryDetail{}},
		Processes:   ProcessResult{Details: []ProcessDetail{}},
		Errors:      []string{},
	}
}

type CatalogFabric struct {
	ID          string  `json:"id"`
	FabricType  string  `json:"fabric_type"`
	Composition string  `json:"composition"`
	CO2KgPerKg  float64 `json:"co2_kg_per_kg"`
	Gender      string  `json:"gender"`
	Category    string  `json:"category"`
	Product     string  `json:"product"`
}

type CatalogAccessory struct {
	ID            string  `json:"id"`
	AccessoryName string  `json:"accessory_name"`
	Material      string  `json:"material"`
	CO2KgPerKg    float64 `json:"co2_kg_per_kg"`
	Gender        string  `json:"gender"`
	Category      string  `json:"category"`
	Product       string  `json:"product"`
}

type CatalogProcess struct {
	ID          string  `json:"id"`
	ProcessName string  `json:"process_name"`
	Category    string  `json:"category"`
	StageGroup  string  `json:"stage_group"`
	AvgCO2Kg    float64 `json:"avg_co2_kg"`
}

// Catalog lists the selectable reference rows.
type Catalog struct {
	Fabrics     []CatalogFabric    `json:"fabrics"`
	Accessories []CatalogAccessory `json:"accessories"`
	Processes   []CatalogProcess   `json:"processes"`
}
