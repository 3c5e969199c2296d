package lca

// Metal identifies the metal being assessed.
type Metal string

const (
	Aluminum Metal = "aluminum"
	Copper   Metal = "copper"
)

// Metals lists the supported metals in display order.
var Metals = []Metal{Aluminum, Copper}

func (m Metal) Valid() bool {
	return m == Aluminum || m == Copper
}

// MaterialSource tells whether the metal is mined or recovered.
type MaterialSource string

const (
	Primary  MaterialSource = "primary"
	Recycled MaterialSource = "recycled"
)

// MaterialSources lists the supported sources in display order.
var MaterialSources = []MaterialSource{Primary, Recycled}

func (s MaterialSource) Valid() bool {
	return s == Primary || s == Recycled
}

// EnergySource is the electricity mix used during production.
type EnergySource string

const (
	Coal       EnergySource = "coal"
	GridMix    EnergySource = "grid-mix"
	Renewables EnergySource = "renewables"
)

func (e EnergySource) Valid() bool {
	return e == Coal || e == GridMix || e == Renewables
}

// TransportMode is the freight mode between production and use.
type TransportMode string

const (
	Truck TransportMode = "truck"
	Rail  TransportMode = "rail"
	Ship  TransportMode = "ship"
)

func (t TransportMode) Valid() bool {
	return t == Truck || t == Rail || t == Ship
}

// EndOfLife is the treatment applied once the product is discarded.
type EndOfLife string

const (
	Landfill  EndOfLife = "landfill"
	Recycling EndOfLife = "recycling"
)

func (e EndOfLife) Valid() bool {
	return e == Landfill || e == Recycling
}

// Scenario selects the economy model the results are adjusted for.
type Scenario string

const (
	Linear   Scenario = "linear"
	Circular Scenario = "circular"
)

func (s Scenario) Valid() bool {
	return s == Linear || s == Circular
}

// Inputs are the user supplied parameters of a single assessment.
type Inputs struct {
	Metal             Metal          `json:"metal" yaml:"metal"`
	MaterialSource    MaterialSource `json:"materialSource" yaml:"materialSource"`
	EnergySource      EnergySource   `json:"energySource" yaml:"energySource"`
	TransportMode     TransportMode  `json:"transportMode" yaml:"transportMode"`
	TransportDistance float64        `json:"transportDistance" yaml:"transportDistance"` // km
	EndOfLife         EndOfLife      `json:"endOfLife" yaml:"endOfLife"`
	Quantity          float64        `json:"quantity" yaml:"quantity"` // kg
	// CustomEmissionFactor overrides the table factor (kg CO2/kg) when set.
	CustomEmissionFactor *float64 `json:"customEmissionFactor" yaml:"customEmissionFactor"`
}

// DefaultInputs mirrors the form state a new session starts with.
func DefaultInputs() Inputs {
	return Inputs{
		Metal:             Aluminum,
		MaterialSource:    Primary,
		EnergySource:      GridMix,
		TransportMode:     Truck,
		TransportDistance: 500,
		EndOfLife:         Recycling,
		Quantity:          1000,
	}
}

// Results holds the environmental metrics of an assessment.
type Results struct {
	CO2Footprint     float64 `json:"co2Footprint"`     // kg CO2 eq
	EnergyUse        float64 `json:"energyUse"`        // MJ
	RecycledContent  float64 `json:"recycledContent"`  // percent
	WaterUse         float64 `json:"waterUse"`         // liters
	WasteGenerated   float64 `json:"wasteGenerated"`   // kg
	CircularityScore float64 `json:"circularityScore"` // 0-100
}
