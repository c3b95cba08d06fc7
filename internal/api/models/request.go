// Package models holds the wire (JSON) request/response shapes for the
// dispatch HTTP surface, kept separate from internal/model's domain types so
// that internal/normalize and internal/dispatch can both depend on them
// without an import cycle. Field tagging style (json tags, binding tags on
// the required top-level fields) mirrors the teacher's
// internal/api/models/request.go.
package models

// Request is the wire shape of "solve(request)" from spec.md §6. Unknown
// fields are rejected by the handler's json.Decoder.DisallowUnknownFields,
// not by a struct tag — gin's binding tags validate presence/shape, not
// field exhaustiveness.
type Request struct {
	SiteID            string    `json:"site_id"`
	ResolutionMinutes int       `json:"resolution_minutes" binding:"required"`
	LoadKW            []float64 `json:"load_kw" binding:"required"`
	Tariff            Tariff    `json:"tariff" binding:"required"`
	PVForecastKW      []float64 `json:"pv_forecast_kw,omitempty"`

	BESS    *BESSConfig    `json:"bess,omitempty"`
	Limits  *LimitsConfig  `json:"limits,omitempty"`
	Weights *WeightsConfig `json:"weights,omitempty"`

	UseMILP         *bool `json:"use_milp,omitempty"`
	SolverTimeoutMs int   `json:"solver_timeout_ms,omitempty"`
}

// Tariff holds the buy/sell price arrays.
type Tariff struct {
	Buy  []float64 `json:"buy" binding:"required"`
	Sell []float64 `json:"sell" binding:"required"`
}

// BESSConfig is the optional BESS block; absent fields take the defaults
// named in spec.md §6 (applied by internal/normalize, not here).
type BESSConfig struct {
	CapacityKWh     *float64 `json:"capacity_kwh,omitempty"`
	PChargeMaxKW    *float64 `json:"p_charge_max_kw,omitempty"`
	PDischargeMaxKW *float64 `json:"p_discharge_max_kw,omitempty"`
	SOC0            *float64 `json:"soc0,omitempty"`
	SOCMin          *float64 `json:"soc_min,omitempty"`
	SOCMax          *float64 `json:"soc_max,omitempty"`
	EtaCharge       *float64 `json:"eta_charge,omitempty"`
	EtaDischarge    *float64 `json:"eta_discharge,omitempty"`
}

// LimitsConfig is the optional grid/transformer limits block.
type LimitsConfig struct {
	GridImportMaxKW  *float64 `json:"grid_import_max_kw,omitempty"`
	GridExportMaxKW  *float64 `json:"grid_export_max_kw,omitempty"`
	TransformerMaxKW *float64 `json:"transformer_max_kw,omitempty"`
}

// WeightsConfig is the optional objective-weights block.
type WeightsConfig struct {
	Cost      *float64 `json:"cost,omitempty"`
	Curtail   *float64 `json:"curtail,omitempty"`
	Violation *float64 `json:"violation,omitempty"`
}
