// Package model holds the core domain types shared by every dispatch
// component: the DispatchProblem input, the Solution output, and the
// enums and invariant checks both solvers are judged against.
package model

import (
	"fmt"
	"math"
)

// BESSParams describes the battery energy storage system attached to a site.
// Units: CapacityKWh in kWh, power limits in kW, SOC fields are fractions in
// [0,1], efficiencies are fractions in (0,1].
type BESSParams struct {
	CapacityKWh     float64
	PChargeMaxKW    float64
	PDischargeMaxKW float64
	SOC0            float64
	SOCMin          float64
	SOCMax          float64
	EtaCharge       float64
	EtaDischarge    float64
}

// GridLimits describes the site's grid connection and transformer rating.
type GridLimits struct {
	GridImportMaxKW  float64
	GridExportMaxKW  float64
	TransformerMaxKW float64
}

// Weights are the objective's per-term coefficients.
type Weights struct {
	Cost      float64
	Curtail   float64
	Violation float64
}

// DefaultWeights mirrors the request defaults named in the external
// interface: cost=1.0, curtail=0.2, violation=1000.0.
func DefaultWeights() Weights {
	return Weights{Cost: 1.0, Curtail: 0.2, Violation: 1000.0}
}

// DefaultBESSParams mirrors the request defaults named in the external
// interface.
func DefaultBESSParams() BESSParams {
	return BESSParams{
		CapacityKWh:     100.0,
		PChargeMaxKW:    50.0,
		PDischargeMaxKW: 50.0,
		SOC0:            0.5,
		SOCMin:          0.2,
		SOCMax:          0.9,
		EtaCharge:       0.95,
		EtaDischarge:    0.95,
	}
}

// DefaultGridLimits mirrors the request defaults named in the external
// interface.
func DefaultGridLimits() GridLimits {
	return GridLimits{
		GridImportMaxKW:  200.0,
		GridExportMaxKW:  200.0,
		TransformerMaxKW: 250.0,
	}
}

// DispatchProblem is the immutable input shared by the MILP optimizer and
// the fallback scheduler. It is built once per request by internal/normalize
// and discarded once a Solution has been produced.
type DispatchProblem struct {
	T       int
	DtHours float64

	PVForecastKW []float64
	LoadKW       []float64
	TariffBuy    []float64
	TariffSell   []float64

	BESS   BESSParams
	Limits GridLimits
	Weights Weights
}

// Validate checks the structural invariants a DispatchProblem must satisfy
// before either solver may run: array lengths agree with T, array values,
// BESS parameters and weights are in range, every grid limit is finite and
// non-negative, and the trivial all-grid schedule respects the
// declared SOC bounds (spec.md §3's rejection rule for soc0 outside
// [soc_min, soc_max]).
func (p DispatchProblem) Validate() error {
	if p.T < 1 {
		return &InvalidInputError{Field: "resolution_minutes", Msg: "implied horizon T must be >= 1"}
	}
	if p.DtHours <= 0 {
		return &InvalidInputError{Field: "resolution_minutes", Msg: "must be > 0"}
	}
	for name, arr := range map[string][]float64{
		"load_kw":        p.LoadKW,
		"tariff.buy":     p.TariffBuy,
		"tariff.sell":    p.TariffSell,
		"pv_forecast_kw": p.PVForecastKW,
	} {
		if len(arr) != p.T {
			return &InvalidInputError{Field: name, Msg: fmt.Sprintf("length %d does not match implied horizon T=%d", len(arr), p.T)}
		}
		for i, v := range arr {
			if v < 0 {
				return &InvalidInputError{Field: name, Msg: fmt.Sprintf("index %d is negative (%v)", i, v)}
			}
		}
	}

	b := p.BESS
	if b.CapacityKWh <= 0 {
		return &InvalidInputError{Field: "bess.capacity_kwh", Msg: "must be > 0"}
	}
	if b.PChargeMaxKW < 0 || b.PDischargeMaxKW < 0 {
		return &InvalidInputError{Field: "bess.p_charge_max_kw", Msg: "power limits must be >= 0"}
	}
	if b.SOCMin < 0 || b.SOCMax > 1 || b.SOCMin > b.SOCMax {
		return &InvalidInputError{Field: "bess.soc_min", Msg: "must satisfy 0<=soc_min<=soc_max<=1"}
	}
	if b.SOC0 < b.SOCMin || b.SOC0 > b.SOCMax {
		return &InvalidInputError{Field: "bess.soc0", Msg: "must lie within [soc_min, soc_max]"}
	}
	if b.EtaCharge <= 0 || b.EtaCharge > 1 || b.EtaDischarge <= 0 || b.EtaDischarge > 1 {
		return &InvalidInputError{Field: "bess.eta_charge", Msg: "efficiencies must be in (0, 1]"}
	}

	l := p.Limits
	if l.GridImportMaxKW < 0 || l.GridExportMaxKW < 0 || l.TransformerMaxKW < 0 {
		return &InvalidInputError{Field: "limits.grid_import_max_kw", Msg: "limits must be >= 0"}
	}
	for _, lim := range []struct {
		field string
		value float64
	}{
		{"limits.grid_import_max_kw", l.GridImportMaxKW},
		{"limits.grid_export_max_kw", l.GridExportMaxKW},
		{"limits.transformer_max_kw", l.TransformerMaxKW},
	} {
		if math.IsNaN(lim.value) || math.IsInf(lim.value, 0) {
			return &InvalidInputError{Field: lim.field, Msg: "must be finite"}
		}
	}

	w := p.Weights
	if w.Cost < 0 || w.Curtail < 0 || w.Violation < 0 {
		return &InvalidInputError{Field: "weights.cost", Msg: "weights must be >= 0"}
	}

	// Trivial all-grid schedule: pv=0, batt=0, curtail=pv_forecast,
	// grid_imp=load, grid_exp=0, soc=soc0. Only the SOC bound is a real
	// check here since the other fields are non-negative by construction.
	if b.SOC0 < b.SOCMin || b.SOC0 > b.SOCMax {
		return &InvalidInputError{Field: "bess.soc0", Msg: "trivial all-grid schedule violates soc bounds"}
	}

	return nil
}
