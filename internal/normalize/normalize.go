// Package normalize turns the wire-level models.Request into a validated
// internal/model.DispatchProblem, applying the defaults named in spec.md §6
// and rejecting malformed input with a model.InvalidInputError naming the
// first failing field. Grounded on the teacher's internal/config.Config's
// Load/MergeBattery override-merge pattern and internal/model.Battery's
// field-by-field Validate.
package normalize

import (
	"fmt"

	"dispatch-core/internal/api/models"
	"dispatch-core/internal/model"
)

// Normalize validates req and builds a model.DispatchProblem. The implied
// horizon T is taken from len(req.LoadKW); every other array must match it
// exactly.
func Normalize(req models.Request) (model.DispatchProblem, error) {
	t := len(req.LoadKW)
	if t == 0 {
		return model.DispatchProblem{}, &model.InvalidInputError{Field: "load_kw", Msg: "must be non-empty"}
	}
	if req.ResolutionMinutes <= 0 {
		return model.DispatchProblem{}, &model.InvalidInputError{Field: "resolution_minutes", Msg: "must be > 0"}
	}

	if err := checkLen("load_kw", req.LoadKW, t); err != nil {
		return model.DispatchProblem{}, err
	}
	if err := checkLen("tariff.buy", req.Tariff.Buy, t); err != nil {
		return model.DispatchProblem{}, err
	}
	if err := checkLen("tariff.sell", req.Tariff.Sell, t); err != nil {
		return model.DispatchProblem{}, err
	}
	// pv_forecast_kw is checked for length only when present; an absent
	// forecast is the caller's (internal/dispatch.Solve) signal to invoke
	// the forecast collaborator before normalization can complete.
	if req.PVForecastKW != nil {
		if err := checkLen("pv_forecast_kw", req.PVForecastKW, t); err != nil {
			return model.DispatchProblem{}, err
		}
	}

	bess, err := normalizeBESS(req.BESS)
	if err != nil {
		return model.DispatchProblem{}, err
	}
	limits, err := normalizeLimits(req.Limits)
	if err != nil {
		return model.DispatchProblem{}, err
	}
	weights, err := normalizeWeights(req.Weights)
	if err != nil {
		return model.DispatchProblem{}, err
	}

	problem := model.DispatchProblem{
		T:            t,
		DtHours:      float64(req.ResolutionMinutes) / 60.0,
		PVForecastKW: req.PVForecastKW,
		LoadKW:       req.LoadKW,
		TariffBuy:    req.Tariff.Buy,
		TariffSell:   req.Tariff.Sell,
		BESS:         bess,
		Limits:       limits,
		Weights:      weights,
	}

	if req.PVForecastKW == nil {
		// Caller must supply pv_forecast_kw via the forecast collaborator
		// before Validate (which requires matching array lengths) can run.
		return problem, nil
	}

	if err := problem.Validate(); err != nil {
		return model.DispatchProblem{}, err
	}
	return problem, nil
}

func checkLen(field string, arr []float64, t int) error {
	if len(arr) != t {
		return &model.InvalidInputError{Field: field, Msg: fmt.Sprintf("length %d does not match load_kw length %d", len(arr), t)}
	}
	for i, v := range arr {
		if v < 0 {
			return &model.InvalidInputError{Field: field, Msg: fmt.Sprintf("index %d is negative (%v)", i, v)}
		}
	}
	return nil
}

func normalizeBESS(cfg *models.BESSConfig) (model.BESSParams, error) {
	p := model.DefaultBESSParams()
	if cfg == nil {
		return p, nil
	}
	if cfg.CapacityKWh != nil {
		p.CapacityKWh = *cfg.CapacityKWh
	}
	if cfg.PChargeMaxKW != nil {
		p.PChargeMaxKW = *cfg.PChargeMaxKW
	}
	if cfg.PDischargeMaxKW != nil {
		p.PDischargeMaxKW = *cfg.PDischargeMaxKW
	}
	if cfg.SOC0 != nil {
		p.SOC0 = *cfg.SOC0
	}
	if cfg.SOCMin != nil {
		p.SOCMin = *cfg.SOCMin
	}
	if cfg.SOCMax != nil {
		p.SOCMax = *cfg.SOCMax
	}
	if cfg.EtaCharge != nil {
		p.EtaCharge = *cfg.EtaCharge
	}
	if cfg.EtaDischarge != nil {
		p.EtaDischarge = *cfg.EtaDischarge
	}
	if p.SOCMin > p.SOCMax {
		return p, &model.InvalidInputError{Field: "bess.soc_min", Msg: "must be <= soc_max"}
	}
	if p.SOC0 < p.SOCMin || p.SOC0 > p.SOCMax {
		return p, &model.InvalidInputError{Field: "bess.soc0", Msg: "must lie within [soc_min, soc_max]"}
	}
	return p, nil
}

func normalizeLimits(cfg *models.LimitsConfig) (model.GridLimits, error) {
	l := model.DefaultGridLimits()
	if cfg == nil {
		return l, nil
	}
	if cfg.GridImportMaxKW != nil {
		l.GridImportMaxKW = *cfg.GridImportMaxKW
	}
	if cfg.GridExportMaxKW != nil {
		l.GridExportMaxKW = *cfg.GridExportMaxKW
	}
	if cfg.TransformerMaxKW != nil {
		l.TransformerMaxKW = *cfg.TransformerMaxKW
	}
	if l.GridImportMaxKW < 0 || l.GridExportMaxKW < 0 || l.TransformerMaxKW < 0 {
		return l, &model.InvalidInputError{Field: "limits.grid_import_max_kw", Msg: "must be >= 0"}
	}
	return l, nil
}

func normalizeWeights(cfg *models.WeightsConfig) (model.Weights, error) {
	w := model.DefaultWeights()
	if cfg == nil {
		return w, nil
	}
	if cfg.Cost != nil {
		w.Cost = *cfg.Cost
	}
	if cfg.Curtail != nil {
		w.Curtail = *cfg.Curtail
	}
	if cfg.Violation != nil {
		w.Violation = *cfg.Violation
	}
	if w.Cost < 0 || w.Curtail < 0 || w.Violation < 0 {
		return w, &model.InvalidInputError{Field: "weights.cost", Msg: "must be >= 0"}
	}
	return w, nil
}
