package milp

import (
	"math"

	"dispatch-core/internal/model"
)

// splitAction turns a single signed battery-action variable (positive =
// charge, negative = discharge) into the model's two non-negative
// batt_ch/batt_dis variables, clipped by both the power rating and the
// SOC headroom (internal/model.AvailableChargeLimitKW /
// AvailableDischargeLimitKW). Representing the action as one signed value
// guarantees batt_ch and batt_dis are never simultaneously nonzero, which
// is how this package satisfies C4 without an explicit b_charge variable.
func splitAction(action, soc, socMin, socMax, capacityKWh, etaCharge, etaDischarge, pChargeMax, pDischargeMax, dtHours float64) (battCh, battDis float64) {
	if action >= 0 {
		c := math.Min(action, pChargeMax)
		limit := model.AvailableChargeLimitKW(soc, socMax, capacityKWh, etaCharge, dtHours)
		c = math.Min(c, limit)
		if c < 0 {
			c = 0
		}
		return c, 0
	}
	d := math.Min(-action, pDischargeMax)
	limit := model.AvailableDischargeLimitKW(soc, socMin, capacityKWh, etaDischarge, dtHours)
	d = math.Min(d, limit)
	if d < 0 {
		d = 0
	}
	return 0, d
}

// resolveBalance computes pv_set/curtail/grid_imp/grid_exp from the
// already-decided battCh/battDis, load, and PV forecast for one step,
// satisfying C1 and C2 by construction. It branches on the sign of
// net load (load + batt_ch - batt_dis):
//
//   - net load >= 0: PV first offsets the net need, any PV surplus beyond
//     that is exported (capped by grid_export_max) then curtailed; any
//     remaining deficit beyond available PV is imported (capped by
//     grid_import_max). grid_exp is only ever nonzero when the deficit was
//     fully covered by PV (deficit == 0), and grid_imp is only nonzero when
//     PV could not cover the need — so grid_imp and grid_exp are never
//     simultaneously nonzero (C5 holds by construction).
//   - net load < 0: batt_dis alone exceeds load+batt_ch, so the excess must
//     be exported; PV is admitted only up to the remaining export headroom,
//     the rest curtailed. grid_imp is always zero in this branch.
//
// residual is the magnitude of an unmet balance this branch could not
// place within the declared grid limits (e.g. grid_import_max too small to
// cover a deficit, or grid_export_max too small to place excess supply).
// It can come from the limits alone or from the action under evaluation
// (e.g. a discharge larger than load plus export headroom); fillStep
// penalizes it by w_violation, so the DP search avoids such actions when a
// balanced one exists.
func resolveBalance(pvForecast, load, battCh, battDis, gridImportMaxKW, gridExportMaxKW float64) (pvSet, curtail, gridImp, gridExp, residual float64) {
	netLoad := load + battCh - battDis

	if netLoad >= 0 {
		directUse := math.Min(pvForecast, netLoad)
		deficit := netLoad - directUse
		gridImp = math.Min(deficit, gridImportMaxKW)
		residual = deficit - gridImp

		pvRemaining := pvForecast - directUse
		gridExp = math.Min(pvRemaining, gridExportMaxKW)
		curtail = pvRemaining - gridExp
		pvSet = directUse + gridExp
		return
	}

	excess := -netLoad
	maxPVUsable := gridExportMaxKW - excess
	if maxPVUsable < 0 {
		maxPVUsable = 0
	}
	pvSet = math.Min(pvForecast, maxPVUsable)
	curtail = pvForecast - pvSet
	gridExp = math.Min(pvSet+excess, gridExportMaxKW)
	gridImp = 0
	if excess > gridExportMaxKW {
		residual = excess - gridExportMaxKW
	}
	return
}

// transformerOverflowKW is the per-step value C6's slack would have to
// absorb if slack_transformer were computed per-step instead of once
// globally: max(0, grid_imp+grid_exp-transformer_max).
func transformerOverflowKW(gridImp, gridExp, transformerMaxKW float64) float64 {
	overflow := gridImp + gridExp - transformerMaxKW
	if overflow < 0 {
		return 0
	}
	return overflow
}
