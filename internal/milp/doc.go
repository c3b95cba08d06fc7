// Package milp implements the MILP-labeled dispatch optimizer.
//
// Decision variables per step t in [0,T) (continuous except where noted):
//
//	pv_set[t]     in [0, pv_forecast[t]]
//	batt_ch[t]    in [0, p_charge_max]
//	batt_dis[t]   in [0, p_discharge_max]
//	grid_imp[t]   in [0, grid_import_max]
//	grid_exp[t]   in [0, grid_export_max]
//	curtail[t]    in [0, pv_forecast[t]]
//	soc[t]        in [soc_min, soc_max] for t in [0,T]
//	b_charge[t]   in {0,1}: 1 iff charging
//	b_import[t]   in {0,1}: 1 iff importing
//	slack_transformer in [0, inf), global (not per-step)
//
// Objective (minimize):
//
//	w_cost    * sum_t (tariff_buy[t]*grid_imp[t] - tariff_sell[t]*grid_exp[t]) * dt
//	+ w_curtail * sum_t curtail[t] * dt
//	+ w_violation * slack_transformer
//
// Constraints (for all t):
//
//	C1 Power balance:     pv_set[t] + batt_dis[t] + grid_imp[t] = load[t] + batt_ch[t] + grid_exp[t]
//	C2 PV decomposition:  pv_set[t] + curtail[t] = pv_forecast[t]
//	C3 SOC dynamics:      soc[t+1] = soc[t] + (eta_charge*batt_ch[t] - batt_dis[t]/eta_discharge) * dt / capacity_kwh; soc[0] = soc0
//	C4 Charge indicator:  batt_ch[t] <= M*b_charge[t], batt_dis[t] <= M*(1-b_charge[t])
//	C5 Import indicator:  grid_imp[t] <= M*b_import[t], grid_exp[t] <= M*(1-b_import[t])
//	C6 Transformer limit: grid_imp[t] + grid_exp[t] <= transformer_max + slack_transformer
//
// No MILP/LP solver library is grounded in the reference corpus (gonum's
// optimize package, lp_solve, HiGHS, GLPK, etc. do not appear anywhere in
// the example repos). Package milp instead implements Solve as a
// self-contained exact-to-discretization optimizer: a dynamic program over
// (timestep, discretized soc), generalizing the DP-over-discretized-SOC
// technique the teacher used for single-variable battery arbitrage
// (internal/strategy/oracle.go) to the full PV/BESS/grid/curtailment
// balance this package's model requires, with balance.go's resolveBalance
// standing in for the LP's per-step degrees of freedom. b_charge/b_import
// are never explicit program variables: mutual exclusivity (C4/C5) holds by
// construction because splitAction sets only one of batt_ch/batt_dis and
// resolveBalance only one of grid_imp/grid_exp nonzero (see balance.go). M is kept as a named constant purely for
// documentation fidelity with the model above; the DP never multiplies it
// against anything.
package milp

// M is the big-M constant from C4/C5. Retained for documentation parity
// with the model statement above; unused by the DP formulation, which
// guarantees mutual exclusivity by construction instead of a linear bound.
const M = 1e6
