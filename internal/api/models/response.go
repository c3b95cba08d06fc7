package models

// Result is the wire shape returned by "solve(request)" (spec.md §6).
type Result struct {
	Status        string        `json:"status"`
	Solver        string        `json:"solver"`
	FallbackUsed  bool          `json:"fallback_used"`
	ObjectiveValue *float64     `json:"objective_value"`
	Schedule      []ScheduleRow `json:"schedule"`
	KPIs          KPIs          `json:"kpis"`
	Error         *string       `json:"error"`
}

// ScheduleRow is one timestep of the returned schedule.
type ScheduleRow struct {
	PVSetKW   float64 `json:"pv_set_kw"`
	BattChKW  float64 `json:"batt_ch_kw"`
	BattDisKW float64 `json:"batt_dis_kw"`
	GridImpKW float64 `json:"grid_imp_kw"`
	GridExpKW float64 `json:"grid_exp_kw"`
	CurtailKW float64 `json:"curtail_kw"`
	SOC       float64 `json:"soc"`
	Reason    string  `json:"reason"`
}

// KPIs is the wire shape of the summary block named in spec.md §6. The
// extended metrics from spec.md §4.5 are included as additional
// `omitempty` fields rather than a separate response; internal/kpi's
// ToWire converts a kpi.KPIs into this shape field by field.
type KPIs struct {
	TotalCost         float64 `json:"total_cost"`
	TotalCurtailKWh   float64 `json:"total_curtail_kwh"`
	PeakGridImportKW  float64 `json:"peak_grid_import_kw"`
	AvgSOC            float64 `json:"avg_soc"`

	GridImportKWh      float64 `json:"grid_import_kwh,omitempty"`
	GridExportKWh      float64 `json:"grid_export_kwh,omitempty"`
	BattChargeKWh      float64 `json:"batt_charge_kwh,omitempty"`
	BattDischargeKWh   float64 `json:"batt_discharge_kwh,omitempty"`
	SOCMinReached      float64 `json:"soc_min_reached,omitempty"`
	SOCMaxReached      float64 `json:"soc_max_reached,omitempty"`
	TotalBuyCost       float64 `json:"total_buy_cost,omitempty"`
	TotalSellRevenue   float64 `json:"total_sell_revenue,omitempty"`
	NetEnergyKWh       float64 `json:"net_energy_kwh,omitempty"`
	SelfConsumptionRate float64 `json:"self_consumption_rate,omitempty"`
}

// ErrorResponse mirrors the teacher's error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
