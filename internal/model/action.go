package model

// Action classifies a timestep's dominant battery behavior for display
// purposes (CLI/demo summaries). Grounded on the teacher's Action string
// enum and its sign-based ActionFromPowerMW classifier, generalized from a
// single signed power value to the two non-negative batt_ch/batt_dis
// variables this spec uses.
type Action string

const (
	ActionCharging    Action = "charging"
	ActionIdle        Action = "idle"
	ActionDischarging Action = "discharging"
)

// ActionFromPowers classifies a step from its battery charge/discharge
// power, using ε=0.01 kW as the noise floor (matching the Explainer's ε).
func ActionFromPowers(battChKW, battDisKW float64) Action {
	const eps = 0.01
	switch {
	case battChKW > eps:
		return ActionCharging
	case battDisKW > eps:
		return ActionDischarging
	default:
		return ActionIdle
	}
}
