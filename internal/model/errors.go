package model

import (
	"errors"
	"fmt"
)

// InvalidInputError names the first request field that failed validation.
// Grounded on the teacher's config.Validate/Battery.Validate field-by-field
// error style, generalized to carry the offending field name so callers can
// surface it verbatim (spec.md §8 scenario S5 requires the error to name
// the field).
type InvalidInputError struct {
	Field string
	Msg   string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: field %q: %s", e.Field, e.Msg)
}

// ErrForecastUnavailable is returned when the forecast collaborator fails to
// supply a pv_forecast_kw array and none was provided in the request.
var ErrForecastUnavailable = errors.New("pv_forecast_unavailable")

// ErrResidualImbalance marks the rare FallbackInfeasibility case: load
// exceeded every available supply source at some step and the fallback had
// to absorb the shortfall as a logged warning rather than a hard failure.
var ErrResidualImbalance = errors.New("residual_imbalance")
