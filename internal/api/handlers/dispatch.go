package handlers

import (
	"encoding/json"
	"net/http"

	"dispatch-core/internal/api/models"
	"dispatch-core/internal/dispatch"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// DispatchHandler handles dispatch-optimization requests. Grounded on the
// teacher's BacktestHandler (validate -> fetch/normalize -> run -> JSON
// response, with a typed-error-to-status-code mapping), generalized from
// a one-shot backtest run to dispatch.Solve's request/result contract.
type DispatchHandler struct {
	deps dispatch.Dependencies
}

// NewDispatchHandler creates a dispatch handler with the given
// collaborators (forecast fetcher and run persister, either of which may
// be nil).
func NewDispatchHandler(deps dispatch.Dependencies) *DispatchHandler {
	return &DispatchHandler{deps: deps}
}

// RunDispatch handles POST /api/v1/dispatch.
func (h *DispatchHandler) RunDispatch(c *gin.Context) {
	var req models.Request
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(&req)
	if err == nil {
		err = binding.Validator.ValidateStruct(&req)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	result := dispatch.Solve(c.Request.Context(), req, h.deps)

	switch result.Status {
	case "invalid_input":
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_INPUT",
				Message: errMessage(result.Error),
			},
		})
	default:
		c.JSON(http.StatusOK, result)
	}
}

func errMessage(msg *string) string {
	if msg == nil {
		return ""
	}
	return *msg
}
