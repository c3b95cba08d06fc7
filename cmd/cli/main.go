// Command cli runs the dispatch optimizer from the command line, outside
// the HTTP API. Grounded on the teacher's cmd/cli (subcommand-via-
// os.Args[1], flag.NewFlagSet per subcommand, panic-on-fatal-error),
// retargeted from "backtest"/"rank" subcommands to a single "dispatch"
// subcommand.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"dispatch-core/internal/api/models"
	"dispatch-core/internal/config"
	"dispatch-core/internal/dispatch"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "dispatch":
		cmdDispatch(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli dispatch --request request.json --preset presets/default.yaml --out results/schedule.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - request.json holds site_id, resolution_minutes, load_kw, tariff, pv_forecast_kw")
	fmt.Println("  - preset.yaml supplies bess/limits/weights; without --preset the built-in defaults apply")
}

// requestFile is the on-disk JSON shape for `cli dispatch --request`. It
// mirrors models.Request but keeps bess/limits/weights out, since those
// come from --preset on the CLI path.
type requestFile struct {
	SiteID            string      `json:"site_id"`
	ResolutionMinutes int         `json:"resolution_minutes"`
	LoadKW            []float64   `json:"load_kw"`
	Tariff            models.Tariff `json:"tariff"`
	PVForecastKW      []float64   `json:"pv_forecast_kw"`
	UseMILP           *bool       `json:"use_milp"`
	SolverTimeoutMs   int         `json:"solver_timeout_ms"`
}

func cmdDispatch(args []string) {
	fs := flag.NewFlagSet("dispatch", flag.ExitOnError)
	reqPath := fs.String("request", "", "Path to request JSON")
	presetPath := fs.String("preset", "", "Path to site preset YAML")
	outPath := fs.String("out", "results/schedule.csv", "Output CSV path")
	_ = fs.Parse(args)

	if *reqPath == "" {
		fmt.Println("--request is required")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*reqPath)
	if err != nil {
		panic(err)
	}
	var rf requestFile
	if err := json.Unmarshal(raw, &rf); err != nil {
		panic(err)
	}

	req := models.Request{
		SiteID:            rf.SiteID,
		ResolutionMinutes: rf.ResolutionMinutes,
		LoadKW:            rf.LoadKW,
		Tariff:            rf.Tariff,
		PVForecastKW:      rf.PVForecastKW,
		UseMILP:           rf.UseMILP,
		SolverTimeoutMs:   rf.SolverTimeoutMs,
	}

	if *presetPath != "" {
		preset, err := config.Load(*presetPath)
		if err != nil {
			panic(err)
		}
		bess := preset.BESS.ToModelParams()
		req.BESS = &models.BESSConfig{
			CapacityKWh:     &bess.CapacityKWh,
			PChargeMaxKW:    &bess.PChargeMaxKW,
			PDischargeMaxKW: &bess.PDischargeMaxKW,
			SOC0:            &bess.SOC0,
			SOCMin:          &bess.SOCMin,
			SOCMax:          &bess.SOCMax,
			EtaCharge:       &bess.EtaCharge,
			EtaDischarge:    &bess.EtaDischarge,
		}
		limits := preset.Limits.ToModelLimits()
		req.Limits = &models.LimitsConfig{
			GridImportMaxKW:  &limits.GridImportMaxKW,
			GridExportMaxKW:  &limits.GridExportMaxKW,
			TransformerMaxKW: &limits.TransformerMaxKW,
		}
		weights := preset.Weights.ToModelWeights()
		req.Weights = &models.WeightsConfig{
			Cost:      &weights.Cost,
			Curtail:   &weights.Curtail,
			Violation: &weights.Violation,
		}
	}

	result := dispatch.Solve(context.Background(), req, dispatch.Dependencies{})

	if result.Status == "invalid_input" {
		fmt.Printf("invalid input: %s\n", errMessage(result.Error))
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := writeScheduleCSV(*outPath, result.Schedule); err != nil {
		panic(err)
	}

	fmt.Printf("Wrote %d rows to %s\n", len(result.Schedule), *outPath)
	fmt.Printf("Status=%s Solver=%s FallbackUsed=%v\n", result.Status, result.Solver, result.FallbackUsed)
	fmt.Printf("TotalCost=$%.2f CurtailKWh=%.2f PeakGridImportKW=%.2f AvgSOC=%.3f\n",
		result.KPIs.TotalCost, result.KPIs.TotalCurtailKWh, result.KPIs.PeakGridImportKW, result.KPIs.AvgSOC)
}

func writeScheduleCSV(path string, rows []models.ScheduleRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"index", "pv_set_kw", "batt_ch_kw", "batt_dis_kw", "grid_imp_kw", "grid_exp_kw", "curtail_kw", "soc", "reason"}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, r := range rows {
		record := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(r.PVSetKW, 'f', 4, 64),
			strconv.FormatFloat(r.BattChKW, 'f', 4, 64),
			strconv.FormatFloat(r.BattDisKW, 'f', 4, 64),
			strconv.FormatFloat(r.GridImpKW, 'f', 4, 64),
			strconv.FormatFloat(r.GridExpKW, 'f', 4, 64),
			strconv.FormatFloat(r.CurtailKW, 'f', 4, 64),
			strconv.FormatFloat(r.SOC, 'f', 4, 64),
			r.Reason,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func errMessage(msg *string) string {
	if msg == nil {
		return ""
	}
	return *msg
}
