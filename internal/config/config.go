// Package config loads BESS/limits/weights site presets from YAML,
// consumed by cmd/cli and the API's preset listing. Grounded on the teacher's
// internal/config.Config Load/LoadUnchecked/MergeBattery override pattern,
// generalized from "load a battery + strategy" to "load a BESS + limits +
// weights site preset".
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"dispatch-core/internal/model"

	"gopkg.in/yaml.v3"
)

// SitePreset is the on-disk configuration shape (YAML) for one site.
type SitePreset struct {
	Name string `yaml:"name"`

	// BESSFile optionally points at a separate YAML holding just the bess
	// block (e.g. presets/bess/*.yaml). Explicit fields in BESS override
	// whatever BESSFile supplies, via MergeBESS.
	BESSFile string      `yaml:"bess_file"`
	BESS     BESSPreset  `yaml:"bess"`
	Limits   LimitsPreset `yaml:"limits"`
	Weights  WeightsPreset `yaml:"weights"`
}

// BESSPreset mirrors model.BESSParams with YAML tags and zero-value-means-
// unset override semantics.
type BESSPreset struct {
	CapacityKWh     float64 `yaml:"capacity_kwh"`
	PChargeMaxKW    float64 `yaml:"p_charge_max_kw"`
	PDischargeMaxKW float64 `yaml:"p_discharge_max_kw"`
	SOC0            float64 `yaml:"soc0"`
	SOCMin          float64 `yaml:"soc_min"`
	SOCMax          float64 `yaml:"soc_max"`
	EtaCharge       float64 `yaml:"eta_charge"`
	EtaDischarge    float64 `yaml:"eta_discharge"`
}

// LimitsPreset mirrors model.GridLimits.
type LimitsPreset struct {
	GridImportMaxKW  float64 `yaml:"grid_import_max_kw"`
	GridExportMaxKW  float64 `yaml:"grid_export_max_kw"`
	TransformerMaxKW float64 `yaml:"transformer_max_kw"`
}

// WeightsPreset mirrors model.Weights.
type WeightsPreset struct {
	Cost      float64 `yaml:"cost"`
	Curtail   float64 `yaml:"curtail"`
	Violation float64 `yaml:"violation"`
}

// Load reads, merges bess_file if present, defaults an absent soc0 to
// soc_min (other absent fields stay zero), and validates the resulting preset by constructing a model.DispatchProblem's
// BESS/Limits/Weights blocks (a full DispatchProblem.Validate() needs the
// load/tariff arrays too, which this preset does not carry, so validation
// here is limited to the BESS/limits/weights ranges model.DispatchProblem
// itself would reject).
func Load(path string) (*SitePreset, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if c.BESS.SOC0 == 0 {
		c.BESS.SOC0 = c.BESS.SOCMin
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges a preset but does not validate it. Useful
// for debugging/printing partial configs.
func LoadUnchecked(path string) (*SitePreset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c SitePreset
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.BESSFile != "" {
		bessPath := c.BESSFile
		if !filepath.IsAbs(bessPath) {
			cand := filepath.Join(filepath.Dir(path), bessPath)
			if _, err := os.Stat(cand); err == nil {
				bessPath = cand
			}
		}
		loaded, err := loadBESSFile(bessPath)
		if err != nil {
			return nil, err
		}
		c.BESS = MergeBESS(loaded, c.BESS)
	}
	return &c, nil
}

// Validate constructs the model.BESSParams/GridLimits/Weights this preset
// implies and rejects the preset if they would fail DispatchProblem's own
// range checks.
func (c *SitePreset) Validate() error {
	bess := c.BESS.ToModelParams()
	if bess.CapacityKWh <= 0 {
		return fmt.Errorf("bess config invalid: capacity_kwh must be > 0")
	}
	if bess.SOCMin > bess.SOCMax || bess.SOC0 < bess.SOCMin || bess.SOC0 > bess.SOCMax {
		return fmt.Errorf("bess config invalid: soc0 must lie within [soc_min, soc_max]")
	}
	if bess.EtaCharge <= 0 || bess.EtaCharge > 1 || bess.EtaDischarge <= 0 || bess.EtaDischarge > 1 {
		return fmt.Errorf("bess config invalid: efficiencies must be in (0, 1]")
	}
	if bess.PChargeMaxKW < 0 || bess.PDischargeMaxKW < 0 || bess.SOCMin < 0 || bess.SOCMax > 1 {
		return fmt.Errorf("bess config invalid: power limits must be >= 0 and soc bounds within [0, 1]")
	}
	if l := c.Limits; l.GridImportMaxKW < 0 || l.GridExportMaxKW < 0 || l.TransformerMaxKW < 0 {
		return fmt.Errorf("limits config invalid: limits must be >= 0")
	}
	if w := c.Weights; w.Cost < 0 || w.Curtail < 0 || w.Violation < 0 {
		return fmt.Errorf("weights config invalid: weights must be >= 0")
	}
	return nil
}

func (b BESSPreset) ToModelParams() model.BESSParams {
	return model.BESSParams{
		CapacityKWh:     b.CapacityKWh,
		PChargeMaxKW:    b.PChargeMaxKW,
		PDischargeMaxKW: b.PDischargeMaxKW,
		SOC0:            b.SOC0,
		SOCMin:          b.SOCMin,
		SOCMax:          b.SOCMax,
		EtaCharge:       b.EtaCharge,
		EtaDischarge:    b.EtaDischarge,
	}
}

func (l LimitsPreset) ToModelLimits() model.GridLimits {
	return model.GridLimits{
		GridImportMaxKW:  l.GridImportMaxKW,
		GridExportMaxKW:  l.GridExportMaxKW,
		TransformerMaxKW: l.TransformerMaxKW,
	}
}

func (w WeightsPreset) ToModelWeights() model.Weights {
	return model.Weights{Cost: w.Cost, Curtail: w.Curtail, Violation: w.Violation}
}

type bessFileWrapper struct {
	BESS BESSPreset `yaml:"bess"`
}

func loadBESSFile(path string) (BESSPreset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BESSPreset{}, err
	}
	var w bessFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BESSPreset{}, err
	}
	return w.BESS, nil
}

// MergeBESS overlays non-zero fields from override onto base. Used when
// loading a shared bess_file and then applying site-specific overrides.
func MergeBESS(base, override BESSPreset) BESSPreset {
	out := base
	if override.CapacityKWh != 0 {
		out.CapacityKWh = override.CapacityKWh
	}
	if override.PChargeMaxKW != 0 {
		out.PChargeMaxKW = override.PChargeMaxKW
	}
	if override.PDischargeMaxKW != 0 {
		out.PDischargeMaxKW = override.PDischargeMaxKW
	}
	if override.SOC0 != 0 {
		out.SOC0 = override.SOC0
	}
	if override.SOCMin != 0 {
		out.SOCMin = override.SOCMin
	}
	if override.SOCMax != 0 {
		out.SOCMax = override.SOCMax
	}
	if override.EtaCharge != 0 {
		out.EtaCharge = override.EtaCharge
	}
	if override.EtaDischarge != 0 {
		out.EtaDischarge = override.EtaDischarge
	}
	return out
}
