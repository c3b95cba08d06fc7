package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"dispatch-core/internal/config"

	"github.com/gin-gonic/gin"
)

// PresetHandler lists BESS/limits/weights site presets available on disk.
// Grounded on the teacher's BatteryHandler (directory scan, env-var
// override for the directory, per-file best-effort loading skipping
// invalid files), generalized from "list battery yaml files" to "list
// site preset yaml files".
type PresetHandler struct {
	presetDir string
}

// NewPresetHandler creates a preset handler, defaulting its directory to
// PRESET_DIR or ./presets relative to the working directory.
func NewPresetHandler() *PresetHandler {
	dir := os.Getenv("PRESET_DIR")
	if dir == "" {
		wd, err := os.Getwd()
		if err == nil {
			dir = filepath.Join(wd, "presets")
		} else {
			dir = "./presets"
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &PresetHandler{presetDir: dir}
}

// presetSummary is the wire shape for one listed preset.
type presetSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	File string `json:"file"`
}

// ListPresets handles GET /api/v1/presets.
func (h *PresetHandler) ListPresets(c *gin.Context) {
	presets := []presetSummary{}

	entries, err := os.ReadDir(h.presetDir)
	if err != nil {
		log.Printf("PresetHandler: failed to read preset directory %s: %v", h.presetDir, err)
		c.JSON(http.StatusOK, gin.H{"presets": presets})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(h.presetDir, entry.Name())
		preset, err := config.LoadUnchecked(path)
		if err != nil {
			log.Printf("PresetHandler: skipping invalid preset file %s: %v", path, err)
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		name := preset.Name
		if name == "" {
			name = id
		}
		presets = append(presets, presetSummary{ID: id, Name: name, File: path})
	}

	c.JSON(http.StatusOK, gin.H{"presets": presets})
}
