package store

import (
	"context"
	"fmt"
	"time"

	"dispatch-core/internal/api/models"
	"dispatch-core/internal/dispatch"
	"dispatch-core/internal/kpi"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists dispatch runs to a local SQLite file. It implements
// dispatch.RunPersister. Grounded on cepro-simt-flux's
// repository.Repository (gorm.Open(sqlite.Open(path)), AutoMigrate,
// db.Create/db.Find).
type Repository struct {
	db *gorm.DB
}

// New opens (creating if absent) the SQLite file at path and migrates the
// run/schedule/kpi tables.
func New(path string) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Run{}, &ScheduleRow{}, &KPIRow{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &Repository{db: db}, nil
}

// WriteRun implements dispatch.RunPersister.
func (r *Repository) WriteRun(ctx context.Context, meta dispatch.RunMetadata) (string, error) {
	run := Run{
		ID:           uuid.New().String(),
		SiteID:       meta.SiteID,
		RequestedAt:  meta.RequestedAt,
		SolverKind:   meta.SolverKind,
		FallbackUsed: meta.FallbackUsed,
		CreatedAt:    time.Now().UTC(),
	}
	result := r.db.WithContext(ctx).Create(&run)
	if result.Error != nil {
		return "", result.Error
	}
	return run.ID, nil
}

// WriteSchedule implements dispatch.RunPersister.
func (r *Repository) WriteSchedule(ctx context.Context, runID string, schedule []models.ScheduleRow) error {
	rows := make([]ScheduleRow, len(schedule))
	for i, s := range schedule {
		rows[i] = ScheduleRow{
			RunID:     runID,
			Index:     i,
			PVSetKW:   s.PVSetKW,
			BattChKW:  s.BattChKW,
			BattDisKW: s.BattDisKW,
			GridImpKW: s.GridImpKW,
			GridExpKW: s.GridExpKW,
			CurtailKW: s.CurtailKW,
			SOC:       s.SOC,
			Reason:    s.Reason,
		}
	}
	if len(rows) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Create(&rows)
	return result.Error
}

// WriteKPIs implements dispatch.RunPersister.
func (r *Repository) WriteKPIs(ctx context.Context, runID string, k kpi.KPIs) error {
	row := KPIRow{
		RunID:               runID,
		TotalCost:           k.TotalCost,
		TotalCurtailKWh:     k.TotalCurtailKWh,
		PeakGridImportKW:    k.PeakGridImportKW,
		AvgSOC:              k.AvgSOC,
		GridImportKWh:       k.GridImportKWh,
		GridExportKWh:       k.GridExportKWh,
		BattChargeKWh:       k.BattChargeKWh,
		BattDischargeKWh:    k.BattDischargeKWh,
		SOCMinReached:       k.SOCMinReached,
		SOCMaxReached:       k.SOCMaxReached,
		TotalBuyCost:        k.TotalBuyCost,
		TotalSellRevenue:    k.TotalSellRevenue,
		NetEnergyKWh:        k.NetEnergyKWh,
		SelfConsumptionRate: k.SelfConsumptionRate,
	}
	result := r.db.WithContext(ctx).Create(&row)
	return result.Error
}

// GetRun fetches a persisted run with its schedule (ordered by step index)
// and KPIs by ID. A run without a KPI row yields a nil *KPIRow and no error.
func (r *Repository) GetRun(ctx context.Context, runID string) (*Run, []ScheduleRow, *KPIRow, error) {
	var run Run
	if err := r.db.WithContext(ctx).First(&run, "id = ?", runID).Error; err != nil {
		return nil, nil, nil, err
	}
	var rows []ScheduleRow
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).Order(`"index" asc`).Find(&rows).Error; err != nil {
		return nil, nil, nil, err
	}
	var k KPIRow
	if err := r.db.WithContext(ctx).First(&k, "run_id = ?", runID).Error; err != nil {
		return &run, rows, nil, nil
	}
	return &run, rows, &k, nil
}
