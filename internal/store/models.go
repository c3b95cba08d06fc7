// Package store persists dispatch runs, schedules, and KPIs to a local
// SQLite file via GORM. Grounded on cepro-simt-flux's
// repository/repository.go (gorm.Open(sqlite.Open(path)), AutoMigrate,
// Create/Find), using github.com/glebarez/sqlite so the database driver
// stays pure Go (no cgo), matching that repo's choice.
package store

import "time"

// Run is the persisted record of one dispatch.Solve invocation.
type Run struct {
	ID           string `gorm:"primaryKey"`
	SiteID       string `gorm:"index"`
	RequestedAt  time.Time
	SolverKind   string
	FallbackUsed bool
	CreatedAt    time.Time
}

// ScheduleRow is one persisted timestep of a Run's schedule.
type ScheduleRow struct {
	ID        uint `gorm:"primaryKey;autoIncrement"`
	RunID     string `gorm:"index"`
	Index     int
	PVSetKW   float64
	BattChKW  float64
	BattDisKW float64
	GridImpKW float64
	GridExpKW float64
	CurtailKW float64
	SOC       float64
	Reason    string
}

// KPIRow is the persisted KPI summary of a Run.
type KPIRow struct {
	RunID               string `gorm:"primaryKey"`
	TotalCost           float64
	TotalCurtailKWh     float64
	PeakGridImportKW    float64
	AvgSOC              float64
	GridImportKWh       float64
	GridExportKWh       float64
	BattChargeKWh       float64
	BattDischargeKWh    float64
	SOCMinReached       float64
	SOCMaxReached       float64
	TotalBuyCost        float64
	TotalSellRevenue    float64
	NetEnergyKWh        float64
	SelfConsumptionRate float64
}
