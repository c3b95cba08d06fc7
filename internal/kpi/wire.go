package kpi

import "dispatch-core/internal/api/models"

// ToWire converts KPIs to the JSON-tagged wire shape returned in Result.
func (k KPIs) ToWire() models.KPIs {
	return models.KPIs{
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
}
