package testutil

import (
	"time"

	"energy-forecast-service/internal/core/domain"
)

// HourlySeries appends n hourly energy_consumption rows for key starting at
// start. Values count up from base.
func HourlySeries(table *domain.Table, key domain.Key, start time.Time, n int, base float64) *domain.Table {
	for i := 0; i < n; i++ {
		if err := table.Append(key, start.Add(time.Duration(i)*time.Hour), base+float64(i)); err != nil {
			panic(err)
		}
	}
	return table
}

// EnergyTable returns an empty keyed table with the energy_consumption measure.
func EnergyTable() *domain.Table {
	return domain.NewTable(true, domain.ColumnEnergyConsumption)
}
