package dto

import (
	"math"
	"strconv"
	"time"

	"energy-forecast-service/internal/core/services"
)

// Measure is a float that encodes NaN as null.
type Measure float64

func (m Measure) MarshalJSON() ([]byte, error) {
	f := float64(m)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

type HealthResponse struct {
	Name       string `json:"name"`
	APIVersion string `json:"api_version"`
}

type ValuesResponse struct {
	Values []int `json:"values"`
}

type PredictionsResponse struct {
	DatetimeUTC            []time.Time `json:"datetime_utc"`
	EnergyConsumption      []Measure   `json:"energy_consumption"`
	PredsDatetimeUTC       []time.Time `json:"preds_datetime_utc"`
	PredsEnergyConsumption []Measure   `json:"preds_energy_consumption"`
}

type MonitoringMetricsResponse struct {
	DatetimeUTC []time.Time `json:"datetime_utc"`
	MAPE        []Measure   `json:"mape"`
}

// MonitoringValuesResponse keeps the field names the dashboard already
// consumes, including the trailing "c" on the last one.
type MonitoringValuesResponse struct {
	YMonitoringDatetimeUTC                  []time.Time `json:"y_monitoring_datetime_utc"`
	YMonitoringEnergyConsumption            []Measure   `json:"y_monitoring_energy_consumption"`
	PredictionsMonitoringDatetimeUTC        []time.Time `json:"predictions_monitoring_datetime_utc"`
	PredictionsMonitoringEnergyConsumptionc []Measure   `json:"predictions_monitoring_energy_consumptionc"`
}

func ToValuesResponse(values []int) ValuesResponse {
	if values == nil {
		values = []int{}
	}
	return ValuesResponse{Values: values}
}

func ToPredictionsResponse(r *services.PredictionsResult) PredictionsResponse {
	return PredictionsResponse{
		DatetimeUTC:            times(r.DatetimeUTC),
		EnergyConsumption:      floats(r.EnergyConsumption),
		PredsDatetimeUTC:       times(r.PredsDatetimeUTC),
		PredsEnergyConsumption: floats(r.PredsEnergyConsumption),
	}
}

func ToMonitoringMetricsResponse(r *services.MonitoringMetricsResult) MonitoringMetricsResponse {
	return MonitoringMetricsResponse{
		DatetimeUTC: times(r.DatetimeUTC),
		MAPE:        floats(r.MAPE),
	}
}

func ToMonitoringValuesResponse(r *services.MonitoringValuesResult) MonitoringValuesResponse {
	return MonitoringValuesResponse{
		YMonitoringDatetimeUTC:                  times(r.ObservedDatetimeUTC),
		YMonitoringEnergyConsumption:            floats(r.ObservedEnergyConsumption),
		PredictionsMonitoringDatetimeUTC:        times(r.PredictionsDatetimeUTC),
		PredictionsMonitoringEnergyConsumptionc: floats(r.PredictionsEnergyConsumption),
	}
}

func times(ts []time.Time) []time.Time {
	if ts == nil {
		return []time.Time{}
	}
	return ts
}

func floats(vs []float64) []Measure {
	out := make([]Measure, len(vs))
	for i, v := range vs {
		out[i] = Measure(v)
	}
	return out
}
