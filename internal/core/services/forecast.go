package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"energy-forecast-service/internal/core/domain"
	ports "energy-forecast-service/internal/core/ports/output"
)

// HistoryWindow is the number of hourly observations returned next to a
// forecast: one week.
const HistoryWindow = 7 * 24

// ForecastService answers read-only queries over the pipeline artifacts.
// Every call fetches its artifacts afresh; nothing is cached.
type ForecastService struct {
	store  ports.ArtifactStore
	bucket string
}

func NewForecastService(store ports.ArtifactStore, bucket string) *ForecastService {
	return &ForecastService{store: store, bucket: bucket}
}

// PredictionsResult pairs the latest observed week with the forecast.
type PredictionsResult struct {
	DatetimeUTC            []time.Time
	EnergyConsumption      []float64
	PredsDatetimeUTC       []time.Time
	PredsEnergyConsumption []float64
}

// MonitoringMetricsResult is the accuracy metric over time.
type MonitoringMetricsResult struct {
	DatetimeUTC []time.Time
	MAPE        []float64
}

// MonitoringValuesResult pairs monitored observations with their forecasts.
type MonitoringValuesResult struct {
	ObservedDatetimeUTC          []time.Time
	ObservedEnergyConsumption    []float64
	PredictionsDatetimeUTC       []time.Time
	PredictionsEnergyConsumption []float64
}

func (s *ForecastService) ConsumerTypeValues(ctx context.Context) ([]int, error) {
	return s.distinct(ctx, domain.LevelConsumerType)
}

func (s *ForecastService) AreaValues(ctx context.Context) ([]int, error) {
	return s.distinct(ctx, domain.LevelArea)
}

func (s *ForecastService) distinct(ctx context.Context, level domain.IndexLevel) ([]int, error) {
	features, err := s.load(ctx, domain.BlobFeatures)
	if err != nil {
		return nil, err
	}
	return features.Distinct(level)
}

// Predictions returns the most recent week of observations and the forecast
// for key. Both artifacts must hold the key.
func (s *ForecastService) Predictions(ctx context.Context, key domain.Key) (*PredictionsResult, error) {
	observed, forecast, err := s.pair(ctx, key, domain.BlobObserved, domain.BlobPredictions)
	if err != nil {
		return nil, err
	}

	history, err := observed.MostRecent(HistoryWindow).Project(domain.ColumnDatetimeUTC, domain.ColumnEnergyConsumption)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", domain.BlobObserved, err)
	}
	preds, err := forecast.SortByTime().Project(domain.ColumnDatetimeUTC, domain.ColumnEnergyConsumption)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", domain.BlobPredictions, err)
	}

	return &PredictionsResult{
		DatetimeUTC:            history.DatetimeUTC,
		EnergyConsumption:      history.Measures[domain.ColumnEnergyConsumption],
		PredsDatetimeUTC:       preds.DatetimeUTC,
		PredsEnergyConsumption: preds.Measures[domain.ColumnEnergyConsumption],
	}, nil
}

// MonitoringMetrics returns the full aggregate accuracy series.
func (s *ForecastService) MonitoringMetrics(ctx context.Context) (*MonitoringMetricsResult, error) {
	metrics, err := s.load(ctx, domain.BlobMetricsMonitoring)
	if err != nil {
		return nil, err
	}

	p, err := metrics.SortByTime().Project(domain.ColumnDatetimeUTC, domain.ColumnMAPE)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", domain.BlobMetricsMonitoring, err)
	}

	return &MonitoringMetricsResult{
		DatetimeUTC: p.DatetimeUTC,
		MAPE:        p.Measures[domain.ColumnMAPE],
	}, nil
}

// MonitoringValues returns every monitored observation and forecast for key.
func (s *ForecastService) MonitoringValues(ctx context.Context, key domain.Key) (*MonitoringValuesResult, error) {
	observed, forecast, err := s.pair(ctx, key, domain.BlobObservedMonitoring, domain.BlobPredictionsMonitoring)
	if err != nil {
		return nil, err
	}

	obs, err := observed.SortByTime().Project(domain.ColumnDatetimeUTC, domain.ColumnEnergyConsumption)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", domain.BlobObservedMonitoring, err)
	}
	preds, err := forecast.SortByTime().Project(domain.ColumnDatetimeUTC, domain.ColumnEnergyConsumption)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", domain.BlobPredictionsMonitoring, err)
	}

	return &MonitoringValuesResult{
		ObservedDatetimeUTC:          obs.DatetimeUTC,
		ObservedEnergyConsumption:    obs.Measures[domain.ColumnEnergyConsumption],
		PredictionsDatetimeUTC:       preds.DatetimeUTC,
		PredictionsEnergyConsumption: preds.Measures[domain.ColumnEnergyConsumption],
	}, nil
}

// pair loads two keyed artifacts and selects key from both.
func (s *ForecastService) pair(ctx context.Context, key domain.Key, observedBlob, forecastBlob string) (*domain.Table, *domain.Table, error) {
	observedAll, err := s.load(ctx, observedBlob)
	if err != nil {
		return nil, nil, err
	}
	forecastAll, err := s.load(ctx, forecastBlob)
	if err != nil {
		return nil, nil, err
	}

	observed, err := selectKey(observedAll, key, observedBlob)
	if err != nil {
		return nil, nil, err
	}
	forecast, err := selectKey(forecastAll, key, forecastBlob)
	if err != nil {
		return nil, nil, err
	}
	return observed, forecast, nil
}

func (s *ForecastService) load(ctx context.Context, blob string) (*domain.Table, error) {
	table, found, err := s.store.Read(ctx, domain.NewArtifactRef(s.bucket, blob))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, blob)
	}
	return table, nil
}

func selectKey(table *domain.Table, key domain.Key, blob string) (*domain.Table, error) {
	sub, err := table.SelectByKey(key)
	if err != nil {
		var nf *domain.KeyNotFoundError
		if errors.As(err, &nf) {
			nf.Artifact = blob
			return nil, nf
		}
		return nil, fmt.Errorf("%s: %w", blob, err)
	}
	return sub, nil
}
