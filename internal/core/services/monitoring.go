package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"energy-forecast-service/internal/core/domain"
	ports "energy-forecast-service/internal/core/ports/output"
)

// MonitoringService maintains the monitoring snapshot after each batch
// prediction run.
type MonitoringService struct {
	store  ports.ArtifactStore
	bucket string
}

func NewMonitoringService(store ports.ArtifactStore, bucket string) *MonitoringService {
	return &MonitoringService{store: store, bucket: bucket}
}

// RefreshSummary describes what a refresh wrote.
type RefreshSummary struct {
	PredictionRows int
	ObservedRows   int
	MetricPoints   int
}

// Refresh folds the current forecast into the monitored forecasts, pairs
// them with the observations available so far and recomputes MAPE per
// timestamp.
func (s *MonitoringService) Refresh(ctx context.Context) (*RefreshSummary, error) {
	observed, err := s.load(ctx, domain.BlobObserved)
	if err != nil {
		return nil, err
	}
	forecast, err := s.load(ctx, domain.BlobPredictions)
	if err != nil {
		return nil, err
	}

	monitored, found, err := s.store.Read(ctx, s.ref(domain.BlobPredictionsMonitoring))
	if err != nil {
		return nil, err
	}
	if !found {
		monitored = domain.NewTable(true, forecast.Measures...)
	}
	monitored, err = monitored.Upsert(forecast)
	if err != nil {
		return nil, fmt.Errorf("merge %s: %w", domain.BlobPredictionsMonitoring, err)
	}

	observedMonitoring, err := overlap(observed, monitored)
	if err != nil {
		return nil, err
	}
	metrics, err := mapeByTime(observedMonitoring, monitored)
	if err != nil {
		return nil, err
	}

	writes := []struct {
		blob  string
		table *domain.Table
	}{
		{domain.BlobPredictionsMonitoring, monitored},
		{domain.BlobObservedMonitoring, observedMonitoring},
		{domain.BlobMetricsMonitoring, metrics},
	}
	for _, w := range writes {
		if err := s.store.Write(ctx, s.ref(w.blob), w.table); err != nil {
			return nil, err
		}
	}

	return &RefreshSummary{
		PredictionRows: monitored.Len(),
		ObservedRows:   observedMonitoring.Len(),
		MetricPoints:   metrics.Len(),
	}, nil
}

func (s *MonitoringService) ref(blob string) domain.ArtifactRef {
	return domain.NewArtifactRef(s.bucket, blob)
}

func (s *MonitoringService) load(ctx context.Context, blob string) (*domain.Table, error) {
	table, found, err := s.store.Read(ctx, s.ref(blob))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, blob)
	}
	return table, nil
}

// overlap keeps the observed rows whose composite key also has a forecast.
func overlap(observed, forecast *domain.Table) (*domain.Table, error) {
	if _, ok := observed.MeasureIndex(domain.ColumnEnergyConsumption); !ok {
		return nil, fmt.Errorf("%s: %w: %s", domain.BlobObserved, domain.ErrUnknownColumn, domain.ColumnEnergyConsumption)
	}

	wanted := make(map[domain.RowID]struct{}, forecast.Len())
	for _, r := range forecast.Rows {
		wanted[r.ID()] = struct{}{}
	}

	out := &domain.Table{Keyed: observed.Keyed, Measures: observed.Measures, Rows: []domain.Row{}}
	for _, r := range observed.Rows {
		if _, ok := wanted[r.ID()]; ok {
			out.Rows = append(out.Rows, r)
		}
	}
	out.SortByKey()
	return out, nil
}

// mapeByTime averages the absolute percentage error of every key at each
// timestamp. Observations of zero are skipped.
func mapeByTime(observed, forecast *domain.Table) (*domain.Table, error) {
	obsIdx, ok := observed.MeasureIndex(domain.ColumnEnergyConsumption)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", domain.BlobObserved, domain.ErrUnknownColumn, domain.ColumnEnergyConsumption)
	}
	predIdx, ok := forecast.MeasureIndex(domain.ColumnEnergyConsumption)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", domain.BlobPredictions, domain.ErrUnknownColumn, domain.ColumnEnergyConsumption)
	}

	predicted := make(map[domain.RowID]float64, forecast.Len())
	for _, r := range forecast.Rows {
		predicted[r.ID()] = r.Values[predIdx]
	}

	errorsAt := make(map[int64][]float64)
	for _, r := range observed.Rows {
		actual := r.Values[obsIdx]
		pred, ok := predicted[r.ID()]
		if !ok || actual == 0 || math.IsNaN(actual) || math.IsNaN(pred) {
			continue
		}
		ts := r.DatetimeUTC.UnixNano()
		errorsAt[ts] = append(errorsAt[ts], math.Abs(actual-pred)/math.Abs(actual))
	}

	stamps := make([]int64, 0, len(errorsAt))
	for ts := range errorsAt {
		stamps = append(stamps, ts)
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i] < stamps[j] })

	metrics := domain.NewTable(false, domain.ColumnMAPE)
	for _, ts := range stamps {
		if err := metrics.Append(domain.Key{}, time.Unix(0, ts), stat.Mean(errorsAt[ts], nil)); err != nil {
			return nil, err
		}
	}
	return metrics, nil
}
