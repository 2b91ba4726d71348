package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-forecast-service/internal/adapters/secondary/memory"
	"energy-forecast-service/internal/adapters/secondary/parquet"
	"energy-forecast-service/internal/core/domain"
	"energy-forecast-service/internal/core/services"
)

const observedCSV = `area,consumer_type,datetime_utc,energy_consumption
1,111,2024-01-01T00:00:00Z,100
1,111,2024-01-01T01:00:00Z,200
`

const forecastCSV = `area,consumer_type,datetime_utc,energy_consumption
1,111,2024-01-01T00:00:00Z,110
1,111,2024-01-01T01:00:00Z,180
1,111,2024-01-01T02:00:00Z,190
`

type harness struct {
	gateway *services.ArtifactGateway
	opened  int
	closed  int
}

func newHarness() *harness {
	return &harness{gateway: services.NewArtifactGateway(memory.NewBlobStore(), parquet.NewCodec())}
}

func (h *harness) open(ctx context.Context) (*Env, error) {
	h.opened++
	return &Env{Store: h.gateway, Bucket: "energy", Close: func() { h.closed++ }}, nil
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(h.open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPublishAndExport(t *testing.T) {
	h := newHarness()

	out, err := h.run(t, "", "publish", "--blob", domain.BlobObserved, "--csv", writeFile(t, "y.csv", observedCSV))
	require.NoError(t, err)
	assert.Equal(t, "published 2 rows to energy/y.parquet\n", out)

	out, err = h.run(t, "", "export", "--blob", domain.BlobObserved)
	require.NoError(t, err)
	assert.Equal(t, observedCSV, out)

	assert.Equal(t, 2, h.opened)
	assert.Equal(t, 2, h.closed)
}

func TestPublishFromStdin(t *testing.T) {
	h := newHarness()

	_, err := h.run(t, forecastCSV, "publish", "--blob", domain.BlobPredictions, "--csv", "-")
	require.NoError(t, err)

	table, found, err := h.gateway.Read(context.Background(), domain.NewArtifactRef("energy", domain.BlobPredictions))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3, table.Len())
}

func TestPublish_InvalidCSVDoesNotConnect(t *testing.T) {
	h := newHarness()

	_, err := h.run(t, "datetime_utc,v\nnot-a-time,1\n", "publish", "--blob", domain.BlobObserved, "--csv", "-")
	require.Error(t, err)
	assert.Equal(t, 0, h.opened)
}

func TestPublish_RequiresFlags(t *testing.T) {
	h := newHarness()

	_, err := h.run(t, "", "publish", "--blob", domain.BlobObserved)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv")
}

func TestExport_Absent(t *testing.T) {
	h := newHarness()

	_, err := h.run(t, "", "export", "--blob", domain.BlobMetricsMonitoring)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrArtifactNotFound))
	assert.Contains(t, err.Error(), "no data")
}

func TestExport_BucketOverride(t *testing.T) {
	h := newHarness()
	_, err := h.run(t, observedCSV, "publish", "--bucket", "staging", "--blob", domain.BlobObserved, "--csv", "-")
	require.NoError(t, err)

	_, err = h.run(t, "", "export", "--blob", domain.BlobObserved)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

	out, err := h.run(t, "", "export", "--bucket", "staging", "--blob", domain.BlobObserved)
	require.NoError(t, err)
	assert.Equal(t, observedCSV, out)
}

func TestMonitor(t *testing.T) {
	h := newHarness()
	_, err := h.run(t, observedCSV, "publish", "--blob", domain.BlobObserved, "--csv", "-")
	require.NoError(t, err)
	_, err = h.run(t, forecastCSV, "publish", "--blob", domain.BlobPredictions, "--csv", "-")
	require.NoError(t, err)

	out, err := h.run(t, "", "monitor")
	require.NoError(t, err)
	assert.Equal(t, "monitoring refreshed: 3 predictions, 2 observations, 2 metric points\n", out)

	out, err = h.run(t, "", "export", "--blob", domain.BlobMetricsMonitoring)
	require.NoError(t, err)
	assert.Equal(t, "datetime_utc,MAPE\n2024-01-01T00:00:00Z,0.1\n2024-01-01T01:00:00Z,0.1\n", out)
}
