package cli

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"energy-forecast-service/internal/core/services"
)

func newMonitorCommand(connect Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Fold the latest forecast into the monitoring artifacts",
		Long: `Merges predictions.parquet into predictions_monitoring.parquet, pairs it with
y.parquet into y_monitoring.parquet and recomputes metrics_monitoring.parquet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			summary, err := services.NewMonitoringService(env.Store, env.Bucket).Refresh(cmd.Context())
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"bucket":          env.Bucket,
				"prediction_rows": summary.PredictionRows,
				"observed_rows":   summary.ObservedRows,
				"metric_points":   summary.MetricPoints,
			}).Info("monitoring refreshed")
			fmt.Fprintf(cmd.OutOrStdout(), "monitoring refreshed: %d predictions, %d observations, %d metric points\n",
				summary.PredictionRows, summary.ObservedRows, summary.MetricPoints)
			return nil
		},
	}
}
