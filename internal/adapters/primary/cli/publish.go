package cli

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"energy-forecast-service/internal/adapters/secondary/csvtable"
	"energy-forecast-service/internal/core/domain"
)

func newPublishCommand(connect Opener) *cobra.Command {
	var blob, csvPath string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write a CSV table to an artifact, replacing it",
		Example: `  batch publish --blob y.parquet --csv observed.csv
  cat forecast.csv | batch publish --blob predictions.parquet --csv -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if csvPath != "-" {
				f, err := os.Open(csvPath)
				if err != nil {
					return fmt.Errorf("failed to open csv file: %w", err)
				}
				defer f.Close()
				in = f
			}

			table, err := csvtable.ReadTable(in)
			if err != nil {
				return fmt.Errorf("parse %s: %w", csvPath, err)
			}

			env, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			ref := domain.NewArtifactRef(env.Bucket, blob)
			if err := env.Store.Write(cmd.Context(), ref, table); err != nil {
				return err
			}

			log.WithFields(log.Fields{"artifact": ref.String(), "rows": table.Len()}).Info("artifact published")
			fmt.Fprintf(cmd.OutOrStdout(), "published %d rows to %s\n", table.Len(), ref)
			return nil
		},
	}
	cmd.Flags().StringVar(&blob, "blob", "", "artifact name, e.g. y.parquet")
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file to publish, - for stdin")
	_ = cmd.MarkFlagRequired("blob")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}
