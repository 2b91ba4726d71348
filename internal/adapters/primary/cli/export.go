package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"energy-forecast-service/internal/adapters/secondary/csvtable"
	"energy-forecast-service/internal/core/domain"
)

func newExportCommand(connect Opener) *cobra.Command {
	var blob string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print an artifact as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			ref := domain.NewArtifactRef(env.Bucket, blob)
			table, found, err := env.Store.Read(cmd.Context(), ref)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no data: %w: %s", domain.ErrArtifactNotFound, ref)
			}
			return csvtable.WriteTable(cmd.OutOrStdout(), table)
		},
	}
	cmd.Flags().StringVar(&blob, "blob", "", "artifact name, e.g. predictions.parquet")
	_ = cmd.MarkFlagRequired("blob")
	return cmd
}
