package cli

import (
	"context"

	"github.com/spf13/cobra"

	ports "energy-forecast-service/internal/core/ports/output"
)

// Env is what a subcommand needs to reach the artifact bucket.
type Env struct {
	Store  ports.ArtifactStore
	Bucket string
	Close  func()
}

// Opener connects to the configured storage backend.
type Opener func(ctx context.Context) (*Env, error)

type rootOptions struct {
	bucket string
}

// NewRootCommand builds the batch command tree. Storage is opened lazily by
// each subcommand through open.
func NewRootCommand(open Opener) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "batch",
		Short:         "Publish, export and monitor energy forecast artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.bucket, "bucket", "", "override the configured artifact bucket")

	connect := func(ctx context.Context) (*Env, error) {
		env, err := open(ctx)
		if err != nil {
			return nil, err
		}
		if opts.bucket != "" {
			env.Bucket = opts.bucket
		}
		if env.Close == nil {
			env.Close = func() {}
		}
		return env, nil
	}

	root.AddCommand(
		newPublishCommand(connect),
		newExportCommand(connect),
		newMonitorCommand(connect),
	)
	return root
}
