package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"energy-forecast-service/internal/adapters/primary/cli"
	"energy-forecast-service/internal/adapters/secondary/blobstore"
	"energy-forecast-service/internal/adapters/secondary/parquet"
	"energy-forecast-service/internal/config"
	"energy-forecast-service/internal/core/services"
	"energy-forecast-service/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Init(cfg.Logger)

	open := func(ctx context.Context) (*cli.Env, error) {
		blobs, closeStore, err := blobstore.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &cli.Env{
			Store:  services.NewArtifactGateway(blobs, parquet.NewCodec()),
			Bucket: cfg.Storage.Bucket,
			Close:  closeStore,
		}, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(open).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
