package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/bootstrap"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/cli"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/config"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// keep tables readable; connection chatter goes to stderr only when asked
	if os.Getenv("PLANOGRAMCTL_VERBOSE") == "" {
		log.SetOutput(io.Discard)
		logging.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
		logging.SetOutput(os.Stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	components, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer components.Close()

	app := &cli.App{
		Repo:         components.Repo,
		Transitions:  components.Transitions,
		Uploader:     components.Exports,
		ExportPrefix: cfg.ExportPrefix,
		Persistent:   cfg.DataSource == config.SourcePostgres,
	}
	return cli.NewRootCmd(app).Execute()
}
