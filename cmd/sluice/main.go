package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/masterwizr/sluice/internal/config"
	"github.com/masterwizr/sluice/internal/connector"
	"github.com/masterwizr/sluice/internal/docstore/mongostore"
	"github.com/masterwizr/sluice/internal/engine"
	"github.com/masterwizr/sluice/internal/engine/classifier"
	"github.com/masterwizr/sluice/internal/engine/normalizer"
	"github.com/masterwizr/sluice/internal/exporter"
	"github.com/masterwizr/sluice/internal/logging"
	"github.com/masterwizr/sluice/internal/notify/webhook"
	"github.com/masterwizr/sluice/internal/objstore/miniostore"
	"github.com/masterwizr/sluice/internal/pipeline"
	"github.com/masterwizr/sluice/internal/sink"
	"github.com/masterwizr/sluice/internal/sink/mongosink"
	"github.com/masterwizr/sluice/internal/sink/stdoutsink"

	// Register connector implementations.
	_ "github.com/masterwizr/sluice/internal/connector/amplitude"
	_ "github.com/masterwizr/sluice/internal/connector/file"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	exporting := cfg.Mode == "run" || cfg.Mode == "export"
	loading := cfg.Mode == "run" || cfg.Mode == "load"

	// When records are dumped to stdout, logs must stay on stderr.
	dryRun := loading && cfg.Pipeline.Sink == "stdout"
	logging.Init(dryRun, logging.ParseLevel(cfg.LogLevel))

	// Set up graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %v, shutting down...\n", sig)
		cancel()
	}()

	// Object store, shared by both stages.
	store, err := miniostore.New(miniostore.Config{
		Endpoint:  cfg.ObjectStore.Endpoint,
		AccessKey: cfg.ObjectStore.AccessKey,
		SecretKey: cfg.ObjectStore.SecretKey,
		UseSSL:    cfg.ObjectStore.UseSSL,
		Bucket:    cfg.ObjectStore.Bucket,
	})
	if err != nil {
		log.Fatalf("object store: %v", err)
	}

	// Export stage.
	var exp *exporter.Exporter
	if exporting {
		ctor, err := connector.Get(cfg.Connector.Provider)
		if err != nil {
			log.Fatalf("connector: %v", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Fatalf("object store: %v", err)
		}
		exp = exporter.New(ctor(), store, cfg.ObjectStore.Prefix)
	}

	// Load stage.
	var snk sink.Sink
	if loading {
		switch cfg.Pipeline.Sink {
		case "stdout":
			snk = stdoutsink.New()
		default:
			ds, err := mongostore.Connect(ctx, mongostore.Config{
				URI:            cfg.Mongo.URI,
				Database:       cfg.Mongo.Database,
				ConnectTimeout: cfg.Mongo.ConnectTimeout,
			})
			if err != nil {
				log.Fatalf("document store: %v", err)
			}
			snk = mongosink.New(ds)
		}
		defer snk.Close(context.Background())
	}

	eng := engine.New(
		normalizer.New(normalizer.DefaultExclusions()),
		classifier.New(cfg.Pipeline.URLField, cfg.Pipeline.Buckets),
	)

	p := pipeline.New(exp, store, eng, snk)

	slog.Info("starting batch run", "version", config.Version,
		"mode", cfg.Mode, "date", cfg.Date, "connector", cfg.Connector.Provider)

	report, runErr := p.Run(ctx, pipeline.Params{
		Date:   cfg.Date,
		Prefix: cfg.ObjectStore.Prefix,
		Source: connector.Config{
			Provider:  cfg.Connector.Provider,
			APIKey:    cfg.Connector.APIKey,
			SecretKey: cfg.Connector.SecretKey,
			ProjectID: cfg.Connector.ProjectID,
			Endpoint:  cfg.Connector.Endpoint,
			Dir:       cfg.Connector.Dir,
		},
	})

	if cfg.Pipeline.NotifyURL != "" {
		// Report delivery is best-effort; a down webhook never fails the run.
		n := webhook.New(cfg.Pipeline.NotifyURL)
		if err := n.Send(ctx, report); err != nil {
			slog.Warn("run report not delivered", "error", err)
		}
	}

	out := os.Stdout
	if dryRun {
		out = os.Stderr
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		slog.Error("encoding run report", "error", err)
	}

	if runErr != nil {
		slog.Error("batch run failed", "date", cfg.Date, "error", runErr)
		os.Exit(1)
	}
}
