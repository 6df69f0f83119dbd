package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/orbit-catalog-etl/internal/adapter/celestrak"
	httpadapter "github.com/couchcryptid/orbit-catalog-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/orbit-catalog-etl/internal/adapter/kafka"
	"github.com/couchcryptid/orbit-catalog-etl/internal/adapter/memory"
	mongoadapter "github.com/couchcryptid/orbit-catalog-etl/internal/adapter/mongo"
	neo4jadapter "github.com/couchcryptid/orbit-catalog-etl/internal/adapter/neo4j"
	"github.com/couchcryptid/orbit-catalog-etl/internal/config"
	"github.com/couchcryptid/orbit-catalog-etl/internal/observability"
	"github.com/couchcryptid/orbit-catalog-etl/internal/pipeline"
	"github.com/couchcryptid/orbit-catalog-etl/internal/position"
	"github.com/couchcryptid/orbit-catalog-etl/internal/propagation"
)

const connectTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.TracingEnabled,
		ServiceName: "orbit-catalog-etl",
		Exporter:    cfg.TracingExporter,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRatio: cfg.TracingSampleRatio,
	}, logger)
	if err != nil {
		logger.Error("failed to initialise tracing", "error", err)
		os.Exit(1)
	}

	engine := propagation.NewEngine(logger)
	catalog := memory.NewCatalog()
	api := httpadapter.API{
		Catalog:   catalog,
		Projector: position.NewCachedProjector(position.NewPropagatorProjector(engine), cfg.PositionCacheSize, metrics),
	}
	sinks := []pipeline.Sink{{Name: "memory", Loader: catalog}}
	var closers []func(context.Context) error

	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaSinkTopic, logger)
		sinks = append(sinks, pipeline.Sink{Name: "kafka", Loader: writer})
		closers = append(closers, func(context.Context) error { return writer.Close() })
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	}

	if cfg.MongoEnabled {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		store, err := mongoadapter.NewStore(connectCtx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
		cancel()
		if err != nil {
			logger.Error("failed to connect to mongo", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, pipeline.Sink{Name: "mongo", Loader: store})
		closers = append(closers, store.Close)
		api.Catalog = store
		logger.Info("mongo sink enabled", "database", cfg.MongoDatabase, "collection", cfg.MongoCollection)
	}

	if cfg.Neo4jEnabled {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		graph, err := neo4jadapter.NewGraph(connectCtx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, logger)
		cancel()
		if err != nil {
			logger.Error("failed to connect to neo4j", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, pipeline.Sink{Name: "neo4j", Loader: graph})
		closers = append(closers, graph.Close)
		api.Graph = graph
		logger.Info("neo4j sink enabled", "uri", cfg.Neo4jURI)
	}

	extractor := celestrak.NewClient(cfg.CelestrakBaseURL, cfg.CelestrakGroup, cfg.CelestrakTimeout, metrics, logger)
	transformer := pipeline.NewTransformer(engine, cfg.TransformWorkers, cfg.ClampToleranceDays, logger, metrics)
	loader := pipeline.NewFanOutLoader(logger, metrics, sinks...)

	p := pipeline.New(extractor, transformer, loader, logger, metrics, cfg.FetchInterval)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, api, logger)

	logger.Info("starting",
		"group", cfg.CelestrakGroup,
		"interval", cfg.FetchInterval,
		"workers", cfg.TransformWorkers,
		"sinks", loader.Sinks(),
	)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for _, closeFn := range closers {
		if err := closeFn(shutdownCtx); err != nil {
			logger.Error("sink close error", "error", err)
		}
	}
	observability.ShutdownTracing(shutdownCtx, shutdownTracing, logger)

	logger.Info("shutdown complete")
}
