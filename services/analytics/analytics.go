// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package analytics provides the core analytics service for OrcaWatch.
//
// This package contains the main Service type that coordinates all
// components: HTTP routing, the Weaviate document store, the tidal
// source-fallback gateway with its InfluxDB cache, the background cache
// refresher, and observability infrastructure.
//
// # Usage
//
//	cfg := analytics.Config{
//	    Port:        12280,
//	    WeaviateURL: "http://weaviate:8080",
//	    InfluxURL:   "http://influxdb:8086",
//	    InfluxToken: os.Getenv("INFLUXDB_TOKEN"),
//	}
//	svc, err := analytics.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/SalishSeaAI/orcawatch/services/analytics/datatypes"
	"github.com/SalishSeaAI/orcawatch/services/analytics/environment"
	"github.com/SalishSeaAI/orcawatch/services/analytics/handlers"
	"github.com/SalishSeaAI/orcawatch/services/analytics/observability"
	"github.com/SalishSeaAI/orcawatch/services/analytics/routes"
	"github.com/SalishSeaAI/orcawatch/services/analytics/store"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the analytics service.
//
// # Description
//
// Service abstracts the lifecycle, enabling testing and alternative
// implementations. Only essential lifecycle methods are exposed.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and should
// only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	Router() *gin.Engine
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds analytics service configuration options.
//
// # Description
//
// Config centralizes all configuration. Values can be populated from
// environment variables, config files, or programmatically for testing.
//
// # Required Fields
//
//   - WeaviateURL: the document store is not optional; every data
//     endpoint reads from it.
//
// All other fields have sensible defaults.
type Config struct {
	// Port is the HTTP server port. Default: 12280
	Port int

	// WeaviateURL is the document store URL. Required.
	// Example: "http://weaviate:8080"
	WeaviateURL string

	// InfluxURL is the InfluxDB URL backing the tidal reading cache.
	// If empty, the cache is disabled and live-fetch failures degrade
	// straight to the default reading.
	InfluxURL string

	// InfluxToken authenticates against InfluxDB. Required when
	// InfluxURL is set.
	InfluxToken string

	// InfluxOrg is the InfluxDB organization. Default: "salishsea"
	InfluxOrg string

	// InfluxBucket holds the tidal readings. Default: "environmental-data"
	InfluxBucket string

	// NOAAStationID is the CO-OPS station for tidal data.
	// Default: environment.DefaultStationID (Friday Harbor, WA).
	NOAAStationID string

	// NOAABaseURL overrides the CO-OPS endpoint, mainly for tests.
	NOAABaseURL string

	// FetchTimeout bounds each live tidal fetch. Default: 10s
	FetchTimeout time.Duration

	// RefreshSchedule is the cron spec for background cache warming.
	// Default: environment.DefaultRefreshSchedule. "off" disables it.
	RefreshSchedule string

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// Default: "orcawatch-otel-collector:4317"
	OTelEndpoint string

	// EnableMetrics enables the Prometheus metrics endpoint.
	// Default: true
	EnableMetrics bool

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test"
	GinMode string
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// # Fields
//
//   - config: Service configuration
//   - router: Gin HTTP engine
//   - weaviateClient: Document store client
//   - store: Read surface over the document store
//   - influxClient: Tidal cache backend (may be nil)
//   - gateway: Tidal source-fallback gateway
//   - refresher: Background cache-warming scheduler (may be nil)
//   - tracerCleanup: Function to shut down the tracer on exit
//
// # Thread Safety
//
// Thread-safe after construction. All fields are read-only after New()
// returns.
type service struct {
	config         Config
	router         *gin.Engine
	weaviateClient *weaviate.Client
	store          store.Store
	influxClient   influxdb2.Client
	gateway        *environment.Gateway
	refresher      *environment.Refresher
	tracerCleanup  func(context.Context)
}

// =============================================================================
// Constructor
// =============================================================================

// New creates a new analytics Service with the given configuration.
//
// # Description
//
// New initializes all components:
//  1. Applies default configuration for missing values
//  2. Initializes OpenTelemetry tracing
//  3. Initializes Prometheus metrics
//  4. Creates the Weaviate client and ensures the schema
//  5. Creates the InfluxDB client if configured
//  6. Builds the tidal gateway and starts the cache refresher
//  7. Sets up HTTP routes
//
// # Outputs
//
//   - Service: Ready-to-run analytics service
//   - error: Non-nil if initialization fails
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	cleanup, err := s.initTracer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	s.tracerCleanup = cleanup

	if s.config.EnableMetrics {
		observability.InitMetrics()
		slog.Info("Initialized Prometheus metrics")
	}

	if err := s.initWeaviate(); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to initialize document store: %w", err)
	}

	s.initInflux()

	if err := s.initGateway(); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to initialize tidal gateway: %w", err)
	}

	if err := s.initRefresher(); err != nil {
		// The gateway still warms the cache on live fetches; a dead
		// scheduler only means colder fallbacks.
		slog.Warn("Cache refresher initialization failed", "error", err)
	}

	s.initRouter()

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the HTTP server and blocks until shutdown or error.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting analytics server", "port", s.config.Port)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12280
	}
	if cfg.InfluxOrg == "" {
		cfg.InfluxOrg = "salishsea"
	}
	if cfg.InfluxBucket == "" {
		cfg.InfluxBucket = "environmental-data"
	}
	if cfg.NOAAStationID == "" {
		cfg.NOAAStationID = environment.DefaultStationID
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "orcawatch-otel-collector:4317"
	}
	cfg.EnableMetrics = true

	return cfg
}

// initTracer initializes OpenTelemetry distributed tracing.
//
// Uses an insecure gRPC connection, appropriate for internal networks.
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("analytics-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initWeaviate initializes the document store client and read surface.
//
// Unlike the cache, the store is required: every data endpoint reads
// from it, so a missing or invalid URL is a construction error.
func (s *service) initWeaviate() error {
	weaviateURL := strings.Trim(s.config.WeaviateURL, "\"' ")

	if weaviateURL == "" {
		return fmt.Errorf("WeaviateURL is required")
	}

	parsedURL, err := url.Parse(weaviateURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return fmt.Errorf("invalid Weaviate URL: %s", weaviateURL)
	}

	clientConf := weaviate.Config{
		Host:   parsedURL.Host,
		Scheme: parsedURL.Scheme,
	}

	s.weaviateClient, err = weaviate.NewClient(clientConf)
	if err != nil {
		return fmt.Errorf("failed to create Weaviate client: %w", err)
	}

	datatypes.EnsureWeaviateSchema(s.weaviateClient)
	s.store = store.NewWeaviateStore(s.weaviateClient)
	slog.Info("Weaviate client initialized", "url", weaviateURL)

	return nil
}

// initInflux creates the InfluxDB client when configured. The cache is
// optional: without it the gateway degrades straight to the default
// reading on live failure.
func (s *service) initInflux() {
	if s.config.InfluxURL == "" {
		slog.Info("InfluxDB not configured, tidal cache disabled")
		return
	}
	if s.config.InfluxToken == "" {
		slog.Warn("InfluxURL set but InfluxToken missing, tidal cache disabled")
		return
	}

	s.influxClient = influxdb2.NewClient(s.config.InfluxURL, s.config.InfluxToken)
	slog.Info("InfluxDB client initialized",
		"url", s.config.InfluxURL,
		"org", s.config.InfluxOrg,
		"bucket", s.config.InfluxBucket)
}

// initGateway builds the tidal source-fallback gateway on top of
// whichever cache is available.
func (s *service) initGateway() error {
	var cache environment.ReadingCache = environment.NullCache{}
	if s.influxClient != nil {
		cache = &environment.InfluxCache{
			WriteAPI: s.influxClient.WriteAPIBlocking(s.config.InfluxOrg, s.config.InfluxBucket),
			QueryAPI: s.influxClient.QueryAPI(s.config.InfluxOrg),
			Bucket:   s.config.InfluxBucket,
			Station:  s.config.NOAAStationID,
		}
	}

	gateway, err := environment.NewGateway(environment.GatewayConfig{
		BaseURL:   s.config.NOAABaseURL,
		StationID: s.config.NOAAStationID,
		Timeout:   s.config.FetchTimeout,
		Cache:     cache,
	})
	if err != nil {
		return err
	}

	s.gateway = gateway
	return nil
}

// initRefresher starts the background cache-warming schedule. Pointless
// without a cache to warm, so it only runs when InfluxDB is configured.
func (s *service) initRefresher() error {
	if s.influxClient == nil || s.config.RefreshSchedule == "off" {
		return nil
	}

	s.refresher = environment.NewRefresher(s.gateway, s.config.RefreshSchedule)
	return s.refresher.Start(context.Background())
}

// healthChecks assembles the sub-checks for /api/system-health.
func (s *service) healthChecks() []handlers.HealthCheck {
	checks := []handlers.HealthCheck{
		{Name: "document_store", Ping: s.store.Ping},
		{Name: "tidal_source", Ping: s.gateway.Ping},
	}

	if s.influxClient != nil {
		checks = append(checks, handlers.HealthCheck{
			Name: "tidal_cache",
			Ping: func(ctx context.Context) error {
				health, err := s.influxClient.Health(ctx)
				if err != nil {
					return err
				}
				if health.Status != "pass" {
					return fmt.Errorf("influxdb health status %s", health.Status)
				}
				return nil
			},
		})
	}

	return checks
}

// initRouter sets up the Gin HTTP router with all routes.
func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}

	s.router = gin.Default()
	s.router.Use(otelgin.Middleware("analytics-service"))

	routes.SetupRoutes(s.router, s.store, s.gateway, s.healthChecks())
}

// cleanup releases all resources held by the service.
func (s *service) cleanup() {
	if s.refresher != nil {
		s.refresher.Stop()
	}

	if s.influxClient != nil {
		s.influxClient.Close()
	}

	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)
