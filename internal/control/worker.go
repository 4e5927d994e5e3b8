package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vietddude/blockworker/internal/blockchain"
	"github.com/vietddude/blockworker/internal/core/config"
	"github.com/vietddude/blockworker/internal/health"
	"github.com/vietddude/blockworker/internal/infra/metrics"
	redisclient "github.com/vietddude/blockworker/internal/infra/redis"
	"github.com/vietddude/blockworker/internal/infra/rpc/provider"
	"github.com/vietddude/blockworker/internal/infra/rpc/resilience"
)

// Config holds the application configuration.
type Config struct {
	Port       int
	Blockchain config.BlockchainConfig
	Redis      redisclient.Config
}

// Worker owns the provider, the chain service and the health endpoints.
type Worker struct {
	cfg          Config
	provider     *provider.JSONRPCProvider
	service      *blockchain.Service
	registry     *prometheus.Registry
	latestBlock  *metrics.LatestBlock
	healthMon    *health.Monitor
	healthServer *health.Server
	redisClient  *redisclient.Client
	log          *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker dials the node and wires all components. Nothing runs until Start.
func NewWorker(ctx context.Context, cfg Config) (*Worker, error) {
	log := slog.Default().With("component", "worker")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p, err := provider.Dial(ctx, cfg.Blockchain.Provider())
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	invoker := resilience.NewInvoker(
		cfg.Blockchain.Retry(),
		resilience.WithMetrics(metrics.NewRPCCallDuration(registry)),
		resilience.WithLogger(slog.Default().With("component", "resilience")),
	)

	opts := []blockchain.Option{}
	var redisClient *redisclient.Client
	if cfg.Redis.URL != "" {
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			log.Warn("Failed to connect to Redis, token cache disabled", "error", err)
		} else {
			opts = append(opts, blockchain.WithTokenCache(redisclient.NewTokenCache(redisClient, cfg.Redis.TokenTTL)))
		}
	}

	service := blockchain.New(p, invoker, opts...)
	healthMon := health.NewMonitor(service)

	return &Worker{
		cfg:          cfg,
		provider:     p,
		service:      service,
		registry:     registry,
		latestBlock:  metrics.NewLatestBlock(registry),
		healthMon:    healthMon,
		healthServer: health.NewServer(healthMon, cfg.Port, registry),
		redisClient:  redisClient,
		log:          log,
	}, nil
}

// Service returns the chain client.
func (w *Worker) Service() *blockchain.Service {
	return w.service
}

// Start serves health and metrics, follows new blocks and loads the bridge addresses.
func (w *Worker) Start(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)

	// Start Health Server
	go func() {
		if err := w.healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			w.log.Error("Health server failed", "error", err)
		}
	}()

	w.service.On(provider.EventBlock, func(payload any) {
		w.healthMon.OnBlock(payload)
		if number, ok := payload.(uint64); ok {
			w.latestBlock.Set(number)
			w.log.Debug("New block", "number", number)
		}
	})

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.service.LoadBridgeAddresses(ctx); err != nil {
			w.log.Warn("Bridge addresses not loaded", "error", err)
		}
	}()

	return nil
}

// Stop stops background work and closes all connections.
func (w *Worker) Stop(ctx context.Context) error {
	w.log.Info("Stopping worker...")

	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()

	err := w.healthServer.Stop(ctx)
	if cerr := w.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Close releases the provider and Redis connections. Use it instead of Stop
// when the worker was never started.
func (w *Worker) Close() error {
	if w.redisClient != nil {
		if err := w.redisClient.Close(); err != nil {
			w.log.Warn("Failed to close Redis", "error", err)
		}
	}
	return w.provider.Close()
}
