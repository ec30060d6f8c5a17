// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mortgage-workers/internal/common/cache"
	"mortgage-workers/internal/common/camunda"
	"mortgage-workers/internal/common/config"
	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/common/observability"
	"mortgage-workers/internal/pipeline"
	"mortgage-workers/internal/valuation"
	"mortgage-workers/pkg/registry"

	pa "mortgage-workers/internal/workers/process-application"
	pv "mortgage-workers/internal/workers/property-valuation"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientFromConfig(cfg.Camunda)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init Redis (only needed when the valuation cache is on) ---
	var redisClient *cache.RedisClient
	if cfg.Valuation.CacheEnabled {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = cache.NewRedis(cfg.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Valuation client selection: mock | live, optionally cached ---
	valuationClient := buildValuationClient(cfg, redisClient, log, zapLog)

	p := pipeline.New(cfg, valuationClient, obs, log)

	// --- Register workers ---
	catalog := registry.Builtin()
	var activeWorkers []*camunda.CamundaWorker

	if config.IsWorkerEnabled(cfg, pa.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, pa.TaskType)
		handler := pa.NewHandler(
			&pa.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			p, log,
		)
		if w := startWorker(zeebeClient, catalog, pa.TaskType, wcfg, handler, log, zapLog); w != nil {
			activeWorkers = append(activeWorkers, w)
		}
	}

	if config.IsWorkerEnabled(cfg, pv.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, pv.TaskType)
		handler := pv.NewHandler(
			&pv.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			valuationClient,
			valuation.NewAssessor(cfg.Decision.MaxLoanToValueRatio, cfg.Decision.PMIThreshold),
			log,
		)
		if w := startWorker(zeebeClient, catalog, pv.TaskType, wcfg, handler, log, zapLog); w != nil {
			activeWorkers = append(activeWorkers, w)
		}
	}

	// --- Health/metrics endpoint ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "not ready", "error": err.Error()})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	for _, w := range activeWorkers {
		w.Stop(stopCtx)
	}
	stopCancel()
	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	zapLog.Info("Worker manager stopped")
}

func buildValuationClient(cfg *config.Config, redisClient *cache.RedisClient, log logger.Logger, zapLog *zap.Logger) valuation.Client {
	var client valuation.Client
	switch cfg.Valuation.Mode {
	case "live":
		client = valuation.NewLiveClient(cfg.Valuation, log)
		zapLog.Info("Valuation client in live mode",
			zap.String("endpoint", cfg.Valuation.BaseURL),
			zap.Int("agents", len(cfg.Valuation.AgentIDs)),
		)
	default:
		client = valuation.NewMockClient()
		zapLog.Info("Valuation client in mock mode")
	}

	if cfg.Valuation.CacheEnabled && redisClient != nil {
		ttl := time.Duration(cfg.Valuation.CacheTTL) * time.Second
		client = valuation.NewCachedClient(client, redisClient, ttl, log)
		zapLog.Info("Valuation cache enabled", zap.Duration("ttl", ttl))
	}
	return client
}

func startWorker(client zbc.Client, catalog *registry.ActivityRegistry, taskType string, wcfg config.WorkerConfig, handler camunda.JobHandler, log logger.Logger, zapLog *zap.Logger) *camunda.CamundaWorker {
	if !wcfg.Enabled {
		zapLog.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}

	activity, err := catalog.Find(taskType)
	if err != nil {
		zapLog.Fatal("task type missing from activity catalog", zap.String("taskType", taskType), zap.Error(err))
	}

	w := camunda.NewWorker(
		client,
		taskType,
		wcfg.MaxJobsActive,
		time.Duration(wcfg.Timeout)*time.Millisecond,
		handler,
		log,
	)
	w.Start()

	zapLog.Info("worker started",
		zap.String("taskType", taskType),
		zap.String("activity", activity.DisplayName),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
	return w
}
