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

	"github.com/amrwatch/surveillance/pkg/analysis"
	"github.com/amrwatch/surveillance/pkg/api/middleware"
	"github.com/amrwatch/surveillance/pkg/common/config"
	"github.com/amrwatch/surveillance/pkg/common/database"
	"github.com/amrwatch/surveillance/pkg/common/kafka"
	"github.com/amrwatch/surveillance/pkg/common/logger"
	"github.com/amrwatch/surveillance/pkg/common/models"
	"github.com/amrwatch/surveillance/pkg/ingest"
	"github.com/amrwatch/surveillance/pkg/observability/metrics"
	"github.com/amrwatch/surveillance/pkg/registry"
	"github.com/amrwatch/surveillance/pkg/report"
	"github.com/gorilla/mux"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to database")
	}
	defer database.ClosePostgres()

	isolates := registry.NewRepository(db)
	if err := isolates.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate isolates table")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seed, err := isolates.Snapshot(ctx)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load isolate snapshot")
	}
	live := registry.NewLiveSet(seed)
	metrics.SetIsolatesLoaded(live.Len())
	if counts, err := isolates.CountsByYear(ctx); err == nil {
		logger.Log.WithFields(map[string]interface{}{
			"isolates": live.Len(),
			"years":    len(counts),
		}).Info("Isolate snapshot loaded")
	} else {
		logger.Log.WithField("isolates", live.Len()).Info("Isolate snapshot loaded")
	}

	thresholds, err := analysis.LoadThresholds(cfg.ThresholdsPath)
	if err != nil {
		logger.Log.WithError(err).Warn("Falling back to built-in alert thresholds")
	}
	benchmarks, err := analysis.LoadBenchmarks(cfg.BenchmarksPath)
	if err != nil {
		logger.Log.WithError(err).Warn("Falling back to built-in benchmarks")
	}

	builder := report.NewBuilder(cfg.AntibioticPanel, analysis.NewAlertEngine(thresholds), benchmarks)
	cache := report.NewRateCache(database.GetRedis(), cfg.RateCacheTTL)
	defer database.CloseRedis()

	consumer := kafka.NewConsumer(cfg.IsolateTopic, cfg.KafkaGroupID)
	defer consumer.Close()

	go func() {
		handler := func(ctx context.Context, event models.Event) error {
			if event.Type != ingest.EventIsolateCleaned {
				return nil
			}
			iso, err := decodeIsolate(event.Data)
			if err != nil {
				logger.Log.WithError(err).WithField("event_id", event.ID).Error("Failed to decode isolate event")
				return nil
			}
			live.Append(iso)
			metrics.SetIsolatesLoaded(live.Len())
			cache.Invalidate(ctx)
			return nil
		}
		if err := consumer.Consume(ctx, handler); err != nil && ctx.Err() == nil {
			logger.Log.WithError(err).Error("Kafka consumer stopped")
		}
	}()

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging)
	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	report.NewHandler(live, builder, cache, cfg.AntibioticPanel).Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Analysis Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Analysis Service...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Analysis Service stopped")
}

func decodeIsolate(data map[string]interface{}) (models.Isolate, error) {
	var iso models.Isolate
	raw, ok := data["isolate"]
	if !ok {
		return iso, fmt.Errorf("event payload missing isolate")
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return iso, err
	}
	if err := json.Unmarshal(buf, &iso); err != nil {
		return iso, err
	}
	return iso, nil
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
