package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amrwatch/surveillance/pkg/analysis"
	"github.com/amrwatch/surveillance/pkg/api/middleware"
	"github.com/amrwatch/surveillance/pkg/cleaning"
	"github.com/amrwatch/surveillance/pkg/common/config"
	"github.com/amrwatch/surveillance/pkg/common/database"
	"github.com/amrwatch/surveillance/pkg/common/kafka"
	"github.com/amrwatch/surveillance/pkg/common/logger"
	"github.com/amrwatch/surveillance/pkg/ingest"
	"github.com/amrwatch/surveillance/pkg/registry"
	"github.com/amrwatch/surveillance/pkg/vocab"
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

	submissions := ingest.NewRepository(db)
	if err := submissions.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate submissions table")
	}
	isolates := registry.NewRepository(db)
	if err := isolates.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate isolates table")
	}

	tables, err := vocab.Load(cfg.VocabPath)
	if err != nil {
		logger.Log.WithError(err).Warn("Falling back to built-in vocabularies")
	}
	taxonomy, err := analysis.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		logger.Log.WithError(err).Warn("Falling back to built-in class taxonomy")
	}
	transformer := cleaning.NewTransformer(tables, analysis.NewClassifier(taxonomy))

	producer := kafka.NewProducer(cfg.IsolateTopic)
	defer producer.Close()
	dlq := kafka.NewProducer(cfg.IsolateDLQTopic)
	defer dlq.Close()

	validator := ingest.NewValidator(cfg.AllowedSources)
	service := ingest.NewService(validator, transformer, submissions, isolates, producer, dlq, cfg.SubmissionTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := service.Cleanup(ctx); err != nil {
					logger.Log.WithError(err).Error("Submission cleanup failed")
				}
			}
		}
	}()

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging)
	router.HandleFunc("/health", healthCheck).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	ingest.NewHTTPHandler(service, cfg.MaxRequestBody).Register(api)

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
		}).Info("Ingestion Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Ingestion Service...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Ingestion Service stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
