package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/GuissellB/Tarea-2-orquestador/internal/checkpoint"
	"github.com/GuissellB/Tarea-2-orquestador/internal/config"
	"github.com/GuissellB/Tarea-2-orquestador/internal/extract"
	"github.com/GuissellB/Tarea-2-orquestador/internal/flow"
	"github.com/GuissellB/Tarea-2-orquestador/internal/load"
	"github.com/GuissellB/Tarea-2-orquestador/internal/observability"
	"github.com/GuissellB/Tarea-2-orquestador/internal/transform"
	"github.com/GuissellB/Tarea-2-orquestador/internal/validation"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	extractor, err := extract.New(cfg.APIKey, cfg.WeatherAPIURL, cfg.WeatherAPITimeout)
	if err != nil {
		logger.Fatal("extractor", zap.Error(err))
	}
	loader, err := load.New(cfg.MongoURI, cfg.Database, cfg.Collection, cfg.MongoConnectTimeout)
	if err != nil {
		logger.Fatal("loader", zap.Error(err))
	}

	f := flow.New(logger, extractor, transform.New(), checkpoint.Sink{}, checkpoint.Source{}, loader,
		flow.Policies{
			Extract:  cfg.ExtractPolicy,
			SaveJSON: cfg.SaveJSONPolicy,
			ReadJSON: cfg.ReadJSONPolicy,
			Load:     cfg.LoadPolicy,
		})

	if cfg.MetricsAddr != "" {
		router := mux.NewRouter()
		router.Handle("/metrics", observability.MetricsHandler()).Methods("GET")
		router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}).Methods("GET")
		srv := &http.Server{
			Addr:         cfg.MetricsAddr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("metrics listener starting", zap.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics listener", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.FlowTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.FlowTimeout)
		defer cancel()
	}

	location := cfg.DefaultLocation
	if len(os.Args) > 1 {
		location = os.Args[1]
	}
	location, err = validation.ValidateLocation(location)
	if err != nil {
		logger.Fatal("location", zap.Error(err))
	}

	if _, err := f.Run(ctx, location, cfg.JSONPath); err != nil {
		_ = logger.Sync()
		os.Exit(1)
	}
}
