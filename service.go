package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"ewintr.nl/videotime/fetch"
	"ewintr.nl/videotime/handler"
	"ewintr.nl/videotime/metrics"
	"ewintr.nl/videotime/model"
	"ewintr.nl/videotime/process"
	"ewintr.nl/videotime/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/exp/slog"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

func main() {
	once := flag.Bool("once", false, "run the pipeline once and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var level slog.Level
	if err := level.UnmarshalText([]byte(getParam("LOG_LEVEL", "info"))); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// storage
	db, err := openDB(getParam("STORAGE_DRIVER", "sqlite"))
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()
	sqlRepo, err := storage.NewSQL(db)
	if err != nil {
		logger.Error("unable to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	repo := storage.NewCached(sqlRepo, getParam("REDIS_URL", ""), logger)

	// metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// pipeline
	cfg, err := pipelineConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	ytClient, err := youtube.NewService(ctx, option.WithAPIKey(getParam("YOUTUBE_API_KEY", "")))
	if err != nil {
		logger.Error("unable to create youtube service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	yt := fetch.NewYoutube(ytClient)
	pipeline := process.NewPipeline(cfg,
		fetch.NewCatalog(yt, logger),
		fetch.NewDetails(yt, cfg.Workers, logger),
		repo, m, logger,
	)

	openaiKey := getParam("OPENAI_API_KEY", "")
	if openaiKey != "" {
		pipeline.WithCaptioner(process.NewOpenAINarrator(openai.NewClient(openaiKey)))
	}
	if host := getParam("WEAVIATE_HOST", ""); host != "" {
		index, err := storage.NewWeaviate(host, getParam("WEAVIATE_API_KEY", ""), openaiKey)
		if err != nil {
			logger.Error("unable to create weaviate client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		pipeline.WithTitleIndex(index)
	}

	if *once {
		if _, err := pipeline.Run(ctx); err != nil {
			os.Exit(1)
		}
		return
	}

	var feedReader fetch.FeedReader
	if endpoint := getParam("MINIFLUX_ENDPOINT", ""); endpoint != "" {
		feedReader = fetch.NewMiniflux(fetch.MinifluxInfo{
			Endpoint: endpoint,
			ApiKey:   getParam("MINIFLUX_APIKEY", ""),
		})
	}
	go process.NewScheduler(cfg, pipeline, feedReader, logger).Run(ctx)
	logger.Info("fetch service started")

	// api
	port, err := strconv.Atoi(getParam("API_PORT", "8080"))
	if err != nil {
		logger.Error("invalid port", slog.String("error", err.Error()))
		os.Exit(1)
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler.NewServer(repo, m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), logger),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()
	logger.Info("http server started", slog.Int("port", port))

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)

	logger.Info("service stopped")
}

func openDB(driver string) (*sql.DB, error) {
	switch strings.ToLower(driver) {
	case "sqlite":
		return storage.OpenSQLite(getParam("DATABASE", "videotime.db"))
	case "postgres":
		return storage.OpenPostgres(storage.PostgresInfo{
			Host:     getParam("POSTGRES_HOST", "localhost"),
			Port:     getParam("POSTGRES_PORT", "5432"),
			User:     getParam("POSTGRES_USER", "videotime"),
			Password: getParam("POSTGRES_PASSWORD", "videotime"),
			Database: getParam("POSTGRES_DB", "videotime"),
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func pipelineConfig() (process.Config, error) {
	channelID := getParam("CHANNEL_ID", "")
	if channelID == "" {
		return process.Config{}, fmt.Errorf("CHANNEL_ID is required")
	}
	interval, err := time.ParseDuration(getParam("FETCH_INTERVAL", "24h"))
	if err != nil {
		return process.Config{}, fmt.Errorf("unable to parse fetch interval: %w", err)
	}
	if interval <= 0 {
		return process.Config{}, fmt.Errorf("fetch interval must be positive, got %s", interval)
	}
	feedInterval, err := time.ParseDuration(getParam("FEED_INTERVAL", "5m"))
	if err != nil {
		return process.Config{}, fmt.Errorf("unable to parse feed interval: %w", err)
	}
	if feedInterval < 0 {
		return process.Config{}, fmt.Errorf("feed interval must not be negative, got %s", feedInterval)
	}
	workers, err := strconv.Atoi(getParam("FETCH_WORKERS", "4"))
	if err != nil || workers < 1 {
		return process.Config{}, fmt.Errorf("invalid number of fetch workers %q", getParam("FETCH_WORKERS", "4"))
	}

	return process.Config{
		ChannelID:    model.YoutubeChannelID(channelID),
		Interval:     interval,
		FeedInterval: feedInterval,
		Workers:      workers,
	}, nil
}

func getParam(param, def string) string {
	if val, ok := os.LookupEnv(param); ok {
		return val
	}
	return def
}
