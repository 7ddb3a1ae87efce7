package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/skycast-bot/internal/bot"
	"github.com/Nazarious-ucu/skycast-bot/internal/config"
	metricsSvc "github.com/Nazarious-ucu/skycast-bot/internal/metrics"
	"github.com/Nazarious-ucu/skycast-bot/internal/services/commentary"
	"github.com/Nazarious-ucu/skycast-bot/internal/services/forecast"
	"github.com/Nazarious-ucu/skycast-bot/internal/services/llm"
	"github.com/Nazarious-ucu/skycast-bot/internal/services/location"
	loggerT "github.com/Nazarious-ucu/skycast-bot/internal/services/logger"
	"github.com/Nazarious-ucu/skycast-bot/internal/services/pipeline"
	fLogger "github.com/Nazarious-ucu/skycast-bot/pkg/logger"
)

// ServiceContainer holds initialized dependencies for the running bot.
type ServiceContainer struct {
	Bot        *bot.Bot
	Srv        *http.Server
	fileLogger *zap.Logger
}

// App ties together config, logger, and metrics for startup/shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metricsSvc.Metrics
}

func New(cfg config.Config, logger zerolog.Logger, met *metricsSvc.Metrics) *App {
	return &App{
		cfg: cfg,
		l:   logger,
		m:   met,
	}
}

// Start initializes services, launches the metrics server and the Telegram
// polling loop, and waits for shutdown.
func (a *App) Start(ctx context.Context) error {
	srvContainer, err := a.init()
	if err != nil {
		return err
	}

	a.l.Info().
		Str("metrics_addr", a.cfg.Server.Addr).
		Msg("starting skycast bot")

	go func() {
		if srvErr := srvContainer.Srv.ListenAndServe(); srvErr != nil &&
			!errors.Is(srvErr, http.ErrServerClosed) {
			a.l.Error().Err(srvErr).Msg("metrics server failed")
		}
	}()

	botErr := make(chan error, 1)
	go func() {
		botErr <- srvContainer.Bot.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		a.l.Info().Msg("shutdown signal received, stopping bot")
	case err := <-botErr:
		if err != nil {
			a.l.Error().Err(err).Msg("telegram polling gave up")
		}
	}

	if err := a.Shutdown(srvContainer); err != nil {
		a.l.Error().Err(err).Msg("failed to shutdown application")
		return err
	}
	a.l.Info().Msg("application shutdown successfully")
	return nil
}

// Shutdown stops the metrics server and syncs the file logger.
func (a *App) Shutdown(srvContainer ServiceContainer) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(a.cfg.Server.ReadTimeout)*time.Second)
	defer cancel()

	defer func(logger *zap.Logger) {
		if err := logger.Sync(); err != nil {
			a.l.Error().Err(err).Msg("failed to sync file logger")
		}
	}(srvContainer.fileLogger)

	if err := srvContainer.Srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.l.Info().Msg("shutdown complete")
	return nil
}

// init wires clients, services, pipeline, bot and the metrics HTTP server.
func (a *App) init() (ServiceContainer, error) {
	fileLogger, err := fLogger.NewFileLogger(a.cfg.LogsPath)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to create file logger, using no-op")
		fileLogger = zap.NewNop()
	}

	// All outbound HTTP traffic goes through the logging round tripper.
	roundTripper := loggerT.NewRoundTripper(fileLogger)
	httpLogClient := &http.Client{Transport: roundTripper}

	llmClient := llm.NewClient(a.cfg.LLM.Token, a.cfg.LLM.Model, a.cfg.LLM.URL, httpLogClient, a.l)
	normalizer := location.NewNormalizer(llmClient, a.l)

	breakerCfg := forecast.BreakerConfig{
		TimeInterval: time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
		TimeTimeOut:  time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
		RepeatNumber: a.cfg.Breaker.RepeatNumber,
	}
	forecastClient := forecast.NewBreakerClient("VisualCrossing", breakerCfg,
		forecast.NewVisualCrossingClient(a.cfg.Weather.APIKey, a.cfg.Weather.URL, httpLogClient, a.l),
	)

	generator := commentary.NewGenerator(
		llmClient,
		a.cfg.Report.Language,
		a.cfg.Report.CommentaryMaxLen,
		a.l,
	)

	pipe := pipeline.NewService(
		normalizer,
		forecastClient,
		generator,
		a.m,
		time.Duration(a.cfg.StageTimeout)*time.Second,
		a.l,
	)

	api, err := tgbotapi.NewBotAPI(a.cfg.Bot.Token)
	if err != nil {
		return ServiceContainer{}, err
	}

	tgBot := bot.New(api, pipe, a.m, bot.Config{
		PollTimeout:    time.Duration(a.cfg.Bot.PollTimeout) * time.Second,
		RequestTimeout: time.Duration(a.cfg.Bot.RequestTimeout) * time.Second,
		MaxReconnects:  a.cfg.Bot.MaxReconnects,
		ReconnectBase:  time.Duration(a.cfg.Bot.ReconnectBackoff) * time.Second,
	}, a.l)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(a.m.HTTPMiddleware())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	httpServer := &http.Server{
		Addr:        a.cfg.Server.Addr,
		Handler:     router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	return ServiceContainer{
		Bot:        tgBot,
		Srv:        httpServer,
		fileLogger: fileLogger,
	}, nil
}
