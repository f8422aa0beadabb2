// README: Entry point; loads config, wires collaborators, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sky/internal/ai"
	"sky/internal/config"
	httptransport "sky/internal/http"
	"sky/internal/infra"
	"sky/internal/maps"
	"sky/internal/modules/calendar"
	"sky/internal/modules/conversation"
	"sky/internal/nlp"
	"sky/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := infra.NewLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	tz, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatalw("invalid timezone", "timezone", cfg.Timezone, "error", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatalw("database init failed", "error", err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	chatProvider, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
	if err != nil {
		logger.Fatalw("gemini init failed", "error", err)
	}
	defer chatProvider.Close()

	placesSvc, err := maps.NewPlacesService(cfg.Maps.APIKey)
	if err != nil {
		logger.Fatalw("maps init failed", "error", err)
	}

	locator := maps.NewLocator(
		maps.NewRedisFixCache(redisClient, 5*time.Minute),
		maps.NewGeoIPService(),
	)

	calendarSvc, err := calendar.NewService(cfg.Calendar.CredentialsPath, cfg.Calendar.TokenPath, tz)
	if err != nil {
		logger.Fatalw("calendar init failed", "error", err)
	}

	conversationSvc := conversation.NewService(conversation.NewStore(dbPool))

	eventParser := nlp.NewEventParser(nlp.NewWhenExtractor(tz), nil)

	assistant := service.NewAssistant(
		chatProvider,
		placesSvc,
		locator,
		calendarSvc,
		conversationSvc,
		eventParser,
		cfg.AI.HistoryWindow,
		logger,
	)

	handler := httptransport.NewRouter(assistant, calendarSvc, conversationSvc, logger)
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Infow("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("server error", "error", err)
	}
}
