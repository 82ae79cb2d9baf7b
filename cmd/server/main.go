package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"vibework/backend/internal/calendar"
	"vibework/backend/internal/config"
	"vibework/backend/internal/db"
	"vibework/backend/internal/handler"
	"vibework/backend/internal/logging"
	"vibework/backend/internal/media"
	"vibework/backend/internal/notify"
	"vibework/backend/internal/repository"
	"vibework/backend/internal/router"
	"vibework/backend/internal/service"
	"vibework/backend/internal/session"
	"vibework/backend/internal/settings"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer database.Close()

	if err := db.RunMigrations(database, db.MigrationsFrom(cfg.MigrationsDir)); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	prefsStore, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.SettingsPath).Msg("settings unreadable, using defaults")
	}
	prefs := prefsStore.Get()
	catalog, err := settings.Catalog(prefs)
	if err != nil {
		log.Fatal().Err(err).Msg("build preset catalog")
	}

	scheduler := notify.NewLogScheduler(prefsStore.NotificationsEnabled)
	defer scheduler.Close()

	audio := media.NewPlayer("audio", media.WithVolume(service.EffectiveVolume(prefs)))
	engine := session.New(session.Options{
		Video:    media.NewPlayer("video"),
		Audio:    audio,
		Notifier: scheduler,
	})
	defer engine.Close()

	store := calendar.NewStore(repository.NewEventRepository(database))
	calendarService := service.NewCalendarService(store, cfg.HourHeight, nil)
	calendarService.Load(context.Background(), cfg.SeedSamples)

	authService := service.NewAuthService(cfg.PasscodeHash, cfg.JWTSecret, cfg.TokenTTL)
	sessionService := service.NewSessionService(engine, catalog)
	settingsService := service.NewSettingsService(prefsStore, sessionService, audio)

	httpHandler := router.New(authService, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Session:  handler.NewSessionHandler(sessionService),
		Calendar: handler.NewCalendarHandler(calendarService),
		Settings: handler.NewSettingsHandler(settingsService),
	}, cfg.CORSOrigins)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpHandler,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Bool("auth", cfg.AuthEnabled()).Msg("backend listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("run server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down")
	if current := engine.Snapshot(); current.Active() {
		log.Warn().Str("sessionId", current.SessionID).Str("preset", current.Preset.Tag).Msg("stopping running session")
	}

	// Stream handlers exit once the engine closes their subscriptions.
	engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
}
