// Package main Study Assistant API
//
// @title           Study Assistant API
// @version         1.0
// @description     API для конспектов, карточек и премиум-подписки студентов

// @contact.name   API Support
// @contact.email  support@study-assistant.dev

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/magabrotheeeer/study-assistant/docs"
	"github.com/magabrotheeeer/study-assistant/internal/app/studyassistant"
	"github.com/magabrotheeeer/study-assistant/internal/config"
	"github.com/magabrotheeeer/study-assistant/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.SetupLogger(cfg.Env, os.Stdout)

	logger.Info("starting study-assistant", slog.String("env", cfg.Env))
	logger.Debug("loaded configuration", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := studyassistant.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("study-assistant stopped gracefully")
}
