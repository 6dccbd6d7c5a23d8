package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stats-dashboard-service/internal/app"
	"stats-dashboard-service/internal/config"
)

func main() {
	cfg := config.Load()

	log, err := newLogger(cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Conexiones y servicios
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("error iniciando la aplicación", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Stats Dashboard Service ejecutándose", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("error del servidor http", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("apagando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("error cerrando servidor http", zap.Error(err))
	}
	if err := a.Close(shutdownCtx); err != nil {
		log.Error("error cerrando conexiones", zap.Error(err))
	}
}

// LOG_FORMAT=console da salida legible para desarrollo; cualquier otro valor, JSON.
func newLogger(format string) (*zap.Logger, error) {
	if format == "console" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
