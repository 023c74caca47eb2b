package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gabrieldfa/tia/internal/api/v1/handlers"
	"github.com/gabrieldfa/tia/internal/api/v1/middleware"
	"github.com/gabrieldfa/tia/internal/config"
	"github.com/gabrieldfa/tia/internal/services"
	"github.com/gabrieldfa/tia/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger.Setup(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svcs, err := services.InitializeServices(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer svcs.Close()

	srv := &http.Server{
		Addr:              config.GetListenAddr(),
		Handler:           setupRouter(svcs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func setupRouter(svcs *services.Services) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)
	handlers.RegisterRoutes(r,
		svcs.GetAssistantService(),
		svcs.GetSessionService(),
		svcs.GetConnectionManager(),
	)
	return r
}
