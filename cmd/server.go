package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weatherkit/internal/config"
	"github.com/vzahanych/weatherkit/internal/server"
	"go.uber.org/zap"
)

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the WeatherKit proxy server",
		Long: `Start the HTTP server that signs developer tokens and forwards availability
and weather queries to WeatherKit, with health, metrics and tracing.`,
		RunE: runServer,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting WeatherKit proxy",
		zap.String("config_path", configPath),
		zap.String("environment", cfg.Environment),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Bool("breaker_enabled", cfg.Breaker.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	svc, err := newWeatherService()
	if err != nil {
		log.Error("Failed to create WeatherKit service", zap.Error(err))
		return err
	}

	ready := func() error {
		_, err := svc.Token()
		return err
	}
	srv := server.NewServer(cfg.Server, svc, ready, log.Logger, tele)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
		return err
	case <-cmd.Context().Done():
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
