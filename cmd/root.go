package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weatherkit/internal/config"
	"github.com/vzahanych/weatherkit/internal/service"
	"github.com/vzahanych/weatherkit/pkg/logger"
	"github.com/vzahanych/weatherkit/pkg/telemetry"
	"go.uber.org/zap"
)

var (
	configPath string
	log        *logger.Logger
	tele       *telemetry.Telemetry
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weatherkit",
		Short: "Apple WeatherKit client and proxy",
		Long: `Signs WeatherKit developer tokens and queries the WeatherKit REST API,
either directly from the command line or through an HTTP proxy server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return shutdownServices(context.Background())
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")

	cmd.AddCommand(
		newServerCmd(),
		newTokenCmd(),
		newAvailabilityCmd(),
		newForecastCmd(),
		newReportCmd(),
	)

	return cmd
}

func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			if log != nil {
				log.Info("Received shutdown signal", zap.String("signal", sig.String()))
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return rootCmd().ExecuteContext(ctx)
}

func initializeServices(ctx context.Context) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// 2. Set config
	// Having config in atomic allows changing it during runtime
	config.SetConfig(cfg)

	// 3. Initialize logger
	log, err = logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 4. Tracing is optional; fall back to a noop tracer
	tele, err = telemetry.New(ctx, cfg.Telemetry, cfg.Version)
	if err != nil {
		log.Warn("Failed to initialize telemetry", zap.Error(err))
		tele = nil
	}

	return nil
}

func shutdownServices(ctx context.Context) error {
	if err := tele.Shutdown(ctx); err != nil && log != nil {
		log.Warn("Failed to shutdown telemetry", zap.Error(err))
	}
	if log != nil {
		_ = log.Sync()
	}
	return nil
}

func newWeatherService() (*service.WeatherKitService, error) {
	return service.NewWeatherKitService(config.GetConfig(), log.Logger, tele)
}
