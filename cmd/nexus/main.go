package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nexus-form/nexus/internal/config"
	"github.com/nexus-form/nexus/internal/httpapi"
	"github.com/nexus-form/nexus/internal/logging"
	"github.com/nexus-form/nexus/internal/match"
	"github.com/nexus-form/nexus/internal/observability"
	"github.com/nexus-form/nexus/internal/store"
)

var (
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "nexus",
	Short:         "Paired roommate-compatibility questionnaire",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.LogFormat)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the questionnaire over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var statusCmd = &cobra.Command{
	Use:   "status [match_id]",
	Short: "Print whether a match has both answers",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the whole response table to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults to $NEXUS_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format: csv or json")

	rootCmd.AddCommand(serveCmd, statusCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openService opens the configured store and wraps it in a match.Service.
func openService(ctx context.Context, metrics *observability.Metrics) (*match.Service, store.Store, error) {
	st, mode, err := store.New(ctx, store.Config{
		Mode:        store.Mode(cfg.StoreMode),
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
		Sheets: store.SheetsConfig{
			SpreadsheetID:   cfg.SpreadsheetID,
			Worksheet:       cfg.Worksheet,
			CredentialsFile: cfg.CredentialsFile,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("store init failed: %w", err)
	}
	logger.Info("store ready", zap.String("mode", string(mode)))
	if mode == store.ModeMemory {
		logger.Warn("responses are kept in memory and lost on restart")
	}
	return match.NewService(st, metrics, logger, match.WithTimeout(cfg.StoreTimeout)), st, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	service, st, err := openService(ctx, metrics)
	if err != nil {
		return err
	}
	defer st.Close()

	api := httpapi.New(cfg, service, metrics, logger)
	api.StartJanitor(ctx, time.Minute)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
			_ = httpServer.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	service, st, err := openService(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer st.Close()

	status, err := service.Status(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), status)
}

func runExport(cmd *cobra.Command, _ []string) error {
	service, st, err := openService(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer st.Close()

	table, err := service.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	switch exportFormat {
	case "csv":
		return writeCSV(cmd.OutOrStdout(), table)
	case "json":
		return writeJSON(cmd.OutOrStdout(), exportRows(table))
	default:
		return fmt.Errorf("unknown export format %q (expected csv|json)", exportFormat)
	}
}
