package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/boxcat/boxcat/internal/server"
	"github.com/boxcat/boxcat/pkg/catalog"
	"github.com/boxcat/boxcat/pkg/errors"
	"github.com/boxcat/boxcat/pkg/logging"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the box catalog HTTP server",
	Long: `Start the HTTP server for the box catalog.

The catalog API is mounted at the configured path prefix (default /boxes):

  GET /boxes          list every box with its versions
  GET /boxes/<name>   full metadata for one box

Every other path serves static artifact files from the box directory.
The catalog rebuilds automatically when any description file changes.`,
	Example: `  # Serve /var/lib/boxes on the default port 8000
  boxcat serve --dir /var/lib/boxes

  # Custom name prefix and mount point
  boxcat serve --dir ./boxes --name-prefix acme --mount /catalog

  # Environment variables override nothing set by flags
  BOXCAT_DIR=./boxes BOXCAT_PORT=9000 boxcat serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("dir", "", "Directory of *.metadata.json description files (required)")
	serveCmd.Flags().String("host", "", "Bind address")
	serveCmd.Flags().IntP("port", "p", 8000, "Server port")
	serveCmd.Flags().String("name-prefix", "bento", "Prefix prepended to every logical box name")
	serveCmd.Flags().String("mount", "/boxes", "Path prefix the catalog API is mounted at")
	serveCmd.Flags().Duration("cache-ttl", 5*time.Minute, "Rendered response cache TTL")
	serveCmd.Flags().Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	serveCmd.Flags().Duration("write-timeout", 10*time.Second, "HTTP write timeout")
	serveCmd.Flags().Duration("idle-timeout", 120*time.Second, "HTTP idle timeout")

	// Flags are also reachable as BOXCAT_DIR, BOXCAT_PORT, and so on;
	// an explicitly set flag wins over the environment.
	for flagName, key := range map[string]string{
		"dir":         "dir",
		"host":        "host",
		"port":        "port",
		"name-prefix": "name_prefix",
		"mount":       "mount",
	} {
		_ = viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName))
	}
}

// runServe starts the catalog server.
func runServe(cmd *cobra.Command, _ []string) error {
	dir := viper.GetString("dir")
	if dir == "" {
		return errors.New("box directory is required (--dir or BOXCAT_DIR)")
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("box directory %s is not a directory", dir)
	}

	cacheTTL, _ := cmd.Flags().GetDuration("cache-ttl")
	readTimeout, _ := cmd.Flags().GetDuration("read-timeout")
	writeTimeout, _ := cmd.Flags().GetDuration("write-timeout")
	idleTimeout, _ := cmd.Flags().GetDuration("idle-timeout")

	cfg := server.DefaultConfig()
	cfg.BoxDir = dir
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.NamePrefix = viper.GetString("name_prefix")
	cfg.PathPrefix = viper.GetString("mount")
	cfg.CacheTTL = cacheTTL
	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.IdleTimeout = idleTimeout

	logger := logging.Default()
	logger.Info().
		Str("dir", cfg.BoxDir).
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("name_prefix", cfg.NamePrefix).
		Str("mount", cfg.PathPrefix).
		Msg("Starting box catalog server")

	store := catalog.New(cfg.BoxDir, cfg.NamePrefix)

	srv, err := server.New(store, logger, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return startServerWithGracefulShutdown(httpServer, logger)
}

// startServerWithGracefulShutdown runs the server until an interrupt or
// termination signal arrives, then drains in-flight requests.
func startServerWithGracefulShutdown(httpServer *http.Server, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().
			Str("addr", httpServer.Addr).
			Msg("Server starting")

		fmt.Printf("Serving box catalog on %s\n", httpServer.Addr)
		fmt.Println("Press Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		logger.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}
