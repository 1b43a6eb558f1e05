package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	webview "github.com/webview/webview_go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kartoza/water-potability/internal/config"
	"github.com/kartoza/water-potability/internal/llm"
	"github.com/kartoza/water-potability/internal/logging"
	"github.com/kartoza/water-potability/internal/server"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath  string
		port        int
		headless    bool
		showVersion bool
	)

	cmd := &cobra.Command{
		Use:          "potability",
		Short:        "AI water quality predictor",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "Water Potability Predictor v%s\n", version)
				return nil
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg.Version = version
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("headless") {
				cfg.Headless = headless
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "potability.yaml", "Path to YAML config file")
	cmd.Flags().IntVar(&port, "port", 8080, "HTTP server port")
	cmd.Flags().BoolVar(&headless, "headless", false, "Run in headless mode (no GUI window)")
	cmd.Flags().BoolVar(&showVersion, "version", false, "Show version and exit")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	timeout, err := cfg.GeminiTimeout()
	if err != nil {
		return err
	}
	gen, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		BaseURL:         cfg.Gemini.BaseURL,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		Temperature:     cfg.Gemini.Temperature,
		Timeout:         timeout,
	})
	if err != nil {
		return err
	}

	// Find an available port (try up to 10 ports starting from the requested one)
	availablePort, err := findAvailablePort(cfg.Port, 10)
	if err != nil {
		return fmt.Errorf("failed to find available port: %w", err)
	}
	if availablePort != cfg.Port {
		logger.Info("port in use, using next free port",
			zap.Int("requested", cfg.Port), zap.Int("port", availablePort))
	}
	cfg.Port = availablePort

	logger.Info("starting",
		zap.String("version", cfg.Version),
		zap.Int("port", cfg.Port),
		zap.String("model", cfg.Gemini.Model))

	srv, err := server.New(*cfg, gen, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)

	serverURL := fmt.Sprintf("http://localhost:%d", cfg.Port)
	waitForServer(logger, serverURL, 10*time.Second)

	if cfg.Headless {
		// Headless mode: wait for signal or server error
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down")
			return srv.Stop()
		})
	} else {
		openWindow(gctx, logger, serverURL)
		logger.Info("window closed, shutting down server")
		if err := srv.Stop(); err != nil {
			logger.Warn("error during shutdown", zap.Error(err))
		}
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openWindow shows the form in an embedded WebView and blocks until the
// window is closed or ctx is cancelled.
func openWindow(ctx context.Context, logger *zap.Logger, serverURL string) {
	logger.Info("opening application window")
	w := webview.New(false)
	defer w.Destroy()

	w.SetTitle("AI Water Quality Predictor")
	w.SetSize(900, 1000, webview.HintNone)
	w.Navigate(serverURL)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			w.Dispatch(w.Terminate)
		case <-done:
		}
	}()

	// Run blocks until the window is closed
	w.Run()
}

// waitForServer polls until the server is accepting connections
func waitForServer(logger *zap.Logger, url string, timeout time.Duration) {
	addr := url[len("http://"):]
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	logger.Warn("server may not be ready", zap.String("url", url))
}

// findAvailablePort finds an available port, starting from the given port.
// If the port is in use, it tries subsequent ports up to maxAttempts times.
func findAvailablePort(startPort int, maxAttempts int) (int, error) {
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		addr := fmt.Sprintf(":%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port found after %d attempts starting from %d", maxAttempts, startPort)
}
