package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/whaleprotocol/watchdesk/internal/fetch"
	"github.com/whaleprotocol/watchdesk/internal/i18n"
	"github.com/whaleprotocol/watchdesk/internal/logging"
	"github.com/whaleprotocol/watchdesk/internal/metrics"
	"github.com/whaleprotocol/watchdesk/internal/poll"
	"github.com/whaleprotocol/watchdesk/internal/snapshot"
	"github.com/whaleprotocol/watchdesk/internal/state"
	"github.com/whaleprotocol/watchdesk/internal/web"
)

var (
	serveAddr    string
	dataDir      string
	reportsURL   string
	marketURL    string
	pollInterval time.Duration
	cooldown     time.Duration
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the report desk HTTP server",
	Long: `Serve renders the community fraud-reporting page and keeps its data fresh:
- Polls the published report feed and the top-20 market table
- Validates report submissions and composes provider email links
- Persists the visitor's language choice and send cooldown

Example:
  watchdesk serve
  watchdesk serve --addr :9090 --data-dir /var/lib/watchdesk
  watchdesk serve --poll-interval 1m`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&dataDir, "data-dir", "", "directory for preferences and snapshots")
	serveCmd.Flags().StringVar(&reportsURL, "reports-url", "", "published reports JSON URL")
	serveCmd.Flags().StringVar(&marketURL, "market-url", "", "top-20 market JSON URL")
	serveCmd.Flags().DurationVar(&pollInterval, "poll-interval", 0, "upstream poll interval")
	serveCmd.Flags().DurationVar(&cooldown, "cooldown", 0, "minimum delay between report sends")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Flags override file and environment values.
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if reportsURL != "" {
		cfg.Sources.ReportsURL = reportsURL
	}
	if marketURL != "" {
		cfg.Sources.MarketURL = marketURL
	}
	if pollInterval > 0 {
		cfg.Sources.PollInterval = pollInterval
	}
	if cooldown > 0 {
		cfg.Report.Cooldown = cooldown
	}

	log := logging.New("watchdesk")
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	prefs, err := state.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open preference store: %w", err)
	}

	snaps, err := snapshot.NewStore(filepath.Join(cfg.DataDir, "snapshots"), cfg.Sources.SnapshotTTL)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}

	catalog := i18n.NewCatalog()
	if cfg.I18n.OverlayDir != "" {
		if err := catalog.LoadOverlays(cfg.I18n.OverlayDir); err != nil {
			return fmt.Errorf("load message overlays: %w", err)
		}
	}

	srv, err := web.NewServer(cfg, log, m, registry, catalog, prefs, snaps)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller := poll.New(fetch.NewClient(cfg.HTTP), snaps, log, m, cfg.Sources.PollInterval, map[string]string{
		poll.SourceReports: cfg.Sources.ReportsURL,
		poll.SourceTop20:   cfg.Sources.MarketURL,
	})
	go poller.Run(ctx)

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
