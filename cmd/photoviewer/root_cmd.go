package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/mmcdole/photoviewer/internal/config"
	"github.com/mmcdole/photoviewer/internal/flickr"
	"github.com/mmcdole/photoviewer/internal/log"
	"github.com/mmcdole/photoviewer/internal/metrics"
	"github.com/mmcdole/photoviewer/internal/service"
)

const metricsNamespace = "photoviewer"

type rootOpts struct {
	configPath  string
	metricsAddr string
	logLevel    string

	// transport replaces the HTTP transport when set
	transport http.RoundTripper

	cfg           *config.Config
	baseLogger    *slog.Logger
	logger        *slog.Logger
	metrics       *metrics.Metrics
	client        *flickr.Client
	metricsServer *http.Server
}

func newRoot() *rootOpts {
	return &rootOpts{}
}

var rootLongHelp = strings.TrimSpace(`
photoviewer lists recent public photos and fetches their images.

Workflow:
  photoviewer pages --count 2          # List the first two pages of recent photos
  photoviewer image 1 0 -o photo.jpg   # Save the image of the first photo on page 1
  photoviewer archive --pages 5        # Archive five pages of listings locally
  photoviewer search sunset            # Fuzzy search archived titles
`)

func (opts *rootOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "photoviewer",
		Long:               rootLongHelp,
		Version:            Version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  opts.PersistentPreRunE,
		PersistentPostRunE: opts.PersistentPostRunE,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default searches ~/.config/photoviewer and .)")
	cmd.PersistentFlags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: DEBUG, INFO, WARN or ERROR")

	cmd.AddCommand(
		newPages(opts).Command(),
		newImage(opts).Command(),
		newArchive(opts).Command(),
		newSearch(opts).Command(),
	)

	return cmd
}

func (opts *rootOpts) PersistentPreRunE(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	opts.cfg = cfg

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)
	opts.baseLogger = logger
	opts.logger = log.ForComponent(logger, log.ComponentCommand)

	opts.metrics = metrics.New(metricsNamespace)
	if cfg.Metrics.Addr != "" {
		if err := opts.serveMetrics(cfg.Metrics.Addr); err != nil {
			return err
		}
	}

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	if opts.transport != nil {
		httpClient.Transport = opts.transport
	}
	cred := flickr.Credential{Param: cfg.API.KeyParam, Value: cfg.API.Key}
	opts.client = flickr.NewClient(cfg.API.Endpoint, cred, httpClient, log.ForComponent(logger, log.ComponentEngine))
	opts.client.SetMetrics(opts.metrics)

	opts.logger.Info("starting photoviewer", "version", Version, "command", cmd.Name())
	return nil
}

func (opts *rootOpts) PersistentPostRunE(_ *cobra.Command, _ []string) error {
	if opts.metricsServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return opts.metricsServer.Shutdown(ctx)
}

func (opts *rootOpts) serveMetrics(addr string) error {
	reg := prometheus.NewRegistry()
	if err := opts.metrics.Register(reg); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	opts.metricsServer = &http.Server{Handler: mux}

	go func() {
		if err := opts.metricsServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			opts.logger.Error("metrics server stopped", "error", err)
		}
	}()
	opts.logger.Info("serving metrics", "addr", ln.Addr().String())
	return nil
}

// requireConfigured guards commands that talk to the remote service
func (opts *rootOpts) requireConfigured() error {
	if !opts.cfg.IsConfigured() {
		return newUsageError("no API key configured; set api.key in config.yaml or PHOTOVIEWER_API_KEY")
	}
	return nil
}

func (opts *rootOpts) newFeed(perPage int) *service.FeedService {
	if perPage <= 0 {
		perPage = opts.cfg.API.PerPage
	}
	feed := service.NewFeedService(opts.client, perPage, log.ForComponent(opts.baseLogger, log.ComponentFeed))
	feed.SetConcurrency(opts.cfg.Prefetch.Concurrency)
	return feed
}
