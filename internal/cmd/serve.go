package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/ldadapter/internal/config"
	"github.com/telhawk-systems/ldadapter/internal/logging"
	"github.com/telhawk-systems/ldadapter/internal/messaging"
	natsclient "github.com/telhawk-systems/ldadapter/internal/messaging/nats"
	"github.com/telhawk-systems/ldadapter/internal/middleware"
	"github.com/telhawk-systems/ldadapter/internal/notify"
	"github.com/telhawk-systems/ldadapter/internal/proxy"
	"github.com/telhawk-systems/ldadapter/internal/ratelimit"
	"github.com/telhawk-systems/ldadapter/internal/server"
	"github.com/telhawk-systems/ldadapter/internal/translator"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the NGSI-LD API and notification relay",
		Example: `  ldadapter serve --config config.yaml
  LDADAPTER_UPSTREAM_URL=http://orion:1026 ldadapter serve`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(logger)

	tr := translator.New(translator.Settings{
		ContextURL:       cfg.Context.URL,
		DefaultTimestamp: cfg.Context.DefaultTimestamp,
	})

	limiter, err := ratelimit.NewRedisRateLimiter(cfg.Redis.URL, cfg.RateLimit.Requests, cfg.RateLimit.Window, !cfg.RateLimit.Enabled)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	defer limiter.Close()

	relayOpts := []notify.Option{notify.WithLogger(logger)}
	var broker messaging.Publisher
	if cfg.NATS.Enabled {
		natsCfg := natsclient.DefaultConfig()
		natsCfg.URL = cfg.NATS.URL
		client, err := natsclient.NewClient(natsCfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Drain(); err != nil {
				logger.Warn("draining NATS connection", logging.Error(err))
			}
		}()
		broker = client
		relayOpts = append(relayOpts, notify.WithPublisher(client))
		logger.Info("publishing notifications to NATS", "url", cfg.NATS.URL, "subject_prefix", cfg.NATS.SubjectPrefix)
	}

	api, err := proxy.New(proxy.Config{
		UpstreamURL: cfg.Upstream.URL,
		Timeout:     cfg.Upstream.Timeout,
	}, tr, logger)
	if err != nil {
		return err
	}
	relay := notify.New(tr, notify.Config{
		Timeout:       cfg.Notify.Timeout,
		SubjectPrefix: cfg.NATS.SubjectPrefix,
	}, relayOpts...)

	handler := server.NewRouter(server.Options{
		API:     api,
		Relay:   relay,
		Broker:  broker,
		Limiter: limiter,
		CORS:    middleware.DefaultCORSConfig(cfg.Server.CORSOrigins),
		Logger:  logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting ldadapter", logging.Upstream(cfg.Upstream.URL), "version", Version)
	return server.New(cfg.Server, handler, logger).Run(ctx)
}

// loadConfig reads --config and applies --log-level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}
