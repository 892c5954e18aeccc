package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/DJBrause/MarketSpreadSniper/internal/blob/s3"
	"github.com/DJBrause/MarketSpreadSniper/internal/cache/redis"
	"github.com/DJBrause/MarketSpreadSniper/internal/config"
	"github.com/DJBrause/MarketSpreadSniper/internal/domain"
	"github.com/DJBrause/MarketSpreadSniper/internal/notify"
	"github.com/DJBrause/MarketSpreadSniper/internal/pipeline"
	"github.com/DJBrause/MarketSpreadSniper/internal/platform/esi"
	"github.com/DJBrause/MarketSpreadSniper/internal/report"
)

// Dependencies bundles everything the application modes need to operate. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Pipeline *pipeline.Orchestrator
	Reports  *report.Writer

	// Archiver is nil when S3 archiving is disabled.
	Archiver domain.ReportArchiver

	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- ESI market-data client ---
	esiClient := esi.NewClient(cfg.ESI.BaseURL, cfg.ESI.Datasource,
		esi.WithTimeout(cfg.ESI.Timeout.Duration),
		esi.WithRetries(cfg.ESI.MaxRetries, cfg.ESI.RetryBackoff.Duration),
		esi.WithUserAgent(cfg.ESI.UserAgent),
		esi.WithLogger(logger),
	)

	// --- Redis name cache (optional) ---
	var nameCache domain.NameCache
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		nameCache = redis.NewNameCache(redisClient, cfg.Names.CacheTTL.Duration)
	}

	// --- Name resolution ---
	var resolver pipeline.NameResolver
	if cfg.Names.ResolveMissing {
		resolver = esiClient
	}
	names := pipeline.NewNameService(cfg.StaticNames(), nameCache, resolver, logger)

	// --- Spread pipeline ---
	deps.Pipeline = pipeline.New(
		esiClient,
		names,
		cfg.DomainRegions(),
		cfg.Spread.MinSpread,
		cfg.Spread.RegionConcurrency,
		logger,
	)

	// --- Report writer ---
	deps.Reports = report.NewWriter(cfg.Report.OutputDir, logger)

	// --- S3 report archive (optional) ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}

		deps.Archiver = s3blob.NewArchiver(s3Client, cfg.S3.Prefix, logger)
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Email.Enabled {
		emailSender, err := notify.NewEmailSender(ctx, notify.EmailConfig{
			Sender:     cfg.Email.Sender,
			Recipients: cfg.Email.Recipients,
			AWSRegion:  cfg.Email.AWSRegion,
			AccessKey:  cfg.Email.AccessKey,
			SecretKey:  cfg.Email.SecretKey,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: email: %w", err)
		}
		senders = append(senders, emailSender)
	}
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}
