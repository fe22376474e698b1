package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/tuturan/adapters/mongo"
	"github.com/satriahrh/tuturan/adapters/sqlstore"
	"github.com/satriahrh/tuturan/domain/repositories"
	"github.com/satriahrh/tuturan/internal/config"
)

const defaultStoreConnectTimeout = 30 * time.Second

// OpenTranscriptRepository opens the store selected by cfg.Driver. Connection
// failures are retried with exponential backoff until the connect timeout elapses.
func OpenTranscriptRepository(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (repositories.TranscriptRepository, error) {
	if cfg.Driver == config.StoreMemory {
		logger.Warn("Using in-memory transcript store, data is lost on restart")
		return NewMemoryTranscriptRepository(), nil
	}

	var repo repositories.TranscriptRepository
	open := func() error {
		var err error
		repo, err = openStore(ctx, cfg, logger)
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = defaultStoreConnectTimeout

	notify := func(err error, wait time.Duration) {
		logger.Warn("Transcript store not ready, retrying",
			zap.String("driver", cfg.Driver),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(open, backoff.WithContext(policy, ctx), notify); err != nil {
		return nil, fmt.Errorf("failed to open %s transcript store: %w", cfg.Driver, err)
	}
	return repo, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (repositories.TranscriptRepository, error) {
	switch cfg.Driver {
	case config.StoreSQLite, config.StorePostgres:
		return sqlstore.Open(ctx, cfg.Driver, cfg.DatabaseURL, logger)
	case config.StoreMongo:
		client, err := mongo.NewClient(ctx, mongo.ClientConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase}, logger)
		if err != nil {
			return nil, err
		}
		return mongo.NewTranscriptRepository(client, logger), nil
	default:
		return nil, backoff.Permanent(fmt.Errorf("unsupported store driver %q", cfg.Driver))
	}
}
