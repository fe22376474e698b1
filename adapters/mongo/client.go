// Package mongo stores transcripts in MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ClientConfig holds the transcript store connection settings
type ClientConfig struct {
	URI            string
	Database       string
	MaxPoolSize    uint64
	ConnectTimeout time.Duration
}

const (
	defaultDatabase       = "tuturan"
	defaultMaxPoolSize    = 10
	defaultConnectTimeout = 10 * time.Second
)

// ValidateClientConfig validates the ClientConfig and sets defaults
func ValidateClientConfig(config *ClientConfig, logger *zap.Logger) error {
	if config.URI == "" {
		return fmt.Errorf("mongo URI is required")
	}

	if config.Database == "" {
		logger.Info("Using default database", zap.String("database", defaultDatabase))
		config.Database = defaultDatabase
	}

	if config.MaxPoolSize == 0 {
		config.MaxPoolSize = defaultMaxPoolSize
	}

	if config.ConnectTimeout <= 0 {
		logger.Info("Using default connect timeout", zap.Duration("timeout", defaultConnectTimeout))
		config.ConnectTimeout = defaultConnectTimeout
	}

	return nil
}

// Client owns the driver connection and the transcript database handle
type Client struct {
	*mongo.Client
	Database *mongo.Database
	logger   *zap.Logger
}

// NewClient connects and pings. A failed ping disconnects before returning.
func NewClient(ctx context.Context, config ClientConfig, logger *zap.Logger) (*Client, error) {
	if err := ValidateClientConfig(&config, logger); err != nil {
		return nil, fmt.Errorf("invalid mongo configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, config.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions(config))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("Transcript store ready", zap.String("driver", "mongo"), zap.String("database", config.Database))

	return &Client{
		Client:   client,
		Database: client.Database(config.Database),
		logger:   logger,
	}, nil
}

func clientOptions(config ClientConfig) *options.ClientOptions {
	return options.Client().
		ApplyURI(config.URI).
		SetAppName("tuturan").
		SetMaxPoolSize(config.MaxPoolSize).
		SetServerSelectionTimeout(config.ConnectTimeout).
		SetConnectTimeout(config.ConnectTimeout)
}

// Close disconnects from the server
func (c *Client) Close(ctx context.Context) error {
	if err := c.Client.Disconnect(ctx); err != nil {
		c.logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
		return err
	}
	return nil
}
