package cmd

import (
	"context"
	"fmt"

	"civic-jharkhand-be/config"
	"civic-jharkhand-be/repository"

	"go.uber.org/zap"
)

type stores struct {
	users   repository.UserRepository
	reports repository.ReportRepository
	close   func()
}

// openStores connects the configured backing store and ensures its indexes.
func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return &stores{
			users:   repository.NewMemoryUserRepository(),
			reports: repository.NewMemoryReportRepository(),
			close:   func() {},
		}, nil
	}

	client, db, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("MongoDB connection established", zap.String("database", cfg.MongoDatabase))

	users := repository.NewMongoUserRepository(db)
	reports := repository.NewMongoReportRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create user indexes: %w", err)
	}
	if err := reports.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create report indexes: %w", err)
	}

	return &stores{
		users:   users,
		reports: reports,
		close: func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("failed to disconnect MongoDB", zap.Error(err))
			}
		},
	}, nil
}
