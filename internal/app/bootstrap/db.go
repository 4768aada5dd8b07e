// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/ratingdesk/internal/app/system/indexes"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB client when a URI is configured.
//
// A failed first ping is only a warning: in mongo storage mode feedback
// keeps working through the file fallback and the driver reconnects on
// its own.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	if appCfg.MongoURI == "" {
		logger.Warn("mongo_uri not set; account endpoints are disabled",
			zap.String("storage_mode", appCfg.StorageMode))
		return DBDeps{}, nil
	}

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetConnectTimeout(appCfg.MongoConnectTimeout).
		SetServerSelectionTimeout(appCfg.MongoConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, appCfg.MongoConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		logger.Warn("mongo ping failed at startup; continuing",
			zap.String("database", appCfg.MongoDatabase),
			zap.Error(err))
	} else {
		logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	}

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the collection indexes. Without a database there is
// nothing to do; an unreachable server is tolerated like in ConnectDB.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase, logger); err != nil {
		if isUnreachable(err) {
			logger.Warn("index setup skipped; mongo unreachable", zap.Error(err))
			return nil
		}
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}

// isUnreachable reports connection-level failures, as opposed to bad data
// such as duplicates blocking a unique index.
func isUnreachable(err error) bool {
	var sse topology.ServerSelectionError
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, context.DeadlineExceeded) || errors.As(err, &sse)
}
