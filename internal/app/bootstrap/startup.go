// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	signupstore "github.com/dalemusser/ratingdesk/internal/app/store/signups"
	userstore "github.com/dalemusser/ratingdesk/internal/app/store/users"
	"github.com/dalemusser/ratingdesk/internal/app/system/accounts"
	"github.com/dalemusser/ratingdesk/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// It applies the configured timeouts and seeds the super user. A failed
// seed is logged and startup continues; the seed runs again on the next
// start.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:   appCfg.TimeoutShort,
		Medium:  appCfg.TimeoutMedium,
		Webhook: appCfg.TimeoutWebhook,
	})
	cur := timeouts.Current()
	logger.Info("timeouts configured",
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("webhook", cur.Webhook))

	if deps.MongoDatabase == nil {
		return nil
	}

	seedCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()
	if err := newAccountManager(appCfg, deps.MongoDatabase, logger).SeedSuperUser(seedCtx); err != nil {
		logger.Warn("super user seed failed", zap.Error(err))
	}
	return nil
}

// newAccountManager wires the account manager to its MongoDB stores.
func newAccountManager(appCfg AppConfig, db *mongo.Database, logger *zap.Logger) *accounts.Manager {
	return accounts.NewManager(
		userstore.New(db),
		signupstore.New(db),
		accounts.NewBcryptHasher(appCfg.BcryptCost),
		accounts.Config{
			SuperUserEmail:    appCfg.SuperUserEmail,
			SuperUserPassword: appCfg.SuperUserPassword,
			SuperUserName:     appCfg.SuperUserName,
			MinPasswordLength: appCfg.MinPasswordLength,
		},
		logger,
	)
}
