// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	accountfeature "github.com/dalemusser/ratingdesk/internal/app/features/account"
	adminfeature "github.com/dalemusser/ratingdesk/internal/app/features/admin"
	errorsfeature "github.com/dalemusser/ratingdesk/internal/app/features/errors"
	feedbackfeature "github.com/dalemusser/ratingdesk/internal/app/features/feedback"
	healthfeature "github.com/dalemusser/ratingdesk/internal/app/features/health"
	statusfeature "github.com/dalemusser/ratingdesk/internal/app/features/status"
	"github.com/dalemusser/ratingdesk/internal/app/store/audit"
	feedbackstore "github.com/dalemusser/ratingdesk/internal/app/store/feedback"
	userstore "github.com/dalemusser/ratingdesk/internal/app/store/users"
	"github.com/dalemusser/ratingdesk/internal/app/system/auditlog"
	"github.com/dalemusser/ratingdesk/internal/app/system/auth"
	"github.com/dalemusser/ratingdesk/internal/app/system/ratelimit"
	"github.com/dalemusser/ratingdesk/internal/app/system/timeouts"
	"github.com/dalemusser/ratingdesk/internal/app/system/webhook"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Everything is mounted under /api except
// /health.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	sessionMgr, err := newSessionManager(coreCfg, appCfg, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// The feedback file backs file mode and is the fallback in mongo mode.
	var feedbackDB *mongo.Database
	if appCfg.StorageMode == feedbackstore.ModeMongo {
		feedbackDB = deps.MongoDatabase
	}
	store, err := feedbackstore.New(feedbackstore.Options{
		Mode:        appCfg.StorageMode,
		FilePath:    appCfg.FeedbackFile,
		PageSize:    appCfg.PageSize,
		MaxPageSize: appCfg.MaxPageSize,
	}, feedbackDB, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("feedback storage ready",
		zap.String("mode", store.Mode()),
		zap.String("file", appCfg.FeedbackFile))

	var notifier feedbackfeature.Notifier
	if n := webhook.New(appCfg.KlaviyoPublicKey, appCfg.KlaviyoTrackURL, timeouts.Webhook(), logger); n.Enabled() {
		notifier = n
	} else {
		logger.Info("klaviyo public key not set; feedback events disabled")
	}

	var submitLimiter *ratelimit.Limiter
	if appCfg.SubmitRateLimit > 0 {
		submitLimiter = ratelimit.New(appCfg.SubmitRateLimit, appCfg.SubmitRateWindow)
	}

	// Without MongoDB the audit trail still reaches the application log.
	var auditStore *audit.Store
	if deps.MongoDatabase != nil {
		auditStore = audit.New(deps.MongoDatabase)
	}
	auditLogger := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if appCfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, store.Mode(), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		// Loads SessionUser into context if logged in, so every handler can
		// call auth.CurrentUser(r).
		api.Use(sessionMgr.LoadSessionUser)

		feedbackHandler := feedbackfeature.NewHandler(store, notifier, auditLogger, appCfg.SampleDataEnabled, errLog, logger).
			WithPaging(appCfg.PageSize, appCfg.MaxPageSize)
		api.Mount("/feedback", feedbackfeature.Routes(feedbackHandler, sessionMgr, submitLimiter))

		statusHandler := statusfeature.NewHandler(store, statusfeature.Config{
			Environment:  coreCfg.Env,
			FeedbackFile: appCfg.FeedbackFile,
			HasMongoURI:  appCfg.MongoURI != "",
		}, logger)
		api.Mount("/storage-status", statusfeature.Routes(statusHandler))

		if deps.MongoDatabase == nil {
			api.HandleFunc("/auth/*", accountsUnavailable)
			api.HandleFunc("/admin/*", accountsUnavailable)
			return
		}

		// Fresh user data per request so deactivation takes effect at once.
		sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))
		manager := newAccountManager(appCfg, deps.MongoDatabase, logger)

		loginLimiter := ratelimit.NewLoginLimiter()

		accountHandler := accountfeature.NewHandler(manager, sessionMgr, loginLimiter, auditLogger, errLog, logger)
		api.Mount("/auth", accountfeature.Routes(accountHandler, sessionMgr))

		adminHandler := adminfeature.NewHandler(manager, auditStore, auditLogger, errLog, logger)
		api.Mount("/admin", adminfeature.Routes(adminHandler, sessionMgr))
	})

	return r, nil
}

// newSessionManager builds the cookie session manager. Secure cookies are
// enabled in production. Outside production a blank key is replaced by a
// random one, so sessions do not survive a restart.
func newSessionManager(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (*auth.SessionManager, error) {
	key := appCfg.SessionKey
	if key == "" {
		logger.Warn("session_key not set; using a random key for this process")
		key = string(securecookie.GenerateRandomKey(32))
	}
	secure := coreCfg.Env == "prod"
	return auth.NewSessionManager(key, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
}

func accountsUnavailable(w http.ResponseWriter, r *http.Request) {
	errorsfeature.Error(w, http.StatusServiceUnavailable, "accounts require a MongoDB connection; set mongo_uri")
}
