// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	feedbackstore "github.com/dalemusser/ratingdesk/internal/app/store/feedback"
	"github.com/dalemusser/ratingdesk/internal/app/system/accounts"
	"github.com/dalemusser/ratingdesk/internal/app/system/auditlog"
	"github.com/dalemusser/ratingdesk/internal/app/system/paging"
	"github.com/dalemusser/ratingdesk/internal/app/system/webhook"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// appConfigKeys defines the configuration keys for RatingDesk.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: storage_mode, mongo_uri, etc.
//   - Environment variables: RATINGDESK_STORAGE_MODE, RATINGDESK_MONGO_URI, etc.
//   - Command-line flags: --storage_mode, --mongo_uri, etc.
var appConfigKeys = []config.AppKey{
	// Feedback storage
	{Name: "storage_mode", Default: feedbackstore.ModeFile, Desc: "Feedback storage: 'file' or 'mongo' (mongo falls back to the file)"},
	{Name: "feedback_file", Default: "./data/feedback.json", Desc: "Path of the feedback JSON file"},
	{Name: "page_size", Default: paging.DefaultPageSize, Desc: "Default feedback page size"},
	{Name: "max_page_size", Default: paging.MaxPageSize, Desc: "Maximum feedback page size"},

	// MongoDB
	{Name: "mongo_uri", Default: "", Desc: "MongoDB connection URI (required for accounts and mongo storage)"},
	{Name: "mongo_database", Default: "trustpilot", Desc: "MongoDB database name"},
	{Name: "mongo_connect_timeout", Default: "5s", Desc: "MongoDB connect and first ping timeout"},

	// Sessions
	{Name: "session_key", Default: "", Desc: "Session signing key, 32+ chars (random per process in dev when blank)"},
	{Name: "session_name", Default: "ratingdesk-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "168h", Desc: "Session cookie lifetime"},

	// Super user
	{Name: "superuser_email", Default: "", Desc: "Email of the super user created at startup"},
	{Name: "superuser_password", Default: "", Desc: "Initial password of the super user"},
	{Name: "superuser_name", Default: "Super Admin", Desc: "Display name of the super user"},

	// Password policy
	{Name: "min_password_length", Default: accounts.DefaultMinPasswordLength, Desc: "Minimum password length"},
	{Name: "bcrypt_cost", Default: bcrypt.DefaultCost, Desc: "bcrypt work factor"},

	// Marketing webhook
	{Name: "klaviyo_public_key", Default: "", Desc: "Klaviyo public API key (blank disables events)"},
	{Name: "klaviyo_track_url", Default: webhook.DefaultTrackURL, Desc: "Klaviyo track endpoint"},

	// Submission throttle
	{Name: "submit_rate_limit", Default: 20, Desc: "Feedback submissions allowed per client IP per window (0 disables)"},
	{Name: "submit_rate_window", Default: "1m", Desc: "Feedback submission throttle window"},
	{Name: "trust_proxy", Default: false, Desc: "Take the client IP from X-Forwarded-For/X-Real-IP (only behind a reverse proxy)"},

	// Audit logging
	{Name: "audit_log_auth", Default: "all", Desc: "Auth events (login, logout, password, signup): all, db, log, off"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin events (signup decisions, feedback deletion): all, db, log, off"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for listings, stats and bulk deletes"},
	{Name: "timeout_webhook", Default: "5s", Desc: "Deadline for the marketing webhook"},

	// Development
	{Name: "sample_data_enabled", Default: true, Desc: "Enable the sample data endpoints (always off in prod)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, RATINGDESK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "RATINGDESK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StorageMode:  appValues.String("storage_mode"),
		FeedbackFile: appValues.String("feedback_file"),
		PageSize:     appValues.Int("page_size"),
		MaxPageSize:  appValues.Int("max_page_size"),

		MongoURI:            appValues.String("mongo_uri"),
		MongoDatabase:       appValues.String("mongo_database"),
		MongoConnectTimeout: appValues.Duration("mongo_connect_timeout", 5*time.Second),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 7*24*time.Hour),

		SuperUserEmail:    appValues.String("superuser_email"),
		SuperUserPassword: appValues.String("superuser_password"),
		SuperUserName:     appValues.String("superuser_name"),

		MinPasswordLength: appValues.Int("min_password_length"),
		BcryptCost:        appValues.Int("bcrypt_cost"),

		KlaviyoPublicKey: appValues.String("klaviyo_public_key"),
		KlaviyoTrackURL:  appValues.String("klaviyo_track_url"),

		SubmitRateLimit:  appValues.Int("submit_rate_limit"),
		SubmitRateWindow: appValues.Duration("submit_rate_window", time.Minute),
		TrustProxy:       appValues.Bool("trust_proxy"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		TimeoutShort:   appValues.Duration("timeout_short", 0),
		TimeoutMedium:  appValues.Duration("timeout_medium", 0),
		TimeoutWebhook: appValues.Duration("timeout_webhook", 0),

		SampleDataEnabled: appValues.Bool("sample_data_enabled"),
	}

	if coreCfg.Env == "prod" && appCfg.SampleDataEnabled {
		logger.Info("sample data endpoints disabled in production")
		appCfg.SampleDataEnabled = false
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StorageMode {
	case feedbackstore.ModeFile, feedbackstore.ModeMongo:
	default:
		return fmt.Errorf("storage_mode must be %q or %q, got %q",
			feedbackstore.ModeFile, feedbackstore.ModeMongo, appCfg.StorageMode)
	}

	if appCfg.StorageMode == feedbackstore.ModeMongo && appCfg.MongoURI == "" {
		return fmt.Errorf("storage_mode %q requires mongo_uri", feedbackstore.ModeMongo)
	}
	if appCfg.MongoURI != "" {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	}

	if appCfg.FeedbackFile == "" {
		return fmt.Errorf("feedback_file must not be empty")
	}
	if appCfg.MinPasswordLength < 1 {
		return fmt.Errorf("min_password_length must be at least 1, got %d", appCfg.MinPasswordLength)
	}
	if appCfg.PageSize < 1 || appCfg.MaxPageSize < appCfg.PageSize {
		return fmt.Errorf("page_size (%d) must be ≥1 and ≤ max_page_size (%d)", appCfg.PageSize, appCfg.MaxPageSize)
	}

	for key, mode := range map[string]string{
		"audit_log_auth":  appCfg.AuditLogAuth,
		"audit_log_admin": appCfg.AuditLogAdmin,
	} {
		if !auditlog.ValidMode(mode) {
			return fmt.Errorf("%s must be all, db, log or off, got %q", key, mode)
		}
	}

	if appCfg.SessionKey == "" && coreCfg.Env == "prod" {
		return fmt.Errorf("session_key is required in production")
	}

	return nil
}
