// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration; ports, TLS, log level and
// CORS live in WAFFLE's CoreConfig.
type AppConfig struct {
	// Feedback storage
	StorageMode  string // "file" or "mongo"
	FeedbackFile string // JSON file used in file mode and as the mongo fallback
	PageSize     int    // default page size for feedback listings
	MaxPageSize  int    // cap on caller-supplied page sizes

	// MongoDB connection configuration. Accounts always live in MongoDB;
	// with no URI the account endpoints are unavailable.
	MongoURI            string
	MongoDatabase       string
	MongoConnectTimeout time.Duration

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Super user seeded at startup
	SuperUserEmail    string
	SuperUserPassword string
	SuperUserName     string

	// Password policy
	MinPasswordLength int
	BcryptCost        int

	// Marketing webhook (Klaviyo track API); blank key disables it
	KlaviyoPublicKey string
	KlaviyoTrackURL  string

	// Public submission throttle (per client IP)
	SubmitRateLimit  int
	SubmitRateWindow time.Duration

	// Audit destinations: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// TrustProxy rewrites RemoteAddr from proxy headers before any
	// per-IP rate limiting. Leave off unless a reverse proxy sets them.
	TrustProxy bool

	// Handler I/O deadlines; zero keeps the package default
	TimeoutShort   time.Duration
	TimeoutMedium  time.Duration
	TimeoutWebhook time.Duration

	// SampleDataEnabled turns on the sample seed/clear endpoints. It is
	// forced off in production.
	SampleDataEnabled bool
}
