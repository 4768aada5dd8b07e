// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/ratingdesk/internal/app/store/audit"
	"github.com/dalemusser/ratingdesk/internal/app/system/accounts"
	"github.com/dalemusser/ratingdesk/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination modes for Config.Auth and Config.Admin.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// ValidMode reports whether s is a recognized destination mode.
func ValidMode(s string) bool {
	switch s {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Config holds audit logging configuration.
type Config struct {
	// Auth covers login, logout, password and signup events.
	Auth string
	// Admin covers signup decisions and feedback deletion.
	Admin string
}

// Logger records audit events to MongoDB and/or zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates an audit Logger. store may be nil, in which case the "db"
// half of each mode is skipped.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.Email != "" {
		fields = append(fields, zap.String("email", event.Email))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an event according to the mode for its category. A nil
// Logger is a no-op. Storage failures are logged, never returned.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var mode string
	switch event.Category {
	case audit.CategoryAuth:
		mode = l.config.Auth
	case audit.CategoryAdmin:
		mode = l.config.Admin
	default:
		mode = ModeAll
	}

	if mode == ModeOff {
		return
	}
	if mode == ModeAll || mode == ModeLog {
		l.logToZap(event)
	}
	if (mode == ModeAll || mode == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

// oid parses a hex id; invalid or empty input yields nil.
func oid(hex string) *primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &id
}

func base(r *http.Request, category, eventType string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

// --- Auth events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID, email string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	e.UserID = oid(userID)
	e.Email = email
	l.Log(ctx, e)
}

// LoginFailed logs a rejected login. The precise reason is taken from an
// *accounts.AuthError when err carries one; clients never see it.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email string, err error) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailed, false)
	e.Email = email
	var authErr *accounts.AuthError
	if errors.As(err, &authErr) {
		e.FailureReason = authErr.Reason
	} else {
		e.FailureReason = "error"
	}
	l.Log(ctx, e)
}

// LoginRateLimited logs a login refused by the limiter.
func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, email, reason string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginRateLimited, false)
	e.Email = email
	e.FailureReason = "rate limit exceeded"
	e.Details = map[string]string{"limit": reason}
	l.Log(ctx, e)
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID, email string) {
	e := base(r, audit.CategoryAuth, audit.EventLogout, true)
	e.UserID = oid(userID)
	e.Email = email
	l.Log(ctx, e)
}

// PasswordChanged logs a password change by the account owner.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, userID string) {
	e := base(r, audit.CategoryAuth, audit.EventPasswordChanged, true)
	e.UserID = oid(userID)
	l.Log(ctx, e)
}

// SignupSubmitted logs a new signup request.
func (l *Logger) SignupSubmitted(ctx context.Context, r *http.Request, requestID, email string) {
	e := base(r, audit.CategoryAuth, audit.EventSignupSubmitted, true)
	e.Email = email
	e.Details = map[string]string{"request_id": requestID}
	l.Log(ctx, e)
}

// --- Admin events ---

// SignupApproved logs an approval and the account it produced.
func (l *Logger) SignupApproved(ctx context.Context, r *http.Request, actorID, requestID, userID, email string) {
	e := base(r, audit.CategoryAdmin, audit.EventSignupApproved, true)
	e.ActorID = oid(actorID)
	e.UserID = oid(userID)
	e.Email = email
	e.Details = map[string]string{"request_id": requestID}
	l.Log(ctx, e)
}

// SignupRejected logs a rejection.
func (l *Logger) SignupRejected(ctx context.Context, r *http.Request, actorID, requestID string) {
	e := base(r, audit.CategoryAdmin, audit.EventSignupRejected, true)
	e.ActorID = oid(actorID)
	e.Details = map[string]string{"request_id": requestID}
	l.Log(ctx, e)
}

// FeedbackDeleted logs removal of one feedback record.
func (l *Logger) FeedbackDeleted(ctx context.Context, r *http.Request, actorID, feedbackID string) {
	e := base(r, audit.CategoryAdmin, audit.EventFeedbackDeleted, true)
	e.ActorID = oid(actorID)
	e.Details = map[string]string{"feedback_id": feedbackID}
	l.Log(ctx, e)
}

// FeedbackBulkDeleted logs a bulk delete with requested and removed counts.
func (l *Logger) FeedbackBulkDeleted(ctx context.Context, r *http.Request, actorID string, requested, deleted int) {
	e := base(r, audit.CategoryAdmin, audit.EventFeedbackBulkDeleted, true)
	e.ActorID = oid(actorID)
	e.Details = map[string]string{
		"requested": strconv.Itoa(requested),
		"deleted":   strconv.Itoa(deleted),
	}
	l.Log(ctx, e)
}

// FeedbackCleared logs removal of every feedback record.
func (l *Logger) FeedbackCleared(ctx context.Context, r *http.Request, actorID string) {
	e := base(r, audit.CategoryAdmin, audit.EventFeedbackCleared, true)
	e.ActorID = oid(actorID)
	l.Log(ctx, e)
}
