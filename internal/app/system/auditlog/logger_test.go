package auditlog_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/ratingdesk/internal/app/store/audit"
	"github.com/dalemusser/ratingdesk/internal/app/system/accounts"
	"github.com/dalemusser/ratingdesk/internal/app/system/auditlog"
	"github.com/dalemusser/ratingdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID().Hex(), "a@example.com")
	logger.Logout(ctx, req, "", "")
	logger.FeedbackCleared(ctx, req, "")
}

func TestLogger_ModeLog_NilStore(t *testing.T) {
	zl, logs := observed()
	logger := auditlog.New(nil, zl, auditlog.Config{Auth: auditlog.ModeAll, Admin: auditlog.ModeLog})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := httptest.NewRequest("DELETE", "/api/feedback/x", nil)
	req.RemoteAddr = "203.0.113.9:51000"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	actor := primitive.NewObjectID().Hex()
	logger.FeedbackDeleted(ctx, req, actor, "fb-1")

	entries := logs.FilterMessage("audit event").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["event_type"] != audit.EventFeedbackDeleted {
		t.Errorf("event_type = %v", fields["event_type"])
	}
	if fields["ip"] != "203.0.113.9" {
		t.Errorf("ip = %v", fields["ip"])
	}
	if fields["actor_id"] != actor {
		t.Errorf("actor_id = %v", fields["actor_id"])
	}
	if fields["detail_feedback_id"] != "fb-1" {
		t.Errorf("detail_feedback_id = %v", fields["detail_feedback_id"])
	}
}

func TestLogger_LoginFailed_Reason(t *testing.T) {
	zl, logs := observed()
	logger := auditlog.New(nil, zl, auditlog.Config{Auth: auditlog.ModeLog, Admin: auditlog.ModeLog})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/api/auth/login", nil)

	logger.LoginFailed(ctx, req, "a@example.com", &accounts.AuthError{Reason: accounts.ReasonBadPassword})
	logger.LoginFailed(ctx, req, "a@example.com", errors.New("db down"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("failed login should log at warn, got %v", entries[0].Level)
	}
	if got := entries[0].ContextMap()["failure_reason"]; got != accounts.ReasonBadPassword {
		t.Errorf("failure_reason = %v", got)
	}
	if got := entries[1].ContextMap()["failure_reason"]; got != "error" {
		t.Errorf("failure_reason = %v", got)
	}
}

func TestLogger_ModeOff(t *testing.T) {
	zl, logs := observed()
	logger := auditlog.New(nil, zl, auditlog.Config{Auth: auditlog.ModeOff, Admin: auditlog.ModeOff})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.LoginSuccess(ctx, req, primitive.NewObjectID().Hex(), "a@example.com")
	logger.FeedbackCleared(ctx, req, primitive.NewObjectID().Hex())

	if logs.Len() != 0 {
		t.Errorf("expected no log output, got %d entries", logs.Len())
	}
}

func TestLogger_ModeDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	zl, logs := observed()
	logger := auditlog.New(store, zl, auditlog.Config{Auth: auditlog.ModeDB, Admin: auditlog.ModeDB})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	logger.LoginSuccess(ctx, req, userID.Hex(), "a@example.com")

	events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(events))
	}
	if events[0].Email != "a@example.com" || !events[0].Success {
		t.Errorf("unexpected event: %+v", events[0])
	}
	if logs.Len() != 0 {
		t.Errorf("db mode should not write to zap, got %d entries", logs.Len())
	}
}

func TestValidMode(t *testing.T) {
	for _, m := range []string{"all", "db", "log", "off"} {
		if !auditlog.ValidMode(m) {
			t.Errorf("ValidMode(%q) = false", m)
		}
	}
	if auditlog.ValidMode("verbose") {
		t.Error("ValidMode(verbose) = true")
	}
}
