package webhook

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func sample() models.Feedback {
	return models.Feedback{
		ID:        "65f0c0ffee0000000000abcd",
		Email:     "fan@example.com",
		Rating:    5,
		Text:      "Great",
		Category:  models.CategoryHigh,
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSend_EncodesPayload(t *testing.T) {
	var got trackPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		raw, err := base64.StdEncoding.DecodeString(r.URL.Query().Get("data"))
		if assert.NoError(t, err) {
			assert.NoError(t, json.Unmarshal(raw, &got))
		}
		w.Write([]byte("1"))
	}))
	defer srv.Close()

	n := New("pk_test", srv.URL, time.Second, zap.NewNop())
	res := n.Send(context.Background(), sample())

	assert.True(t, res.Success)
	assert.Empty(t, res.Error)
	assert.Equal(t, "pk_test", got.Token)
	assert.Equal(t, EventName, got.Event)
	assert.Equal(t, "fan@example.com", got.CustomerProperties.Email)
	assert.Equal(t, "Anonymous", got.CustomerProperties.FirstName)
	assert.Equal(t, "high-rating", got.Properties.FeedbackType)
	assert.Equal(t, "Positive", got.Properties.RatingCategory)
	assert.Equal(t, "unknown", got.Properties.IPAddress)
	assert.NotEmpty(t, got.Properties.EventID)
	assert.Equal(t, sample().CreatedAt.Unix(), got.Time)
}

func TestSend_NegativeCategory(t *testing.T) {
	f := sample()
	f.Rating = 2
	f.Category = models.CategoryLow
	f.Name = "Pat"

	p := buildPayload("pk", f)
	assert.Equal(t, "Negative", p.Properties.RatingCategory)
	assert.Equal(t, "Pat", p.CustomerProperties.FirstName)
}

func TestSend_EventIDsDiffer(t *testing.T) {
	a := buildPayload("pk", sample())
	b := buildPayload("pk", sample())
	assert.NotEqual(t, a.Properties.EventID, b.Properties.EventID)
}

func TestSend_Disabled(t *testing.T) {
	n := New("", "", time.Second, zap.NewNop())

	assert.False(t, n.Enabled())
	res := n.Send(context.Background(), sample())
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestSend_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	res := New("pk", srv.URL, time.Second, zap.NewNop()).Send(context.Background(), sample())
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "502")
}

func TestSend_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := New("pk", url, time.Second, zap.NewNop()).Send(context.Background(), sample())
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}
