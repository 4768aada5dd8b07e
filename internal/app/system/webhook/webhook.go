// Package webhook notifies the marketing platform (Klaviyo's track API)
// when feedback arrives. Delivery is best effort: failures come back in a
// Result and are logged, never returned as errors.
package webhook

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTrackURL is Klaviyo's public track endpoint.
const DefaultTrackURL = "https://a.klaviyo.com/api/track"

// EventName is the metric name the campaign flows listen for.
const EventName = "Send feedback"

// Result reports the outcome of one delivery.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Notifier sends feedback events. The zero PublicKey disables it.
type Notifier struct {
	PublicKey string
	TrackURL  string
	Client    *http.Client
	Log       *zap.Logger
}

// New returns a Notifier with a client bounded by timeout.
func New(publicKey, trackURL string, timeout time.Duration, logger *zap.Logger) *Notifier {
	if trackURL == "" {
		trackURL = DefaultTrackURL
	}
	return &Notifier{
		PublicKey: publicKey,
		TrackURL:  trackURL,
		Client:    &http.Client{Timeout: timeout},
		Log:       logger,
	}
}

// Enabled reports whether a public key is configured.
func (n *Notifier) Enabled() bool { return n != nil && n.PublicKey != "" }

type customerProperties struct {
	Email     string `json:"$email"`
	FirstName string `json:"$first_name"`
}

type eventProperties struct {
	EventID        string `json:"$event_id"`
	FeedbackType   string `json:"feedback_type"`
	Rating         int    `json:"rating"`
	FeedbackText   string `json:"feedback_text"`
	SubmittedAt    string `json:"submitted_at"`
	IPAddress      string `json:"ip_address"`
	RatingCategory string `json:"rating_category"`
}

type trackPayload struct {
	Token              string             `json:"token"`
	Event              string             `json:"event"`
	CustomerProperties customerProperties `json:"customer_properties"`
	Properties         eventProperties    `json:"properties"`
	Time               int64              `json:"time"`
}

func buildPayload(token string, f models.Feedback) trackPayload {
	name := f.Name
	if name == "" {
		name = "Anonymous"
	}
	ip := f.SourceIP
	if ip == "" {
		ip = "unknown"
	}
	category := "Negative"
	if f.Rating >= 4 {
		category = "Positive"
	}
	return trackPayload{
		Token: token,
		Event: EventName,
		CustomerProperties: customerProperties{
			Email:     f.Email,
			FirstName: name,
		},
		Properties: eventProperties{
			// Klaviyo drops repeated events with the same $event_id.
			EventID:        uuid.NewString(),
			FeedbackType:   string(f.Category),
			Rating:         f.Rating,
			FeedbackText:   f.Text,
			SubmittedAt:    f.CreatedAt.UTC().Format(time.RFC3339Nano),
			IPAddress:      ip,
			RatingCategory: category,
		},
		Time: f.CreatedAt.Unix(),
	}
}

// Send delivers one feedback event. The payload travels base64-encoded in
// the data query parameter of a GET, as the track API expects.
func (n *Notifier) Send(ctx context.Context, f models.Feedback) Result {
	if !n.Enabled() {
		return Result{Error: "klaviyo not configured"}
	}

	body, err := json.Marshal(buildPayload(n.PublicKey, f))
	if err != nil {
		return n.fail(f, fmt.Errorf("encode event: %w", err))
	}
	u := n.TrackURL + "?data=" + url.QueryEscape(base64.StdEncoding.EncodeToString(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return n.fail(f, err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := n.Client.Do(req)
	if err != nil {
		return n.fail(f, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return n.fail(f, fmt.Errorf("klaviyo API error: %s", resp.Status))
	}

	n.Log.Info("klaviyo event sent",
		zap.String("event", EventName),
		zap.String("email", f.Email),
		zap.String("type", string(f.Category)),
		zap.Int("rating", f.Rating))
	return Result{Success: true}
}

func (n *Notifier) fail(f models.Feedback, err error) Result {
	n.Log.Warn("klaviyo event failed",
		zap.String("email", f.Email),
		zap.String("type", string(f.Category)),
		zap.Error(err))
	return Result{Error: err.Error()}
}
