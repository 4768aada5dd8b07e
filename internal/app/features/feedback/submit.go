// internal/app/features/feedback/submit.go
package feedback

import (
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	uierrors "github.com/dalemusser/ratingdesk/internal/app/features/errors"
	"github.com/dalemusser/ratingdesk/internal/app/system/formutil"
	"github.com/dalemusser/ratingdesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ratingdesk/internal/app/system/inputval"
	"github.com/dalemusser/ratingdesk/internal/app/system/limits"
	"github.com/dalemusser/ratingdesk/internal/app/system/normalize"
	"github.com/dalemusser/ratingdesk/internal/app/system/ratelimit"
	"github.com/dalemusser/ratingdesk/internal/app/system/timeouts"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"go.uber.org/zap"
)

type submitRequest struct {
	Email    string `json:"email"`
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
	Name     string `json:"name"`
}

type submitResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Rating    int       `json:"rating"`
	Feedback  string    `json:"feedback"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// ServeHighRating handles POST /api/feedback/high-rating (ratings 4–5).
func (h *Handler) ServeHighRating(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, models.CategoryHigh, 4, 5)
}

// ServeLowRating handles POST /api/feedback/low-rating (ratings 1–3).
func (h *Handler) ServeLowRating(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, models.CategoryLow, 1, 3)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, category models.Category, minRating, maxRating int) {
	var in submitRequest
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode feedback body", err, err.Error())
		return
	}

	email := normalize.Email(in.Email)
	text := htmlsanitize.PlainText(in.Feedback)
	name := normalize.Name(htmlsanitize.PlainText(in.Name))

	switch {
	case email == "" || in.Rating == 0 || text == "":
		uierrors.Error(w, http.StatusBadRequest, "email, rating, and feedback are required")
		return
	case !inputval.IsValidEmail(email):
		uierrors.Error(w, http.StatusBadRequest, "please enter a valid email address")
		return
	case in.Rating < minRating || in.Rating > maxRating:
		uierrors.Error(w, http.StatusBadRequest,
			fmt.Sprintf("rating must be between %d and %d for %s feedback", minRating, maxRating, category))
		return
	case utf8.RuneCountInString(text) > limits.MaxFeedbackLength:
		uierrors.Error(w, http.StatusBadRequest,
			fmt.Sprintf("feedback must be at most %d characters", limits.MaxFeedbackLength))
		return
	case utf8.RuneCountInString(name) > limits.MaxNameLength:
		uierrors.Error(w, http.StatusBadRequest,
			fmt.Sprintf("name must be at most %d characters", limits.MaxNameLength))
		return
	}

	ip, ok := ratelimit.ProxiedIP(r)
	if !ok {
		ip = "unknown"
	}
	ua := r.UserAgent()
	if ua == "" {
		ua = "unknown"
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "feedback create")
	defer cancel()

	saved, err := h.Store.Create(ctx, models.Feedback{
		Email:     email,
		Rating:    in.Rating,
		Text:      text,
		Name:      name,
		Category:  category,
		SourceIP:  ip,
		UserAgent: ua,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create feedback failed", err, "Unable to save feedback.")
		return
	}

	h.Log.Info("feedback saved",
		zap.String("id", saved.ID),
		zap.String("type", string(saved.Category)),
		zap.Int("rating", saved.Rating),
		zap.String("store", h.Store.Mode()))

	h.notify(r, saved)

	display := saved.Name
	if display == "" {
		display = "Anonymous"
	}
	uierrors.Message(w, http.StatusOK, "Feedback submitted successfully", submitResponse{
		ID:        saved.ID,
		Email:     saved.Email,
		Rating:    saved.Rating,
		Feedback:  saved.Text,
		Name:      display,
		Timestamp: saved.CreatedAt,
	})
}

// notify sends the marketing event. The outcome never affects the response.
func (h *Handler) notify(r *http.Request, f models.Feedback) {
	if h.Notifier == nil {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Webhook(), h.Log, "feedback webhook")
	defer cancel()
	h.Notifier.Send(ctx, f)
}
