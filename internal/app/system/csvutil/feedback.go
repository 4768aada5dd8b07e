// internal/app/system/csvutil/feedback.go
package csvutil

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/ratingdesk/internal/domain/models"
)

// FeedbackHeader is the first row of every export.
var FeedbackHeader = []string{
	"id", "submitted_at", "type", "rating", "email", "name",
	"feedback", "ip_address", "user_agent", "invited",
}

// WriteFeedback writes rows as CSV with a header line.
//
// Free-text cells that a spreadsheet would evaluate as a formula are
// prefixed with a single quote.
func WriteFeedback(w io.Writer, rows []models.Feedback) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FeedbackHeader); err != nil {
		return err
	}
	for _, f := range rows {
		rec := []string{
			f.ID,
			f.CreatedAt.UTC().Format(time.RFC3339),
			string(f.Category),
			strconv.Itoa(f.Rating),
			Cell(f.Email),
			Cell(f.Name),
			Cell(f.Text),
			Cell(f.SourceIP),
			Cell(f.UserAgent),
			strconv.FormatBool(f.IsInvited()),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Cell neutralizes a leading formula trigger (= + - @, tab, CR).
func Cell(s string) string {
	if s == "" {
		return s
	}
	if strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
