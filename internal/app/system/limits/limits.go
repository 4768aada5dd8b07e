// internal/app/system/limits/limits.go
package limits

// Request size limits for the JSON API.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize caps every decoded request body.
	MaxJSONBodySize = 64 << 10 // 64 KB

	// MaxFeedbackLength caps the feedback text after sanitizing, in runes.
	MaxFeedbackLength = 5000

	// MaxNameLength caps display names, in runes.
	MaxNameLength = 200

	// MaxBulkDelete caps the ids accepted by one bulk delete.
	MaxBulkDelete = 500
)
