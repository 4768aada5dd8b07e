// Package formutil decodes JSON request bodies for the API handlers.
//
// Every handler that accepts a body goes through DecodeJSON so size limits
// and error messages stay uniform:
//
//	var in loginRequest
//	if err := formutil.DecodeJSON(w, r, &in); err != nil {
//		h.ErrLog.LogBadRequest(w, r, "decode login body", err, err.Error())
//		return
//	}
package formutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dalemusser/ratingdesk/internal/app/system/limits"
)

// ErrEmptyBody is returned when the request has no body at all.
var ErrEmptyBody = errors.New("request body is required")

// DecodeJSON reads one JSON value from r's body into dst. The body is
// capped at limits.MaxJSONBodySize. Returned errors carry messages fit for
// the caller.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return ErrEmptyBody
	}
	body := http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)
	dec := json.NewDecoder(body)

	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body must not exceed %d bytes", maxErr.Limit)
		case errors.As(err, &syntaxErr):
			return fmt.Errorf("malformed JSON at offset %d", syntaxErr.Offset)
		case errors.As(err, &typeErr):
			return fmt.Errorf("field %q has the wrong type", typeErr.Field)
		default:
			return fmt.Errorf("invalid JSON body: %w", err)
		}
	}
	return nil
}
