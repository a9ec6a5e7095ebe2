package http

import (
	"net/http"
	"strconv"

	apperrors "venuebook/pkg/errors"
)

// QueryInt parses an optional integer query parameter, returning the
// fallback when absent.
func QueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + name + " parameter: " + raw)
	}
	return n, nil
}
