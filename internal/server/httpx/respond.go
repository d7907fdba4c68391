// Package httpx holds the response helpers shared by handlers and middleware.
package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/atolz-bro/usermanagementservice/pkg/api"
)

// JSON writes payload as a JSON response with status code.
func JSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// Error writes {"error": msg} with status code.
func Error(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	JSON(w, logger, status, api.ErrorResponse{Error: msg})
}

// Text writes a plain text body with status code.
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
