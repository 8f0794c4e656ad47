package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/observability"
	apperrors "github.com/JamesKof/ghana-health-connect-sub000/pkg/errors"
)

// Maximum accepted request body size for JSON payloads.
const maxBodyBytes = 64 << 10

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an AppError type to its HTTP status. Internal
// details are logged, never returned.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, apperrors.MessageOf(err, "not found"))
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, apperrors.MessageOf(err, "invalid request"))
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, apperrors.MessageOf(err, "conflict"))
	case apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusUnauthorized, apperrors.MessageOf(err, "unauthorized"))
	case apperrors.ErrorTypeExternal:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Upstream provider failed")
		respondWithError(w, http.StatusBadGateway, fallback)
	default:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
