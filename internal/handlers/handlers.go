// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers exposes the content engines over a thin JSON API.
// Handlers decode and validate request payloads, call into the stores,
// and map typed domain errors onto HTTP status codes; every invariant
// lives in the engines themselves.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"inkpress/internal/store"
)

// apiError is the JSON error envelope.
type apiError struct {
	Error string `json:"error"`
}

// okResponse acknowledges a mutation that returns no body of its own.
var okResponse = map[string]string{"status": "ok"}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("encode response failed", "error", err)
		}
	}
}

// respondBadRequest writes a 400 with the given message.
func respondBadRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, apiError{Error: msg})
}

// respondStoreError maps typed engine errors onto client-correctable
// responses. Anything untyped is an internal storage failure: it has
// already been logged with full context at the point of failure, so the
// client only sees an opaque message.
func respondStoreError(w http.ResponseWriter, err error) {
	var nf *store.NotFoundError
	var tnf *store.TargetNotFoundError
	var sc *store.SlugConflictError
	var gc *store.GuidConflictError
	var le *store.LimitExceededError
	var cp *store.CrossPostReferenceError

	switch {
	case errors.As(err, &nf), errors.As(err, &tnf):
		respondJSON(w, http.StatusNotFound, apiError{Error: err.Error()})
	case errors.As(err, &sc), errors.As(err, &gc):
		respondJSON(w, http.StatusConflict, apiError{Error: err.Error()})
	case errors.As(err, &le),
		errors.Is(err, store.ErrInvalidHierarchy),
		errors.Is(err, store.ErrDislikeUnsupported),
		errors.As(err, &cp):
		respondJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
	default:
		slog.Error("request failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, apiError{Error: "query failed"})
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// clientIP returns the request origin, honoring a forwarding proxy.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// optional converts an empty string to a nil pointer for nullable
// reference fields.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
