// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API surface. Every response is
// wrapped in a {message, data} envelope; errors carry the message only.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// envelope is the uniform response body shape.
type envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// respond writes a JSON envelope with the given status.
func respond(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Message: message, Data: data}); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// respondError writes an error envelope (no data).
func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, message, nil)
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// validationMessage flattens a validator error into a single
// caller-facing message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fe.Field() + " is required"
		case "min":
			return fe.Field() + " is too short (min " + fe.Param() + ")"
		case "max":
			return fe.Field() + " is too long (max " + fe.Param() + ")"
		default:
			return fe.Field() + " is invalid"
		}
	}
	return "invalid request"
}
