package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger checks that the shopcart service answers.
type Pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	API Pinger
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	api := "OK"
	if err := h.API.Health(ctx); err != nil {
		api = "unreachable"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK", "api": api})
}
