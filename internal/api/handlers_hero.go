// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HeroImage serves /replex/image/hero/{type}/{uuid} by redirecting to the
// provider's cover art for that GUID.
func (h *Handler) HeroImage(w http.ResponseWriter, r *http.Request) {
	guid := chi.URLParam(r, "type") + "/" + chi.URLParam(r, "uuid")

	art, err := h.client.GetHeroArt(r.Context(), guid)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Location", art)
	w.WriteHeader(http.StatusTemporaryRedirect)
}
