// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/replex/internal/logging"
	"github.com/tomtom215/replex/internal/models"
	"github.com/tomtom215/replex/internal/transform"
)

const libraryIdentifier = "com.plexapp.plugins.library"

// PromotedHubs serves /hubs/promoted, the home screen hub listing.
//
// Clients ask once per pinned library. Only the request for the first
// pinned library is forwarded, widened to every pinned library, so the
// merged hubs appear once; the others get an empty listing.
func (h *Handler) PromotedHubs(w http.ResponseWriter, r *http.Request) {
	cc := models.NewClientContext(r)
	if cc.Token == "" {
		respondError(w, r, ErrMissingToken)
		return
	}

	if !isFirstPinned(cc) {
		logging.CtxDebug(r.Context()).
			Strs("content_directory_id", cc.ContentDirectoryID).
			Strs("pinned_content_directory_id", cc.PinnedContentDirectoryID).
			Msg("Promoted hubs for a secondary pinned library, answering empty")
		writeDocument(w, r, emptyHubListing(cc.ContentType), cc.ContentType)
		return
	}

	query := r.URL.RawQuery
	if len(cc.PinnedContentDirectoryID) > 0 {
		query = setQueryParam(query, models.ParamContentDirectoryID, strings.Join(cc.PinnedContentDirectoryID, ","))
	}
	query = setQueryParam(query, "includeGuids", "1")
	query = h.widenCount(cc, query)

	doc, err := h.client.Get(r.Context(), cc, withQuery(r.URL.Path, query))
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := transform.PromotedHubs(h.env(cc)).Apply(r.Context(), doc); err != nil {
		respondError(w, r, err)
		return
	}
	writeDocument(w, r, doc, cc.ContentType)
}

// SectionHubs serves /hubs/sections/{id}, the hub listing of one library.
func (h *Handler) SectionHubs(w http.ResponseWriter, r *http.Request) {
	cc := models.NewClientContext(r)
	if cc.Token == "" {
		respondError(w, r, ErrMissingToken)
		return
	}
	sectionID := chi.URLParam(r, "id")

	limit := 0
	if cc.Count != nil {
		limit = *cc.Count
	}
	query := h.widenCount(cc, r.URL.RawQuery)

	doc, err := h.client.Get(r.Context(), cc, withQuery(r.URL.Path, query))
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := transform.SectionHubs(h.env(cc), sectionID, limit).Apply(r.Context(), doc); err != nil {
		respondError(w, r, err)
		return
	}
	writeDocument(w, r, doc, cc.ContentType)
}

// widenCount doubles the requested hub size when watched items are going
// to be filtered out, so hubs stay full after filtering. A hub whose
// unwatched items still fall short is not re-fetched.
func (h *Handler) widenCount(cc *models.ClientContext, rawQuery string) string {
	if h.opts.Hubs.IncludeWatched || cc.Count == nil {
		return rawQuery
	}
	return setQueryParam(rawQuery, models.ParamCount, strconv.Itoa(*cc.Count*2))
}

// isFirstPinned reports whether the request targets the first pinned
// library. Requests without both parameters are not restricted.
func isFirstPinned(cc *models.ClientContext) bool {
	if len(cc.PinnedContentDirectoryID) == 0 || len(cc.ContentDirectoryID) == 0 {
		return true
	}
	return cc.ContentDirectoryID[0] == cc.PinnedContentDirectoryID[0]
}

func emptyHubListing(ct models.ContentType) *models.Document {
	doc := models.NewDocument(ct, models.SlotHub)
	doc.MediaContainer.Size = models.IntPtr(0)
	doc.MediaContainer.AllowSync = models.NewPlexBool(true)
	doc.MediaContainer.Identifier = libraryIdentifier
	return doc
}
