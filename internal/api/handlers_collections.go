// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package api

import (
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/replex/internal/models"
	"github.com/tomtom215/replex/internal/transform"
	"github.com/tomtom215/replex/internal/validation"
)

// collectionsParams are the path parameters of the mixed collections route.
type collectionsParams struct {
	IDs string `validate:"required,ratingkeys"`
}

// collectionChildrenPath matches the collection listings a styled hub key
// can point at, with or without the /hubs prefix.
var collectionChildrenPath = regexp.MustCompile(`^(?:/hubs)?/library/collections/([^/]+)/children$`)

// CollectionChildren serves /replex/library/collections/{ids}/children, the
// interleaved listing of one or more collections.
func (h *Handler) CollectionChildren(w http.ResponseWriter, r *http.Request) {
	h.serveCollections(w, r, chi.URLParam(r, "ids"))
}

// Styled serves /replex/{style}/*, the keys the hub-key transform hands out.
// Collection listings are served mixed and styled; anything else is
// forwarded with the prefix removed.
func (h *Handler) Styled(w http.ResponseWriter, r *http.Request) {
	rest := "/" + chi.URLParam(r, "*")
	if m := collectionChildrenPath.FindStringSubmatch(rest); m != nil {
		h.serveCollections(w, r, m[1])
		return
	}

	out := r.Clone(r.Context())
	out.URL.Path = rest
	out.URL.RawPath = ""
	h.Passthrough(w, out)
}

func (h *Handler) serveCollections(w http.ResponseWriter, r *http.Request, ids string) {
	cc := models.NewClientContext(r)
	if cc.Token == "" {
		respondError(w, r, ErrMissingToken)
		return
	}

	params := collectionsParams{IDs: ids}
	if verr := validation.ValidateStruct(&params); verr != nil {
		respondError(w, r, verr)
		return
	}

	offset, limit := 0, 0
	if cc.ContainerStart != nil {
		offset = *cc.ContainerStart
	}
	if cc.ContainerSize != nil {
		limit = *cc.ContainerSize
	}

	doc := models.NewDocument(cc.ContentType, models.SlotMetadata)
	pipeline := transform.CollectionChildren(h.env(cc), models.SplitIDs(params.IDs), offset, limit)
	if err := pipeline.Apply(r.Context(), doc); err != nil {
		respondError(w, r, err)
		return
	}
	writeDocument(w, r, doc, cc.ContentType)
}
