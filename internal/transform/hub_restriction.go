// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package transform

import (
	"context"

	"github.com/tomtom215/replex/internal/logging"
	"github.com/tomtom215/replex/internal/models"
)

// HubRestriction drops collection hubs whose collection the caller can no
// longer see in the section. Lookups that fail keep the hub.
type HubRestriction struct {
	Base
	// SectionID is used when a hub does not name its own section.
	SectionID string
}

func (HubRestriction) Name() string { return "hub_restriction" }

func (t HubRestriction) FilterMetadata(ctx context.Context, env *Env, hub *models.MetaData) bool {
	if !env.Options.HubRestrictions || !hub.IsCollectionHub() {
		return true
	}
	ids := models.SplitIDs(hub.CollectionID())
	if len(ids) == 0 {
		return true
	}

	sectionID := hub.LibrarySectionID.String()
	if sectionID == "" {
		sectionID = t.SectionID
	}
	if sectionID == "" {
		return true
	}

	doc, err := env.Upstream.GetSectionCollections(ctx, env.Client, sectionID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("section_id", sectionID).
			Str("hub", hub.HubIdentifier).
			Msg("Section collections lookup failed, keeping hub")
		return true
	}

	visible := make(map[string]struct{}, len(doc.MediaContainer.Children()))
	for _, item := range doc.MediaContainer.Children() {
		visible[item.RatingKey] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := visible[id]; !ok {
			return false
		}
	}
	return true
}
