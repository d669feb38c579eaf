// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package transform

import (
	"context"
	"strings"

	"github.com/tomtom215/replex/internal/models"
)

// MixedCollectionsPrefix is the proxy route listing several collections
// as one.
const MixedCollectionsPrefix = "/replex/library/collections/"

// HubMerge folds collection hubs that share a title into the first of
// them. The surviving hub lists the interleaved children and points at the
// mixed collections route. It is a no-op unless Options.Interleave is set.
type HubMerge struct{ ContainerOnly }

func (HubMerge) Name() string { return "hub_merge" }

func (HubMerge) FilterMediaContainer(_ context.Context, env *Env, c *models.MediaContainer) bool {
	return env.Options.Interleave && c.IsHubListing()
}

func (HubMerge) TransformMediaContainer(_ context.Context, _ *Env, c *models.MediaContainer) error {
	hubs := c.Children()
	merged := make([]models.MetaData, 0, len(hubs))

	for _, hub := range hubs {
		if !hub.IsCollectionHub() {
			merged = append(merged, hub)
			continue
		}

		idx := -1
		for i := range merged {
			if merged[i].IsCollectionHub() && merged[i].Title == hub.Title {
				idx = i
				break
			}
		}
		if idx < 0 {
			merged = append(merged, hub)
			continue
		}

		left := &merged[idx]
		left.Key = mergedKey(hubCollectionID(hub.Key), hubCollectionID(left.Key))
		left.SetChildren(Interleave(left.Children(), hub.Children()))
	}

	c.SetChildren(merged)
	return nil
}

// hubCollectionID strips a hub key down to its collection id list.
func hubCollectionID(key string) string {
	if id := models.CollectionIDFromKey(key); id != "" {
		return id
	}
	key = strings.TrimPrefix(key, "/hubs/library/collections/")
	key = strings.TrimPrefix(key, "/library/collections/")
	return strings.TrimSuffix(key, "/children")
}

func mergedKey(right, left string) string {
	return MixedCollectionsPrefix + right + "," + left + "/children"
}
