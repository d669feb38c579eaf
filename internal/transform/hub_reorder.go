// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package transform

import (
	"context"
	"slices"

	"github.com/tomtom215/replex/internal/models"
)

// HubReorder moves the hubs named in Options.CustomSorting to the front in
// the configured order. A hub matches on its rating key, then on its
// collection id, then on its hub identifier. Other hubs keep their
// relative order behind them.
type HubReorder struct{ ContainerOnly }

func (HubReorder) Name() string { return "hub_reorder" }

func (HubReorder) FilterMediaContainer(_ context.Context, env *Env, c *models.MediaContainer) bool {
	return len(env.Options.CustomSorting) > 0 && c.IsHubListing()
}

func (HubReorder) TransformMediaContainer(_ context.Context, env *Env, c *models.MediaContainer) error {
	order := make(map[string]int, len(env.Options.CustomSorting))
	for i, key := range env.Options.CustomSorting {
		if _, dup := order[key]; !dup {
			order[key] = i
		}
	}
	unranked := len(env.Options.CustomSorting)

	rank := func(hub *models.MetaData) int {
		for _, candidate := range []string{hub.RatingKey, hub.CollectionID(), hub.HubIdentifier} {
			if candidate == "" {
				continue
			}
			if r, ok := order[candidate]; ok {
				return r
			}
		}
		return unranked
	}

	hubs := c.Children()
	slices.SortStableFunc(hubs, func(a, b models.MetaData) int {
		return rank(&a) - rank(&b)
	})
	c.SetChildren(hubs)
	return nil
}
