// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package transform

import (
	"context"

	"github.com/tomtom215/replex/internal/models"
)

// HubStyle renders collection hubs labelled REPLEXHERO as hero hubs.
type HubStyle struct{ Base }

func (HubStyle) Name() string { return "hub_style" }

func (HubStyle) TransformMetadata(ctx context.Context, env *Env, hub *models.MetaData) error {
	if !hub.IsCollectionHub() {
		return nil
	}
	id := hub.CollectionID()
	if id == "" {
		return nil
	}

	hero, err := collectionHasLabel(ctx, env, id, models.LabelHero)
	if err != nil || !hero {
		return err
	}
	applyHubStyle(hub, StyleFor(env.Client), env.Client.Token)
	return nil
}

// CollectionStyle gives the items of a collection listing the hero
// treatment when one of the listed collections is labelled REPLEXHERO.
type CollectionStyle struct {
	ContainerOnly
	// IDs are the collections the listing was built from.
	IDs []string
}

func (CollectionStyle) Name() string { return "collection_style" }

func (t CollectionStyle) TransformMediaContainer(ctx context.Context, env *Env, c *models.MediaContainer) error {
	if len(t.IDs) == 0 {
		return nil
	}
	hero := false
	for _, id := range t.IDs {
		ok, err := collectionHasLabel(ctx, env, id, models.LabelHero)
		if err != nil {
			return err
		}
		if ok {
			hero = true
			break
		}
	}
	if !hero {
		return nil
	}

	ds := StyleFor(env.Client)
	children := c.Children()
	for i := range children {
		applyItemStyle(&children[i], ds, env.Client.Token)
	}
	return nil
}
