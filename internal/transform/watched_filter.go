// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package transform

import (
	"context"

	"github.com/tomtom215/replex/internal/models"
)

// WatchedFilter removes watched items from collection hubs. It applies to
// every collection hub when watched items are excluded globally, otherwise
// only to hubs whose collection carries REPLEX_EXCLUDE_WATCHED.
type WatchedFilter struct {
	Base
	// Limit trims each filtered hub back to the count the client asked
	// for before the handler doubled it. Zero keeps everything.
	Limit int
}

func (WatchedFilter) Name() string { return "watched_filter" }

func (t WatchedFilter) TransformMetadata(ctx context.Context, env *Env, hub *models.MetaData) error {
	if !hub.IsCollectionHub() {
		return nil
	}
	exclude, err := excludesWatched(ctx, env, hub.CollectionID())
	if err != nil || !exclude {
		return err
	}

	children := unwatched(hub.Children())
	if t.Limit > 0 && len(children) > t.Limit {
		children = children[:t.Limit]
	}
	hub.SetChildren(children)
	return nil
}
