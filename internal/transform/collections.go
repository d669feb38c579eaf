// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package transform

import (
	"context"
	"errors"

	"github.com/tomtom215/replex/internal/models"
	"github.com/tomtom215/replex/internal/plex"
)

// collectionHasLabel reports whether any of the comma separated collection
// ids carries tag. Collections that no longer exist count as unlabelled.
func collectionHasLabel(ctx context.Context, env *Env, ids, tag string) (bool, error) {
	for _, id := range models.SplitIDs(ids) {
		doc, err := env.Upstream.GetCollection(ctx, env.Client, id)
		if errors.Is(err, plex.ErrNotFound) {
			continue
		}
		if err != nil {
			return false, err
		}
		for _, item := range doc.MediaContainer.Children() {
			if item.HasLabel(tag) {
				return true, nil
			}
		}
	}
	return false, nil
}

// excludesWatched reports whether watched items must be hidden for the
// given collections.
func excludesWatched(ctx context.Context, env *Env, ids string) (bool, error) {
	if !env.Options.IncludeWatched {
		return true, nil
	}
	return collectionHasLabel(ctx, env, ids, models.LabelExcludeWatched)
}

// Interleave merges the lists round-robin: the first element of each list,
// then the second of each, and so on. Shorter lists simply run out.
func Interleave[T any](lists ...[]T) []T {
	total, longest := 0, 0
	for _, l := range lists {
		total += len(l)
		if len(l) > longest {
			longest = len(l)
		}
	}
	if total == 0 {
		return nil
	}

	out := make([]T, 0, total)
	for i := 0; i < longest; i++ {
		for _, l := range lists {
			if i < len(l) {
				out = append(out, l[i])
			}
		}
	}
	return out
}

func unwatched(items []models.MetaData) []models.MetaData {
	out := items[:0]
	for _, item := range items {
		if !item.IsWatched() {
			out = append(out, item)
		}
	}
	return out
}
