// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package transform

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/replex/internal/logging"
	"github.com/tomtom215/replex/internal/models"
	"github.com/tomtom215/replex/internal/plex"
)

// DefaultMixLimit is the page size used when the client sends none.
const DefaultMixLimit = 100

const libraryIdentifier = "com.plexapp.plugins.library"

// LibraryMix fills the container with the round-robin interleave of several
// collections. Each collection contributes an equal share of the requested
// window; the merged list is cut to Limit.
type LibraryMix struct {
	ContainerOnly
	IDs    []string
	Offset int
	Limit  int
}

func (LibraryMix) Name() string { return "library_mix" }

type mixPart struct {
	items []models.MetaData
	total int
	found bool
	head  models.MediaContainer
}

func (t LibraryMix) TransformMediaContainer(ctx context.Context, env *Env, c *models.MediaContainer) error {
	limit := t.Limit
	if limit <= 0 {
		limit = DefaultMixLimit
	}
	offset := t.Offset
	if offset < 0 {
		offset = 0
	}

	parts := make([]mixPart, len(t.IDs))
	if n := len(t.IDs); n > 0 {
		perOffset := offset / n
		perLimit := (limit + n - 1) / n

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxChildConcurrency)
		for i, id := range t.IDs {
			g.Go(func() error {
				part, err := loadMixPart(gctx, env, id, perOffset, perLimit)
				if err != nil {
					return err
				}
				parts[i] = part
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	lists := make([][]models.MetaData, 0, len(parts))
	total := 0
	var head *models.MediaContainer
	for i := range parts {
		if !parts[i].found {
			continue
		}
		lists = append(lists, parts[i].items)
		total += parts[i].total
		if head == nil {
			head = &parts[i].head
		}
	}

	items := Interleave(lists...)
	if len(items) > limit {
		items = items[:limit]
	}

	if head != nil {
		c.LibrarySectionID = head.LibrarySectionID
		c.LibrarySectionTitle = head.LibrarySectionTitle
		c.LibrarySectionUUID = head.LibrarySectionUUID
	}
	if c.Identifier == "" {
		c.Identifier = libraryIdentifier
	}
	if c.AllowSync == nil {
		c.AllowSync = models.NewPlexBool(true)
	}
	c.SetChildrenIn(models.SlotMetadata, items)
	c.Size = models.IntPtr(len(items))
	c.TotalSize = models.IntPtr(total)
	c.Offset = models.IntPtr(offset)
	return nil
}

// loadMixPart fetches one collection's share and applies its watched rule.
// A collection that no longer exists contributes nothing.
func loadMixPart(ctx context.Context, env *Env, id string, offset, limit int) (mixPart, error) {
	doc, err := env.Upstream.GetCollectionChildren(ctx, env.Client, id, offset, limit)
	if errors.Is(err, plex.ErrNotFound) {
		logging.Ctx(ctx).Debug().Str("collection_id", id).Msg("Mixed collection not found, skipping")
		return mixPart{}, nil
	}
	if err != nil {
		return mixPart{}, err
	}

	items := doc.MediaContainer.Children()
	total := len(items)
	if doc.MediaContainer.TotalSize != nil {
		total = *doc.MediaContainer.TotalSize
	}

	exclude, err := excludesWatched(ctx, env, id)
	if err != nil {
		return mixPart{}, err
	}
	if exclude {
		items = unwatched(items)
	}
	if len(items) > limit {
		items = items[:limit]
	}

	head := doc.MediaContainer
	head.SetChildren(nil)
	return mixPart{items: items, total: total, found: true, head: head}, nil
}
