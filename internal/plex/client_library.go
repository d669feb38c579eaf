// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package plex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tomtom215/replex/internal/logging"
	"github.com/tomtom215/replex/internal/metrics"
	"github.com/tomtom215/replex/internal/models"
)

// FetchFunc loads a document on a cache miss.
type FetchFunc func(ctx context.Context) (*models.Document, error)

// GetCached memoises fetch under "<name>:<token>". Concurrent callers share
// one fetch, failures are not cached, and every caller receives its own
// copy of the document.
func (c *Client) GetCached(ctx context.Context, cc *models.ClientContext, name string, fetch FetchFunc) (*models.Document, error) {
	return c.cached(ctx, name+":"+cc.Token, fetch)
}

func (c *Client) cached(ctx context.Context, key string, fetch FetchFunc) (*models.Document, error) {
	doc, err := c.docs.GetOrLoad(ctx, key, func(ctx context.Context) (*models.Document, error) {
		return fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return doc.Clone()
}

// GetHubs fetches the global hub listing.
func (c *Client) GetHubs(ctx context.Context, cc *models.ClientContext) (*models.Document, error) {
	return c.GetCached(ctx, cc, "hubs", func(ctx context.Context) (*models.Document, error) {
		return c.getSupporting(ctx, cc, "/hubs")
	})
}

// GetCollection fetches a collection's own metadata, labels included.
func (c *Client) GetCollection(ctx context.Context, cc *models.ClientContext, id string) (*models.Document, error) {
	path := "/library/collections/" + url.PathEscape(id)
	return c.GetCached(ctx, cc, "collection:"+id, func(ctx context.Context) (*models.Document, error) {
		return c.getSupporting(ctx, cc, path)
	})
}

// GetCollectionChildren fetches one page of a collection's items.
func (c *Client) GetCollectionChildren(ctx context.Context, cc *models.ClientContext, id string, offset, limit int) (*models.Document, error) {
	q := url.Values{}
	q.Set(models.HeaderContainerStart, strconv.Itoa(offset))
	q.Set(models.HeaderContainerSize, strconv.Itoa(limit))
	path := "/library/collections/" + url.PathEscape(id) + "/children?" + q.Encode()

	name := fmt.Sprintf("collection_children:%s:%d:%d", id, offset, limit)
	return c.GetCached(ctx, cc, name, func(ctx context.Context) (*models.Document, error) {
		return c.getSupporting(ctx, cc, path)
	})
}

// GetSectionCollections fetches every collection the caller can see in a
// library section.
func (c *Client) GetSectionCollections(ctx context.Context, cc *models.ClientContext, sectionID string) (*models.Document, error) {
	path := "/library/sections/" + url.PathEscape(sectionID) + "/collections"
	return c.GetCached(ctx, cc, "section_collections:"+sectionID, func(ctx context.Context) (*models.Document, error) {
		return c.getSupporting(ctx, cc, path)
	})
}

// GetSectionLabels fetches the label directory of a library section.
func (c *Client) GetSectionLabels(ctx context.Context, cc *models.ClientContext, sectionID string) (*models.Document, error) {
	path := "/library/sections/" + url.PathEscape(sectionID) + "/label"
	return c.GetCached(ctx, cc, "section_labels:"+sectionID, func(ctx context.Context) (*models.Document, error) {
		return c.getSupporting(ctx, cc, path)
	})
}

// GetProviderData fetches provider metadata for a GUID such as
// "movie/5d7768...". It authenticates with the server admin token and is
// paced by the provider rate limit.
func (c *Client) GetProviderData(ctx context.Context, uuid string) (*models.Document, error) {
	rawURL := c.providerURL + "/library/metadata/" + uuid
	return c.cached(ctx, "provider:"+uuid+":"+c.token, func(ctx context.Context) (*models.Document, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Err: err}
		}
		return c.fetch(ctx, rawURL, http.Header{}, c.token)
	})
}

// ============================================================================
// Hero Art
// ============================================================================

// GetHeroArt resolves the cover art URL for a provider GUID. Hits are kept
// for the hero cache TTL; a missing image returns ErrNotFound and is not
// cached so a later fix upstream shows up without eviction.
func (c *Client) GetHeroArt(ctx context.Context, uuid string) (string, error) {
	if art, ok := c.hero.Get(uuid); ok {
		metrics.RecordCacheLookup(heroCacheName, true)
		return art, nil
	}
	metrics.RecordCacheLookup(heroCacheName, false)

	// Concurrent lookups of one GUID coalesce in the document loader, which
	// keeps the fetch alive while any caller is still waiting.
	doc, err := c.GetProviderData(ctx, uuid)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("guid", uuid).Msg("Hero art lookup failed")
		return "", err
	}
	art := coverArt(doc)
	if art == "" {
		return "", fmt.Errorf("%w: no cover art for %s", ErrNotFound, uuid)
	}
	c.hero.Add(uuid, art)
	metrics.CacheSize.WithLabelValues(heroCacheName).Set(float64(c.hero.Len()))
	return art, nil
}

// coverArt returns the first coverArt image found among the items.
func coverArt(doc *models.Document) string {
	for _, item := range doc.MediaContainer.Children() {
		if art := item.FirstImage(models.ImageTypeCoverArt); art != "" {
			return art
		}
	}
	return ""
}
