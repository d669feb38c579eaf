// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package models

import "strings"

// Well-known collection labels.
const (
	// LabelHero marks a collection whose hubs render in hero style.
	LabelHero = "REPLEXHERO"
	// LabelExcludeWatched marks a collection whose watched items are hidden.
	LabelExcludeWatched = "REPLEX_EXCLUDE_WATCHED"
)

const (
	collectionHubContext = "hub.custom.collection"
	collectionPathMarker = "/library/collections/"
)

// IsHub reports whether the node is a hub row.
func (m *MetaData) IsHub() bool {
	return m.HubIdentifier != ""
}

// IsCollectionHub reports whether the node is a hub backed by a user collection.
func (m *MetaData) IsCollectionHub() bool {
	return m.IsHub() && strings.HasPrefix(m.Context, collectionHubContext)
}

// IsMedia reports whether the node is a movie or show outside a hub.
func (m *MetaData) IsMedia() bool {
	return !m.IsHub() && (m.Type == "movie" || m.Type == "show")
}

// IsWatched reports whether the item or any of its leaves has been viewed.
func (m *MetaData) IsWatched() bool {
	return m.ViewCount.Int() > 0 || m.ViewedLeafCount.Int() > 0
}

// HasLabel reports whether any label carries tag exactly.
func (m *MetaData) HasLabel(tag string) bool {
	for i := range m.Labels {
		if m.Labels[i].Tag == tag {
			return true
		}
	}
	return false
}

// CollectionID returns the collection id embedded in the node's key, or ""
// when the key does not reference a collection. Merged keys yield the
// comma-joined id list (e.g. "3,2").
func (m *MetaData) CollectionID() string {
	return CollectionIDFromKey(m.Key)
}

// CollectionIDFromKey extracts the segment after /library/collections/ up to
// the next "/" or "?".
func CollectionIDFromKey(key string) string {
	idx := strings.Index(key, collectionPathMarker)
	if idx < 0 {
		return ""
	}
	rest := key[idx+len(collectionPathMarker):]
	if end := strings.IndexAny(rest, "/?"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

// SplitIDs splits a comma-joined id list, dropping empty entries.
func SplitIDs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
