// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package transform

// Route names used to label pipelines in metrics.
const (
	RoutePromotedHubs       = "promoted_hubs"
	RouteSectionHubs        = "section_hubs"
	RouteCollectionChildren = "collection_children"
)

// PromotedHubs builds the pipeline for /hubs/promoted.
func PromotedHubs(env *Env) *Pipeline {
	return New(RoutePromotedHubs, env, withReorder(env,
		HubStyle{},
		HubMerge{},
		UserState{},
		HubKey{},
	)...)
}

// SectionHubs builds the pipeline for /hubs/sections/<id>. limit is the hub
// size the client asked for before it was doubled, or zero.
func SectionHubs(env *Env, sectionID string, limit int) *Pipeline {
	return New(RouteSectionHubs, env, withReorder(env,
		HubSectionDirectory{},
		HubStyle{},
		UserState{},
		HubKey{},
		HubRestriction{SectionID: sectionID},
		WatchedFilter{Limit: limit},
	)...)
}

// CollectionChildren builds the pipeline for the mixed collections listing.
func CollectionChildren(env *Env, ids []string, offset, limit int) *Pipeline {
	return New(RouteCollectionChildren, env,
		LibraryMix{IDs: ids, Offset: offset, Limit: limit},
		CollectionStyle{IDs: ids},
		UserState{},
	)
}

func withReorder(env *Env, ts ...Transform) []Transform {
	if len(env.Options.CustomSorting) > 0 {
		ts = append(ts, HubReorder{})
	}
	return ts
}
