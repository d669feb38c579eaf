// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

/*
Package transform rewrites Plex discovery documents on their way back to the
client.

A Pipeline is a flat list of Transform values. For each transform in order,
the pipeline runs the child hooks over every direct child of the container
(hubs for a hub listing, items otherwise), removes the children the filter
rejected, and then runs the container hooks. Child hooks of one transform
run concurrently, at most eight at a time, and results keep their original
position. When the pipeline finishes every size attribute that is present
matches the number of children beside it.

Transforms:

  - HubStyle, CollectionStyle: hero presentation for REPLEXHERO collections,
    chosen per device by StyleFor, with artwork pointed at /replex/image/hero.
  - HubMerge: folds same-titled collection hubs into an interleaved hub.
  - HubKey: prefixes hub keys with /replex/<style>.
  - LibraryMix: the /replex/library/collections/<ids>/children listing.
  - WatchedFilter: hides watched items in collection hubs.
  - UserState: hides userState and leafCount.
  - HubReorder: CUSTOM_SORTING order.
  - HubSectionDirectory: Directory children to Video.
  - HubRestriction: drops hubs of collections the caller cannot see.

Supporting lookups go through the Upstream interface, implemented by the
cached Plex client. A lookup that finds nothing means the transform does not
apply; cancellation and deadlines abort the pipeline.
*/
package transform
