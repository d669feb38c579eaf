// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

/*
Package models defines the Plex media document and the per-request client context.

Key Components:

  - Document / MediaContainer / MetaData: the polymorphic media tree shared by hubs,
    collections, movies, shows, episodes and directories
  - ContentType: JSON or XML, detected from request headers and carried with a document
  - Scalar wire types: FlexInt, StringInt, PlexBool, UserState accept every spelling
    Plex uses and emit one canonical spelling per format
  - ClientContext: token, client identity, platform and paging window parsed from
    headers and query string

Children Slots:

A node stores its children in exactly one of Metadata, Directory or Video (plus Hub
on the container). Children and SetChildren hide the slot, and SetChildren writes back
to the slot the children were read from so XML element names survive a round trip.

Thread Safety:

Documents are not safe for concurrent mutation. Callers that share a document across
requests must hand out copies made with Document.Clone.
*/
package models
