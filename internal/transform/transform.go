// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package transform

import (
	"context"

	"github.com/tomtom215/replex/internal/models"
)

// Upstream is the part of the Plex client that transforms call back into.
// *plex.Client satisfies it.
type Upstream interface {
	GetCollection(ctx context.Context, cc *models.ClientContext, id string) (*models.Document, error)
	GetCollectionChildren(ctx context.Context, cc *models.ClientContext, id string, offset, limit int) (*models.Document, error)
	GetSectionCollections(ctx context.Context, cc *models.ClientContext, sectionID string) (*models.Document, error)
}

// Options are the hub behaviour switches read from configuration.
type Options struct {
	IncludeWatched   bool
	Interleave       bool
	DisableUserState bool
	DisableLeafCount bool
	HubRestrictions  bool
	// CustomSorting lists hub rating keys, collection ids or hub
	// identifiers in the order they should appear.
	CustomSorting []string
}

// Env is what every hook of one pipeline run can see.
type Env struct {
	Client   *models.ClientContext
	Upstream Upstream
	Options  Options
}

// Transform is one step of a pipeline. For each transform the pipeline
// calls FilterMetadata and TransformMetadata on every direct child of the
// container, drops the children the filter rejected, then calls
// FilterMediaContainer and, if it returned true, TransformMediaContainer.
//
// Child hooks may run concurrently for different children and must only
// touch the child they are given.
type Transform interface {
	Name() string
	FilterMetadata(ctx context.Context, env *Env, item *models.MetaData) bool
	TransformMetadata(ctx context.Context, env *Env, item *models.MetaData) error
	FilterMediaContainer(ctx context.Context, env *Env, c *models.MediaContainer) bool
	TransformMediaContainer(ctx context.Context, env *Env, c *models.MediaContainer) error
}

// Base provides no-op hooks. Embed it and override what is needed.
type Base struct{}

func (Base) FilterMetadata(context.Context, *Env, *models.MetaData) bool { return true }

func (Base) TransformMetadata(context.Context, *Env, *models.MetaData) error { return nil }

func (Base) FilterMediaContainer(context.Context, *Env, *models.MediaContainer) bool { return true }

func (Base) TransformMediaContainer(context.Context, *Env, *models.MediaContainer) error {
	return nil
}

// containerOnly is implemented by transforms that only act on the
// container. The pipeline skips the per-child fan-out for them.
type containerOnly interface {
	containerOnly()
}

// ContainerOnly marks a transform as having no child hooks.
type ContainerOnly struct{ Base }

func (ContainerOnly) containerOnly() {}
