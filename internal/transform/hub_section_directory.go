// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package transform

import (
	"context"

	"github.com/tomtom215/replex/internal/models"
)

// HubSectionDirectory moves collection hub children listed as Directory
// into Video so clients treat them as playable items.
type HubSectionDirectory struct{ Base }

func (HubSectionDirectory) Name() string { return "hub_section_directory" }

func (HubSectionDirectory) TransformMetadata(_ context.Context, _ *Env, hub *models.MetaData) error {
	if hub.IsCollectionHub() && len(hub.Directory) > 0 {
		hub.MoveChildren(models.SlotVideo)
	}
	return nil
}
