// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package transform

import (
	"context"

	"github.com/tomtom215/replex/internal/models"
)

// UserState hides per-user progress. With DisableUserState every item gets
// userState=0; with DisableLeafCount leafCount is removed. Hubs are not
// touched themselves, their children are.
type UserState struct{ Base }

func (UserState) Name() string { return "user_state" }

func (UserState) TransformMetadata(_ context.Context, env *Env, item *models.MetaData) error {
	if !env.Options.DisableUserState && !env.Options.DisableLeafCount {
		return nil
	}
	if !item.IsHub() {
		redactUserState(item, env.Options)
		return nil
	}
	children := item.Children()
	for i := range children {
		redactUserState(&children[i], env.Options)
	}
	return nil
}

func redactUserState(item *models.MetaData, opts Options) {
	if opts.DisableUserState {
		item.UserState = models.NewUserState(false)
	}
	if opts.DisableLeafCount {
		item.LeafCount = nil
	}
}
