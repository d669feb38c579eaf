// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package transform

import (
	"net/url"
	"strings"

	"github.com/tomtom215/replex/internal/models"
)

// HeroImagePath is the proxy route serving hero cover art.
const HeroImagePath = "/replex/image/hero/"

const (
	styleHero      = "hero"
	episodePrefix  = "plex://episode"
	plexGUIDPrefix = "plex://"
)

// DeviceStyle is how one client family renders a hero hub. Empty fields
// leave the corresponding value alone.
type DeviceStyle struct {
	Style           string
	HubType         string
	ChildType       string
	CoverArtAsThumb bool
	CoverArtAsArt   bool
}

// StyleFor returns the hero presentation for the calling device.
func StyleFor(cc *models.ClientContext) DeviceStyle {
	switch cc.Platform {
	case models.PlatformAndroid:
		if cc.IsTVProduct() {
			return DeviceStyle{Style: styleHero, HubType: "clip", ChildType: "clip", CoverArtAsThumb: true, CoverArtAsArt: true}
		}
		return DeviceStyle{HubType: "clip", ChildType: "clip", CoverArtAsArt: true}
	case models.PlatformRoku:
		return DeviceStyle{Style: styleHero, HubType: "mixed", CoverArtAsThumb: true}
	case models.PlatformIOS, models.PlatformTvOS:
		return DeviceStyle{Style: styleHero, HubType: "mixed", CoverArtAsArt: true}
	default:
		return DeviceStyle{Style: styleHero, HubType: "mixed", CoverArtAsThumb: true}
	}
}

// applyHubStyle turns a hub into a hero hub for the device.
func applyHubStyle(hub *models.MetaData, ds DeviceStyle, token string) {
	if ds.Style != "" {
		hub.Style = ds.Style
	}
	if ds.HubType != "" {
		hub.Type = ds.HubType
	}
	hub.Meta = models.HeroMeta()

	children := hub.Children()
	for i := range children {
		applyItemStyle(&children[i], ds, token)
	}
}

// applyItemStyle points an item's artwork at the hero image route.
func applyItemStyle(item *models.MetaData, ds DeviceStyle, token string) {
	if ds.ChildType != "" {
		item.Type = ds.ChildType
	}

	coverURL := HeroImageURL(item, token)
	if coverURL == "" {
		return
	}
	item.Images = []models.Image{{Type: models.ImageTypeCoverArt, URL: coverURL, Alt: item.Title}}
	if ds.CoverArtAsArt {
		item.Art = coverURL
	}
	if ds.CoverArtAsThumb {
		item.Thumb = coverURL
	}
}

// HeroImageURL returns the proxy URL of an item's cover art. Episodes use
// their show's artwork. Only plex://<type>/<id> GUIDs have provider art;
// anything else returns "" and the item keeps its own images.
func HeroImageURL(item *models.MetaData, token string) string {
	guid := item.GUID
	if strings.HasPrefix(guid, episodePrefix) {
		guid = item.ParentGUID
	}
	rest, ok := strings.CutPrefix(guid, plexGUIDPrefix)
	if !ok {
		return ""
	}
	kind, id, ok := strings.Cut(rest, "/")
	if !ok || kind == "" || id == "" || strings.Contains(id, "/") {
		return ""
	}
	return HeroImagePath + rest + "?" + models.HeaderToken + "=" + url.QueryEscape(token)
}
