// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package models

// ImageTypeCoverArt is the image kind hero hubs display.
const ImageTypeCoverArt = "coverArt"

// HeroMeta returns a fresh copy of the presentation hint attached to
// hero-styled hubs.
func HeroMeta() *Meta {
	dateFields := []string{"title", "originallyAvailableAt"}
	return &Meta{
		DisplayFields: []DisplayField{
			{Type: "movie", Fields: append([]string(nil), dateFields...)},
			{Type: "show", Fields: []string{"title", "childCount"}},
			{Type: "clip", Fields: append([]string(nil), dateFields...)},
			{Type: "mixed", Fields: append([]string(nil), dateFields...)},
		},
		DisplayImages: []DisplayImage{
			{Type: "movie", ImageType: ImageTypeCoverArt},
			{Type: "show", ImageType: ImageTypeCoverArt},
			{Type: "clip", ImageType: ImageTypeCoverArt},
			{Type: "mixed", ImageType: ImageTypeCoverArt},
			{Type: "episode", ImageType: ImageTypeCoverArt},
			{Type: "season", ImageType: ImageTypeCoverArt},
		},
	}
}

// FirstImage returns the URL of the first image of the given type, or "".
func (m *MetaData) FirstImage(imageType string) string {
	for i := range m.Images {
		if m.Images[i].Type == imageType {
			return m.Images[i].URL
		}
	}
	return ""
}
