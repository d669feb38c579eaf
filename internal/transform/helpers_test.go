// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package transform

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/replex/internal/models"
	"github.com/tomtom215/replex/internal/plex"
)

// fakeUpstream serves collections and sections from memory.
type fakeUpstream struct {
	mu       sync.Mutex
	labels   map[string][]string
	children map[string][]models.MetaData
	sections map[string][]string
	calls    map[string]int
	err      error
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		labels:   map[string][]string{},
		children: map[string][]models.MetaData{},
		sections: map[string][]string{},
		calls:    map[string]int{},
	}
}

func (f *fakeUpstream) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeUpstream) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeUpstream) GetCollection(_ context.Context, _ *models.ClientContext, id string) (*models.Document, error) {
	if err := f.record("collection:" + id); err != nil {
		return nil, err
	}
	tags, ok := f.labels[id]
	if !ok {
		return nil, fmt.Errorf("%w: collection %s", plex.ErrNotFound, id)
	}
	item := models.MetaData{RatingKey: id, Type: "collection"}
	for _, tag := range tags {
		item.Labels = append(item.Labels, models.Label{Tag: tag})
	}
	doc := models.NewDocument(models.ContentTypeJSON, models.SlotMetadata)
	doc.MediaContainer.SetChildren([]models.MetaData{item})
	return doc, nil
}

func (f *fakeUpstream) GetCollectionChildren(_ context.Context, _ *models.ClientContext, id string, offset, limit int) (*models.Document, error) {
	if err := f.record("children:" + id); err != nil {
		return nil, err
	}
	all, ok := f.children[id]
	if !ok {
		return nil, fmt.Errorf("%w: collection %s", plex.ErrNotFound, id)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	var page []models.MetaData
	if offset < len(all) {
		page = append(page, all[offset:end]...)
	}
	doc := models.NewDocument(models.ContentTypeJSON, models.SlotMetadata)
	doc.MediaContainer.SetChildren(page)
	doc.MediaContainer.Size = models.IntPtr(len(page))
	doc.MediaContainer.TotalSize = models.IntPtr(len(all))
	doc.MediaContainer.LibrarySectionID = models.NewFlexInt(6)
	return doc, nil
}

func (f *fakeUpstream) GetSectionCollections(_ context.Context, _ *models.ClientContext, sectionID string) (*models.Document, error) {
	if err := f.record("section:" + sectionID); err != nil {
		return nil, err
	}
	var items []models.MetaData
	for _, id := range f.sections[sectionID] {
		items = append(items, models.MetaData{RatingKey: id})
	}
	doc := models.NewDocument(models.ContentTypeJSON, models.SlotMetadata)
	doc.MediaContainer.SetChildren(items)
	return doc, nil
}

func testEnv(up Upstream, opts Options) *Env {
	return &Env{
		Client: &models.ClientContext{
			Token:    "tok",
			Platform: models.PlatformGeneric,
		},
		Upstream: up,
		Options:  opts,
	}
}

func movie(key string, viewCount int) models.MetaData {
	m := models.MetaData{
		RatingKey: key,
		Key:       "/library/metadata/" + key,
		GUID:      "plex://movie/" + key,
		Type:      "movie",
		Title:     "Movie " + key,
	}
	if viewCount > 0 {
		m.ViewCount = models.NewFlexInt(viewCount)
	}
	return m
}

func collectionHub(id, title string, children ...models.MetaData) models.MetaData {
	hub := models.MetaData{
		Key:           "/hubs/library/collections/" + id + "/children",
		HubIdentifier: "custom.collection.6." + id,
		Context:       "hub.custom.collection",
		Title:         title,
		Type:          "movie",
		Size:          models.IntPtr(len(children)),
	}
	hub.SetChildren(children)
	return hub
}

func hubListing(hubs ...models.MetaData) *models.Document {
	doc := models.NewDocument(models.ContentTypeJSON, models.SlotHub)
	doc.MediaContainer.SetChildren(hubs)
	doc.MediaContainer.Size = models.IntPtr(len(hubs))
	return doc
}

func ratingKeys(items []models.MetaData) []string {
	keys := make([]string, len(items))
	for i := range items {
		keys[i] = items[i].RatingKey
	}
	return keys
}
