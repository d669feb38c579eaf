// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package models

// ChildSlot names the element a node's children are stored under.
type ChildSlot int

const (
	// SlotNone means no slot has been observed yet.
	SlotNone ChildSlot = iota
	SlotMetadata
	SlotDirectory
	SlotVideo
	// SlotHub is only valid on a MediaContainer.
	SlotHub
)

// String returns the wire element name for the slot.
func (s ChildSlot) String() string {
	switch s {
	case SlotMetadata:
		return "Metadata"
	case SlotDirectory:
		return "Directory"
	case SlotVideo:
		return "Video"
	case SlotHub:
		return "Hub"
	default:
		return "None"
	}
}

// ============================================================================
// MetaData children
// ============================================================================

// ChildSlot reports the populated slot. When every slot is empty it returns
// the slot last written by SetChildren, falling back to SlotMetadata.
func (m *MetaData) ChildSlot() ChildSlot {
	switch {
	case len(m.Metadata) > 0:
		return SlotMetadata
	case len(m.Directory) > 0:
		return SlotDirectory
	case len(m.Video) > 0:
		return SlotVideo
	case m.slot != SlotNone:
		return m.slot
	default:
		return SlotMetadata
	}
}

// Children returns the children from whichever slot is populated.
func (m *MetaData) Children() []MetaData {
	switch m.ChildSlot() {
	case SlotDirectory:
		return m.Directory
	case SlotVideo:
		return m.Video
	default:
		return m.Metadata
	}
}

// SetChildren replaces the children, writing back to the slot they were
// read from so the XML element name survives the round trip.
func (m *MetaData) SetChildren(children []MetaData) {
	m.setChildrenIn(m.ChildSlot(), children)
}

// MoveChildren relocates the current children into slot.
func (m *MetaData) MoveChildren(slot ChildSlot) {
	m.setChildrenIn(slot, m.Children())
}

func (m *MetaData) setChildrenIn(slot ChildSlot, children []MetaData) {
	m.Metadata, m.Directory, m.Video = nil, nil, nil
	switch slot {
	case SlotDirectory:
		m.Directory = children
	case SlotVideo:
		m.Video = children
	default:
		slot = SlotMetadata
		m.Metadata = children
	}
	m.slot = slot
}

// ============================================================================
// MediaContainer children
// ============================================================================

// ChildSlot reports the populated slot of the container, including Hub.
func (c *MediaContainer) ChildSlot() ChildSlot {
	switch {
	case len(c.Hub) > 0:
		return SlotHub
	case len(c.Metadata) > 0:
		return SlotMetadata
	case len(c.Directory) > 0:
		return SlotDirectory
	case len(c.Video) > 0:
		return SlotVideo
	case c.slot != SlotNone:
		return c.slot
	default:
		return SlotMetadata
	}
}

// Children returns the container's children from whichever slot is populated.
func (c *MediaContainer) Children() []MetaData {
	switch c.ChildSlot() {
	case SlotHub:
		return c.Hub
	case SlotDirectory:
		return c.Directory
	case SlotVideo:
		return c.Video
	default:
		return c.Metadata
	}
}

// SetChildren replaces the container's children in their current slot.
func (c *MediaContainer) SetChildren(children []MetaData) {
	c.SetChildrenIn(c.ChildSlot(), children)
}

// SetChildrenIn clears every slot and stores children in slot.
func (c *MediaContainer) SetChildrenIn(slot ChildSlot, children []MetaData) {
	c.Hub, c.Metadata, c.Directory, c.Video = nil, nil, nil, nil
	switch slot {
	case SlotHub:
		c.Hub = children
	case SlotDirectory:
		c.Directory = children
	case SlotVideo:
		c.Video = children
	default:
		slot = SlotMetadata
		c.Metadata = children
	}
	c.slot = slot
}

// IsHubListing reports whether the container holds hubs.
func (c *MediaContainer) IsHubListing() bool {
	return c.ChildSlot() == SlotHub
}
