// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package models

import "encoding/xml"

// Plex media document model.
// One schema serves hubs, collections, movies, shows, episodes and directories.
// Every field carries both an XML attribute tag and a camelCase JSON tag so the
// same value round-trips through either wire format.

// ============================================================================
// Document Root
// ============================================================================

// Document is the JSON envelope around a MediaContainer. ContentType records
// the format the document was decoded from or should be encoded to.
type Document struct {
	MediaContainer MediaContainer `json:"MediaContainer"`
	ContentType    ContentType    `json:"-"`
}

// MediaContainer is the root element of every Plex document.
// At most one of Hub, Metadata, Directory and Video is non-empty.
type MediaContainer struct {
	XMLName xml.Name `xml:"MediaContainer" json:"-"`

	Size                *int      `xml:"size,attr,omitempty" json:"size,omitempty"`
	TotalSize           *int      `xml:"totalSize,attr,omitempty" json:"totalSize,omitempty"`
	Offset              *int      `xml:"offset,attr,omitempty" json:"offset,omitempty"`
	AllowSync           *PlexBool `xml:"allowSync,attr,omitempty" json:"allowSync,omitempty"`
	Identifier          string    `xml:"identifier,attr,omitempty" json:"identifier,omitempty"`
	LibrarySectionID    *FlexInt  `xml:"librarySectionID,attr,omitempty" json:"librarySectionID,omitempty"`
	LibrarySectionTitle string    `xml:"librarySectionTitle,attr,omitempty" json:"librarySectionTitle,omitempty"`
	LibrarySectionUUID  string    `xml:"librarySectionUUID,attr,omitempty" json:"librarySectionUUID,omitempty"`
	MediaTagPrefix      string    `xml:"mediaTagPrefix,attr,omitempty" json:"mediaTagPrefix,omitempty"`
	MediaTagVersion     *FlexInt  `xml:"mediaTagVersion,attr,omitempty" json:"mediaTagVersion,omitempty"`
	Title1              string    `xml:"title1,attr,omitempty" json:"title1,omitempty"`
	Title2              string    `xml:"title2,attr,omitempty" json:"title2,omitempty"`
	ViewGroup           string    `xml:"viewGroup,attr,omitempty" json:"viewGroup,omitempty"`
	Art                 string    `xml:"art,attr,omitempty" json:"art,omitempty"`
	Thumb               string    `xml:"thumb,attr,omitempty" json:"thumb,omitempty"`

	Hub       []MetaData `xml:"Hub,omitempty" json:"Hub,omitempty"`
	Metadata  []MetaData `xml:"Metadata,omitempty" json:"Metadata,omitempty"`
	Directory []MetaData `xml:"Directory,omitempty" json:"Directory,omitempty"`
	Video     []MetaData `xml:"Video,omitempty" json:"Video,omitempty"`

	// slot remembers where children were written once every slot is empty.
	slot ChildSlot
}

// ============================================================================
// Metadata Node
// ============================================================================

// MetaData is a single node in the media tree: a hub, a collection, a movie,
// a show, an episode or a directory. At most one of Metadata, Directory and
// Video is non-empty.
type MetaData struct {
	// Identity
	RatingKey            string `xml:"ratingKey,attr,omitempty" json:"ratingKey,omitempty"`
	Key                  string `xml:"key,attr,omitempty" json:"key,omitempty"`
	GUID                 string `xml:"guid,attr,omitempty" json:"guid,omitempty"`
	ParentGUID           string `xml:"parentGuid,attr,omitempty" json:"parentGuid,omitempty"`
	ParentRatingKey      string `xml:"parentRatingKey,attr,omitempty" json:"parentRatingKey,omitempty"`
	ParentKey            string `xml:"parentKey,attr,omitempty" json:"parentKey,omitempty"`
	GrandparentGUID      string `xml:"grandparentGuid,attr,omitempty" json:"grandparentGuid,omitempty"`
	GrandparentRatingKey string `xml:"grandparentRatingKey,attr,omitempty" json:"grandparentRatingKey,omitempty"`
	GrandparentKey       string `xml:"grandparentKey,attr,omitempty" json:"grandparentKey,omitempty"`

	// Descriptive
	Type                  string  `xml:"type,attr,omitempty" json:"type,omitempty"`
	Subtype               string  `xml:"subtype,attr,omitempty" json:"subtype,omitempty"`
	Title                 string  `xml:"title,attr,omitempty" json:"title,omitempty"`
	TitleSort             string  `xml:"titleSort,attr,omitempty" json:"titleSort,omitempty"`
	OriginalTitle         string  `xml:"originalTitle,attr,omitempty" json:"originalTitle,omitempty"`
	ParentTitle           string  `xml:"parentTitle,attr,omitempty" json:"parentTitle,omitempty"`
	GrandparentTitle      string  `xml:"grandparentTitle,attr,omitempty" json:"grandparentTitle,omitempty"`
	Summary               string  `xml:"summary,attr,omitempty" json:"summary,omitempty"`
	Tagline               string  `xml:"tagline,attr,omitempty" json:"tagline,omitempty"`
	Studio                string  `xml:"studio,attr,omitempty" json:"studio,omitempty"`
	ContentRating         string  `xml:"contentRating,attr,omitempty" json:"contentRating,omitempty"`
	Year                  int     `xml:"year,attr,omitempty" json:"year,omitempty"`
	OriginallyAvailableAt string  `xml:"originallyAvailableAt,attr,omitempty" json:"originallyAvailableAt,omitempty"`
	Index                 int     `xml:"index,attr,omitempty" json:"index,omitempty"`
	ParentIndex           int     `xml:"parentIndex,attr,omitempty" json:"parentIndex,omitempty"`
	Rating                float64 `xml:"rating,attr,omitempty" json:"rating,omitempty"`
	AudienceRating        float64 `xml:"audienceRating,attr,omitempty" json:"audienceRating,omitempty"`
	Duration              int64   `xml:"duration,attr,omitempty" json:"duration,omitempty"`
	ViewOffset            int64   `xml:"viewOffset,attr,omitempty" json:"viewOffset,omitempty"`
	LastViewedAt          int64   `xml:"lastViewedAt,attr,omitempty" json:"lastViewedAt,omitempty"`
	AddedAt               int64   `xml:"addedAt,attr,omitempty" json:"addedAt,omitempty"`
	UpdatedAt             int64   `xml:"updatedAt,attr,omitempty" json:"updatedAt,omitempty"`

	// Artwork
	Thumb            string `xml:"thumb,attr,omitempty" json:"thumb,omitempty"`
	Art              string `xml:"art,attr,omitempty" json:"art,omitempty"`
	Banner           string `xml:"banner,attr,omitempty" json:"banner,omitempty"`
	Theme            string `xml:"theme,attr,omitempty" json:"theme,omitempty"`
	Composite        string `xml:"composite,attr,omitempty" json:"composite,omitempty"`
	Icon             string `xml:"icon,attr,omitempty" json:"icon,omitempty"`
	ParentThumb      string `xml:"parentThumb,attr,omitempty" json:"parentThumb,omitempty"`
	GrandparentThumb string `xml:"grandparentThumb,attr,omitempty" json:"grandparentThumb,omitempty"`
	GrandparentArt   string `xml:"grandparentArt,attr,omitempty" json:"grandparentArt,omitempty"`

	// Library section
	LibrarySectionID    *FlexInt `xml:"librarySectionID,attr,omitempty" json:"librarySectionID,omitempty"`
	LibrarySectionTitle string   `xml:"librarySectionTitle,attr,omitempty" json:"librarySectionTitle,omitempty"`
	LibrarySectionKey   string   `xml:"librarySectionKey,attr,omitempty" json:"librarySectionKey,omitempty"`

	// Hub presentation
	HubIdentifier string    `xml:"hubIdentifier,attr,omitempty" json:"hubIdentifier,omitempty"`
	HubKey        string    `xml:"hubKey,attr,omitempty" json:"hubKey,omitempty"`
	Context       string    `xml:"context,attr,omitempty" json:"context,omitempty"`
	Style         string    `xml:"style,attr,omitempty" json:"style,omitempty"`
	Size          *int      `xml:"size,attr,omitempty" json:"size,omitempty"`
	More          *PlexBool `xml:"more,attr,omitempty" json:"more,omitempty"`
	Promoted      *PlexBool `xml:"promoted,attr,omitempty" json:"promoted,omitempty"`

	// Counters
	ChildCount      *StringInt `xml:"childCount,attr,omitempty" json:"childCount,omitempty"`
	LeafCount       *FlexInt   `xml:"leafCount,attr,omitempty" json:"leafCount,omitempty"`
	ViewedLeafCount *FlexInt   `xml:"viewedLeafCount,attr,omitempty" json:"viewedLeafCount,omitempty"`
	ViewCount       *FlexInt   `xml:"viewCount,attr,omitempty" json:"viewCount,omitempty"`
	UserState       *UserState `xml:"userState,attr,omitempty" json:"userState,omitempty"`

	// Tags and presentation hints
	Labels []Label   `xml:"Label,omitempty" json:"Label,omitempty"`
	Genres []Tag     `xml:"Genre,omitempty" json:"Genre,omitempty"`
	GUIDs  []GUIDTag `xml:"Guid,omitempty" json:"Guid,omitempty"`
	Images []Image   `xml:"Image,omitempty" json:"Image,omitempty"`
	Meta   *Meta     `xml:"Meta,omitempty" json:"Meta,omitempty"`

	// Children
	Metadata  []MetaData `xml:"Metadata,omitempty" json:"Metadata,omitempty"`
	Directory []MetaData `xml:"Directory,omitempty" json:"Directory,omitempty"`
	Video     []MetaData `xml:"Video,omitempty" json:"Video,omitempty"`

	slot ChildSlot
}

// ============================================================================
// Tags, Images and Presentation Hints
// ============================================================================

// Label is a user-defined tag on a collection or item (e.g. REPLEXHERO).
type Label struct {
	ID     *FlexInt `xml:"id,attr,omitempty" json:"id,omitempty"`
	Tag    string   `xml:"tag,attr" json:"tag"`
	Filter string   `xml:"filter,attr,omitempty" json:"filter,omitempty"`
}

// Tag is a plain tag element such as Genre.
type Tag struct {
	ID  *FlexInt `xml:"id,attr,omitempty" json:"id,omitempty"`
	Tag string   `xml:"tag,attr" json:"tag"`
}

// GUIDTag is an external identifier such as imdb://tt0000000.
// The field exists so the "Guid" array never falls back onto the "guid" string.
type GUIDTag struct {
	ID string `xml:"id,attr" json:"id"`
}

// Image is an artwork reference. Type is one of coverArt, background, snapshot, clearLogo.
type Image struct {
	Type string `xml:"type,attr" json:"type"`
	URL  string `xml:"url,attr" json:"url"`
	Alt  string `xml:"alt,attr,omitempty" json:"alt,omitempty"`
}

// Meta is the presentation hint a client uses to lay out a hub.
type Meta struct {
	Type          string         `xml:"type,attr,omitempty" json:"type,omitempty"`
	DisplayFields []DisplayField `xml:"DisplayFields,omitempty" json:"DisplayFields,omitempty"`
	DisplayImages []DisplayImage `xml:"DisplayImage,omitempty" json:"DisplayImage,omitempty"`
}

// DisplayField lists the fields shown under an item of the given type.
type DisplayField struct {
	Type   string   `xml:"type,attr" json:"type"`
	Fields []string `xml:"Field" json:"fields"`
}

// DisplayImage selects which image kind is shown for an item of the given type.
type DisplayImage struct {
	Type      string `xml:"type,attr" json:"type"`
	ImageType string `xml:"imageType,attr" json:"imageType"`
}
