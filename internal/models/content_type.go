// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package models

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// ContentType is the wire format of a document. The zero value is XML.
type ContentType int

const (
	ContentTypeXML ContentType = iota
	ContentTypeJSON
)

// Response MIME types written on intercept responses.
const (
	MIMEJSON = "application/json"
	MIMEXML  = "text/xml;charset=utf-8"
)

// String returns "json" or "xml".
func (ct ContentType) String() string {
	if ct == ContentTypeJSON {
		return "json"
	}
	return "xml"
}

// MIME returns the Content-Type header value for the format.
func (ct ContentType) MIME() string {
	if ct == ContentTypeJSON {
		return MIMEJSON
	}
	return MIMEXML
}

// ParseContentType matches a header value by substring. ok is false when the
// value names neither format.
func ParseContentType(value string) (ct ContentType, ok bool) {
	switch {
	case strings.Contains(value, "application/json"):
		return ContentTypeJSON, true
	case strings.Contains(value, "text/xml"):
		return ContentTypeXML, true
	default:
		return ContentTypeXML, false
	}
}

// ContentTypeFromHeaders picks the format a client asked for. Content-Type
// wins over Accept; XML is the default.
func ContentTypeFromHeaders(h http.Header) ContentType {
	if ct, ok := ParseContentType(h.Get("Content-Type")); ok {
		return ct
	}
	if ct, ok := ParseContentType(h.Get("Accept")); ok {
		return ct
	}
	return ContentTypeXML
}

// ============================================================================
// Codec
// ============================================================================

// DecodeDocument parses data in the given format.
func DecodeDocument(data []byte, ct ContentType) (*Document, error) {
	doc := &Document{ContentType: ct}
	switch ct {
	case ContentTypeJSON:
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("decode json document: %w", err)
		}
	default:
		if err := xml.Unmarshal(data, &doc.MediaContainer); err != nil {
			return nil, fmt.Errorf("decode xml document: %w", err)
		}
	}
	return doc, nil
}

// Encode serialises the document in its ContentType. XML output carries
// the standard declaration.
func (d *Document) Encode() ([]byte, error) {
	if d.ContentType == ContentTypeJSON {
		data, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("encode json document: %w", err)
		}
		return data, nil
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(&d.MediaContainer); err != nil {
		return nil, fmt.Errorf("encode xml document: %w", err)
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy that shares no memory with d.
func (d *Document) Clone() (*Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("clone document: %w", err)
	}
	out := &Document{}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("clone document: %w", err)
	}
	out.ContentType = d.ContentType
	out.MediaContainer.slot = d.MediaContainer.ChildSlot()
	copySlots(out.MediaContainer.Children(), d.MediaContainer.Children())
	return out, nil
}

// copySlots carries the remembered slot of every node from src to dst, which
// the wire format drops for nodes whose children are empty.
func copySlots(dst, src []MetaData) {
	for i := range dst {
		if i >= len(src) {
			return
		}
		dst[i].slot = src[i].ChildSlot()
		copySlots(dst[i].Children(), src[i].Children())
	}
}

// NewDocument returns an empty document whose children default to slot.
func NewDocument(ct ContentType, slot ChildSlot) *Document {
	doc := &Document{ContentType: ct}
	doc.MediaContainer.slot = slot
	return doc
}
