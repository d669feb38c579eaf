// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package models

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// Scalar wire types.
// Plex is inconsistent about numbers and booleans: the same attribute arrives
// as 1, "1" or true depending on endpoint and format. These types accept every
// spelling on decode and emit one canonical spelling per format on encode.

// decodeLoose decodes a JSON scalar into an interface value for cast.
func decodeLoose(data []byte) (interface{}, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// ============================================================================
// FlexInt
// ============================================================================

// FlexInt is an integer that decodes from a JSON number or a numeric string
// and encodes as a number.
type FlexInt int

// NewFlexInt returns a pointer to a FlexInt holding v.
func NewFlexInt(v int) *FlexInt {
	f := FlexInt(v)
	return &f
}

// Int returns the value, or 0 for a nil receiver.
func (f *FlexInt) Int() int {
	if f == nil {
		return 0
	}
	return int(*f)
}

// String returns the decimal form, or "" for a nil receiver.
func (f *FlexInt) String() string {
	if f == nil {
		return ""
	}
	return strconv.Itoa(int(*f))
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	v, err := decodeLoose(data)
	if err != nil {
		return err
	}
	if v == nil {
		*f = 0
		return nil
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return fmt.Errorf("flexint: %w", err)
	}
	*f = FlexInt(i)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(f))), nil
}

// UnmarshalXMLAttr implements xml.UnmarshalerAttr.
func (f *FlexInt) UnmarshalXMLAttr(attr xml.Attr) error {
	i, err := cast.ToIntE(attr.Value)
	if err != nil {
		return fmt.Errorf("flexint %s: %w", attr.Name.Local, err)
	}
	*f = FlexInt(i)
	return nil
}

// MarshalXMLAttr implements xml.MarshalerAttr.
func (f FlexInt) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	return xml.Attr{Name: name, Value: strconv.Itoa(int(f))}, nil
}

// ============================================================================
// StringInt
// ============================================================================

// StringInt is an integer that decodes from a number or a string and always
// encodes as a JSON string. Plex clients expect childCount in that form.
type StringInt int

// NewStringInt returns a pointer to a StringInt holding v.
func NewStringInt(v int) *StringInt {
	s := StringInt(v)
	return &s
}

// Int returns the value, or 0 for a nil receiver.
func (s *StringInt) Int() int {
	if s == nil {
		return 0
	}
	return int(*s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringInt) UnmarshalJSON(data []byte) error {
	v, err := decodeLoose(data)
	if err != nil {
		return err
	}
	if v == nil {
		*s = 0
		return nil
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return fmt.Errorf("stringint: %w", err)
	}
	*s = StringInt(i)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s StringInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.Itoa(int(s)))), nil
}

// UnmarshalXMLAttr implements xml.UnmarshalerAttr.
func (s *StringInt) UnmarshalXMLAttr(attr xml.Attr) error {
	i, err := cast.ToIntE(attr.Value)
	if err != nil {
		return fmt.Errorf("stringint %s: %w", attr.Name.Local, err)
	}
	*s = StringInt(i)
	return nil
}

// MarshalXMLAttr implements xml.MarshalerAttr.
func (s StringInt) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	return xml.Attr{Name: name, Value: strconv.Itoa(int(s))}, nil
}

// ============================================================================
// PlexBool
// ============================================================================

// PlexBool is a boolean that encodes as true/false in JSON and 1/0 in XML.
type PlexBool bool

// NewPlexBool returns a pointer to a PlexBool holding v.
func NewPlexBool(v bool) *PlexBool {
	b := PlexBool(v)
	return &b
}

// Bool returns the value, or false for a nil receiver.
func (b *PlexBool) Bool() bool {
	return b != nil && bool(*b)
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *PlexBool) UnmarshalJSON(data []byte) error {
	v, err := decodeLoose(data)
	if err != nil {
		return err
	}
	if v == nil {
		*b = false
		return nil
	}
	parsed, err := cast.ToBoolE(v)
	if err != nil {
		return fmt.Errorf("plexbool: %w", err)
	}
	*b = PlexBool(parsed)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (b PlexBool) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatBool(bool(b))), nil
}

// UnmarshalXMLAttr implements xml.UnmarshalerAttr.
func (b *PlexBool) UnmarshalXMLAttr(attr xml.Attr) error {
	parsed, err := cast.ToBoolE(attr.Value)
	if err != nil {
		return fmt.Errorf("plexbool %s: %w", attr.Name.Local, err)
	}
	*b = PlexBool(parsed)
	return nil
}

// MarshalXMLAttr implements xml.MarshalerAttr.
func (b PlexBool) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	return xml.Attr{Name: name, Value: boolDigit(bool(b))}, nil
}

// ============================================================================
// UserState
// ============================================================================

// UserState is the tri-valued per-user state flag. A nil *UserState is
// absent; present values encode as the integer 0 or 1 in both formats.
type UserState bool

// NewUserState returns a pointer to a UserState holding v.
func NewUserState(v bool) *UserState {
	u := UserState(v)
	return &u
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *UserState) UnmarshalJSON(data []byte) error {
	v, err := decodeLoose(data)
	if err != nil {
		return err
	}
	if v == nil {
		*u = false
		return nil
	}
	parsed, err := cast.ToBoolE(v)
	if err != nil {
		return fmt.Errorf("userstate: %w", err)
	}
	*u = UserState(parsed)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (u UserState) MarshalJSON() ([]byte, error) {
	return []byte(boolDigit(bool(u))), nil
}

// UnmarshalXMLAttr implements xml.UnmarshalerAttr.
func (u *UserState) UnmarshalXMLAttr(attr xml.Attr) error {
	parsed, err := cast.ToBoolE(attr.Value)
	if err != nil {
		return fmt.Errorf("userstate: %w", err)
	}
	*u = UserState(parsed)
	return nil
}

// MarshalXMLAttr implements xml.MarshalerAttr.
func (u UserState) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	return xml.Attr{Name: name, Value: boolDigit(bool(u))}, nil
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
