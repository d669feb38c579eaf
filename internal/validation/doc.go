// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is created on first use and shared; it caches
// struct metadata and is safe for concurrent use. Failures are returned as a
// *RequestValidationError holding one ValidationError per failed field, each
// with a human-readable message.
//
// Two callers use it: the configuration loader validates Config struct tags,
// and the API validates the route parameters of the mixed collection
// endpoint before any upstream call is made.
//
// # Custom Tags
//
//   - ratingkeys: a comma-separated list of numeric Plex rating keys ("12" or "12,34")
//
// # Example
//
//	type childrenRequest struct {
//	    IDs    string `validate:"ratingkeys"`
//	    Offset int    `validate:"min=0"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    for _, fe := range verr.Errors() {
//	        log.Printf("%s: %s", fe.Field(), fe.Error())
//	    }
//	}
package validation
