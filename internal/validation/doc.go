// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

// Package validation validates API request structs with
// go-playground/validator v10.
//
// A single validator instance is built on first use (it caches struct
// metadata) with WithRequiredStructEnabled and four domain tags:
//
//	country       two ASCII letters, e.g. "US"
//	idlist        "8,9,337": comma-separated positive integers
//	csvcountries  "US,CA": comma-separated two-letter codes
//	cursor        unpadded base64url continuation token
//
// Failures come back as *RequestValidationError, whose messages and Details
// feed the VALIDATION_ERROR envelope written by the api package:
//
//	type FeedQuery struct {
//	    ProviderIDs string `validate:"omitempty,idlist"`
//	    Page        int    `validate:"min=1,max=500"`
//	}
//
//	if verr := validation.ValidateStruct(&q); verr != nil {
//	    rw.ValidationError(verr.Error(), verr.Details())
//	    return
//	}
package validation
