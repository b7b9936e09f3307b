// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same instance")
	}
}

type testQuery struct {
	ProviderIDs string `validate:"omitempty,idlist"`
	Countries   string `validate:"omitempty,csvcountries"`
	Country     string `validate:"omitempty,country"`
	MediaKind   string `validate:"omitempty,oneof=movie series mixed"`
	Page        int    `validate:"min=1,max=500"`
	Query       string `validate:"required,max=200"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input testQuery
	}{
		{"minimal", testQuery{Page: 1, Query: "x"}},
		{"provider list with spaces", testQuery{ProviderIDs: "8, 9,337", Page: 1, Query: "x"}},
		{"trailing comma", testQuery{ProviderIDs: "8,", Countries: "US,", Page: 1, Query: "x"}},
		{"lowercase country", testQuery{Country: "de", Countries: "us,ca", Page: 500, Query: "x"}},
		{"media kind", testQuery{MediaKind: "series", Page: 2, Query: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	valid := testQuery{Page: 1, Query: "x"}

	tests := []struct {
		name      string
		mutate    func(q *testQuery)
		wantField string
		wantTag   string
	}{
		{"non-numeric provider", func(q *testQuery) { q.ProviderIDs = "8,netflix" }, "ProviderIDs", "idlist"},
		{"zero provider", func(q *testQuery) { q.ProviderIDs = "0" }, "ProviderIDs", "idlist"},
		{"three-letter country", func(q *testQuery) { q.Country = "USA" }, "Country", "country"},
		{"bad country list", func(q *testQuery) { q.Countries = "US,C4" }, "Countries", "csvcountries"},
		{"unknown media kind", func(q *testQuery) { q.MediaKind = "anime" }, "MediaKind", "oneof"},
		{"page too low", func(q *testQuery) { q.Page = 0 }, "Page", "min"},
		{"page too high", func(q *testQuery) { q.Page = 501 }, "Page", "max"},
		{"missing query", func(q *testQuery) { q.Query = "" }, "Query", "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			tt.mutate(&q)

			err := ValidateStruct(&q)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}

			found := false
			for _, e := range err.Errors() {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected error on %s/%s, got %v", tt.wantField, tt.wantTag, err)
			}
		})
	}
}

func TestRequestValidationError_Details(t *testing.T) {
	single := ValidateStruct(&testQuery{Page: 1})
	if single == nil {
		t.Fatal("expected validation error")
	}
	d := single.Details()
	if d["field"] != "Query" || d["tag"] != "required" {
		t.Errorf("single details = %v", d)
	}
	if single.Error() != "Query is required" {
		t.Errorf("Error() = %q", single.Error())
	}

	multi := ValidateStruct(&testQuery{Page: 0, Country: "USA"})
	if multi == nil {
		t.Fatal("expected validation error")
	}
	fields, ok := multi.Details()["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Fatalf("multi details = %v", multi.Details())
	}
	if !strings.Contains(multi.Error(), "; ") {
		t.Errorf("combined message should join with '; ', got %q", multi.Error())
	}
}

func TestTranslateMessages(t *testing.T) {
	err := ValidateStruct(&testQuery{Page: 900, Query: strings.Repeat("a", 201)})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msgs := map[string]string{}
	for _, e := range err.Errors() {
		msgs[e.Field()] = e.Error()
	}
	if msgs["Page"] != "Page must be at most 500" {
		t.Errorf("Page message = %q", msgs["Page"])
	}
	if msgs["Query"] != "Query must be at most 200 characters" {
		t.Errorf("Query message = %q", msgs["Query"])
	}
}

func TestNew(t *testing.T) {
	err := New("id", "numeric", "abc", "id must be a positive integer")
	if err.Error() != "id must be a positive integer" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Details()["field"] != "id" {
		t.Errorf("Details() = %v", err.Details())
	}
}
