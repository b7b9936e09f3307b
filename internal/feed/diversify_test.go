// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package feed

import (
	"fmt"
	"testing"

	"github.com/tomtom215/streamshelf/internal/catalog"
	"github.com/tomtom215/streamshelf/internal/pool"
)

func movies(ids ...int) []catalog.Item {
	out := make([]catalog.Item, len(ids))
	for i, id := range ids {
		out[i] = catalog.Item{ID: id, Kind: catalog.KindMovie}
	}
	return out
}

func idsOf(items []catalog.Item) string {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return fmt.Sprint(out)
}

func testPool(id string, items, superset []catalog.Item) pool.Pool {
	return pool.Pool{Shelf: catalog.ShelfDefinition{ID: id}, Items: items, Superset: superset}
}

func TestDiversify_Backfill(t *testing.T) {
	a := testPool("a", movies(100, 1, 2), movies(100, 1, 2, 3))
	b := testPool("b", movies(100, 10, 11), movies(100, 10, 11, 12, 13))

	out := Diversify([]pool.Pool{a, b}, 3)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if got := idsOf(out[0].Items); got != "[100 1 2]" {
		t.Errorf("shelf a = %s, want [100 1 2]", got)
	}
	if got := idsOf(out[1].Items); got != "[10 11 12]" {
		t.Errorf("shelf b = %s, want [10 11 12]", got)
	}
}

func TestDiversify_CrossShelfUniqueness(t *testing.T) {
	pools := []pool.Pool{
		testPool("a", movies(1, 2, 3, 4), movies(1, 2, 3, 4, 5, 6)),
		testPool("b", movies(3, 4, 5, 6), movies(3, 4, 5, 6, 7, 8, 9)),
		testPool("c", movies(1, 7, 9, 10), movies(1, 7, 9, 10, 11)),
	}
	out := Diversify(pools, 4)

	seen := make(map[catalog.Key]string)
	for _, p := range out {
		if len(p.Items) > 4 {
			t.Errorf("shelf %s has %d items, limit 4", p.Shelf.ID, len(p.Items))
		}
		for _, it := range p.Items {
			if prev, dup := seen[it.Key()]; dup {
				t.Errorf("item %d on %s and %s", it.ID, prev, p.Shelf.ID)
			}
			seen[it.Key()] = p.Shelf.ID
		}
	}
	if got := idsOf(out[1].Items); got != "[5 6 7 8]" {
		t.Errorf("shelf b = %s, want [5 6 7 8]", got)
	}
	if got := idsOf(out[2].Items); got != "[9 10 11]" {
		t.Errorf("shelf c = %s, want [9 10 11] (backfill exhausted)", got)
	}
}

func TestDiversify_InternalDuplicatesAndKinds(t *testing.T) {
	items := []catalog.Item{
		{ID: 1, Kind: catalog.KindMovie},
		{ID: 1, Kind: catalog.KindMovie},
		{ID: 1, Kind: catalog.KindSeries},
	}
	out := Diversify([]pool.Pool{testPool("a", items, items)}, 5)
	if len(out) != 1 || len(out[0].Items) != 2 {
		t.Errorf("items = %+v, want movie 1 and series 1", out)
	}
}

func TestDiversify_DropsEmptyAndKeepsInput(t *testing.T) {
	a := testPool("a", movies(1, 2), movies(1, 2))
	b := testPool("b", movies(1, 2), movies(2, 1))
	empty := testPool("empty", nil, nil)

	out := Diversify([]pool.Pool{a, b, empty}, 5)
	if len(out) != 1 || out[0].Shelf.ID != "a" {
		t.Errorf("out = %+v, want only shelf a", out)
	}
	if len(b.Items) != 2 {
		t.Error("input pool modified")
	}
	if Diversify([]pool.Pool{a}, 0) != nil {
		t.Error("zero limit should yield nothing")
	}
}

func TestDiversify_TruncatesToLimit(t *testing.T) {
	out := Diversify([]pool.Pool{testPool("a", movies(1, 2, 3, 4, 5), movies(1, 2, 3, 4, 5))}, 2)
	if got := idsOf(out[0].Items); got != "[1 2]" {
		t.Errorf("items = %s, want [1 2]", got)
	}
}
