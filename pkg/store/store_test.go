package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/chartcore/pkg/spec"
)

func specFixture() *spec.ChartSpec {
	return &spec.ChartSpec{
		Width:  400,
		Height: 300,
		Data: []spec.Record{
			{"name": "a", "value": 1.0},
			{"name": "b", "value": 2.0},
		},
		Series: []spec.SeriesSpec{{Kind: spec.KindLine, DataKey: spec.K("value")}},
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	doc := &Document{ID: "d1", ChartID: "revenue", SpecHash: "abc", Spec: specFixture()}
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, err := s.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ChartID != "revenue" || got.SpecHash != "abc" {
		t.Errorf("Unexpected document: %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("Put should set timestamps")
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreReplacePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	doc := &Document{ID: "d1", ChartID: "revenue", SpecHash: "v1"}
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	first, _ := s.Get(ctx, "d1")

	time.Sleep(time.Millisecond)
	doc.SpecHash = "v2"
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	second, _ := s.Get(ctx, "d1")
	if second.SpecHash != "v2" {
		t.Error("Put should replace the document")
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("Replace should preserve CreatedAt")
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Error("Replace should advance UpdatedAt")
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, id := range []string{"d1", "d2", "d3"} {
		if err := s.Put(ctx, &Document{ID: id, ChartID: "revenue"}); err != nil {
			t.Fatalf("Put error: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
	s.Put(ctx, &Document{ID: "other", ChartID: "costs"})

	docs, err := s.List(ctx, "revenue", 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("Expected 3 documents, got %d", len(docs))
	}
	if docs[0].ID != "d3" || docs[2].ID != "d1" {
		t.Errorf("List should be newest first: %s, %s, %s", docs[0].ID, docs[1].ID, docs[2].ID)
	}

	// Limit
	docs, _ = s.List(ctx, "revenue", 2)
	if len(docs) != 2 {
		t.Errorf("List limit should apply, got %d", len(docs))
	}

	// Latest
	latest, err := s.Latest(ctx, "revenue")
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if latest.ID != "d3" {
		t.Errorf("Latest should return d3, got %s", latest.ID)
	}

	// Latest for unknown chart
	if _, err := s.Latest(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.Put(ctx, &Document{ID: "d1", ChartID: "revenue"})
	if err := s.Delete(ctx, "d1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, "d1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing document is not an error
	if err := s.Delete(ctx, "d1"); err != nil {
		t.Errorf("Delete missing error: %v", err)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.Put(ctx, &Document{ID: "d1", ChartID: "revenue", SpecHash: "abc"})
	got, _ := s.Get(ctx, "d1")
	got.SpecHash = "mutated"

	again, _ := s.Get(ctx, "d1")
	if again.SpecHash != "abc" {
		t.Error("Get should return a copy, not shared state")
	}
}
