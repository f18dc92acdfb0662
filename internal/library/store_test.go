package library

import (
	"context"
	"testing"

	"github.com/shelfsnap/shelfsnap/internal/scan"
)

func TestMemoryStoreSaveAndGet(t *testing.T) {
	store := NewMemoryStore()

	books := []scan.BookCandidate{
		{Title: "Dune", Author: "Frank Herbert", Confidence: scan.ConfidenceHigh},
	}
	if err := store.SaveScan(context.Background(), "shelf.jpg", books); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	records := store.List()
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	record := records[0]
	if record.ID == "" {
		t.Error("Record should be assigned an ID")
	}
	if record.ImageRef != "shelf.jpg" {
		t.Errorf("ImageRef = %q, want shelf.jpg", record.ImageRef)
	}
	if record.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	got, ok := store.Get(record.ID)
	if !ok {
		t.Fatal("Get should find the saved record")
	}
	if len(got.Books) != 1 || got.Books[0].Title != "Dune" {
		t.Errorf("Unexpected books: %+v", got.Books)
	}
}

func TestMemoryStoreKeepsEmptyScans(t *testing.T) {
	store := NewMemoryStore()

	if err := store.SaveScan(context.Background(), "empty-shelf.jpg", nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(store.List()) != 1 {
		t.Error("A scan that found nothing is still a finished scan")
	}
}

func TestMemoryStoreListInsertionOrder(t *testing.T) {
	store := NewMemoryStore()

	refs := []string{"a.jpg", "b.jpg", "c.jpg"}
	for _, ref := range refs {
		if err := store.SaveScan(context.Background(), ref, nil); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	records := store.List()
	if len(records) != len(refs) {
		t.Fatalf("Expected %d records, got %d", len(refs), len(records))
	}
	for i, ref := range refs {
		if records[i].ImageRef != ref {
			t.Errorf("List()[%d].ImageRef = %q, want %q", i, records[i].ImageRef, ref)
		}
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()

	store.SaveScan(context.Background(), "a.jpg", nil)
	store.SaveScan(context.Background(), "b.jpg", nil)

	records := store.List()
	store.Delete(records[0].ID)

	remaining := store.List()
	if len(remaining) != 1 || remaining[0].ImageRef != "b.jpg" {
		t.Errorf("Expected only b.jpg to remain, got %+v", remaining)
	}
	if _, ok := store.Get(records[0].ID); ok {
		t.Error("Deleted record should not be retrievable")
	}

	// Deleting an unknown ID is a no-op.
	store.Delete("not-a-real-id")
	if len(store.List()) != 1 {
		t.Error("Deleting an unknown ID should not disturb the store")
	}
}
