package pdf

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/tpcpricelists/pricelist/internal/domain"
)

func listingOf(n int) domain.Listing {
	l := domain.Listing{Location: "Manila", Contact: "09171234567"}
	for i := 0; i < n; i++ {
		l.Items = append(l.Items, domain.Record{
			Name:  fmt.Sprintf("Item %d", i),
			Price: fmt.Sprintf("PHP %d", i*10),
		})
	}
	return l
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		capacity int
		items    int
		want     int
	}{
		{72, 0, 1},
		{72, 1, 1},
		{72, 72, 1},
		{72, 73, 2},
		{72, 75, 2},
		{72, 144, 2},
		{72, 145, 3},
		{74, 74, 1},
		{74, 75, 2},
	}
	for _, tt := range tests {
		got := NewBuilder(tt.capacity).PageCount(tt.items)
		if got != tt.want {
			t.Errorf("capacity %d, %d items: got %d pages, want %d",
				tt.capacity, tt.items, got, tt.want)
		}
	}
}

func TestBuildPaginates(t *testing.T) {
	b := NewBuilder(72)

	doc, err := b.Build("juan", "2026-08-31", listingOf(75))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if doc.Pages != 2 {
		t.Fatalf("75 items at capacity 72: got %d pages, want 2", doc.Pages)
	}
	if len(doc.Bytes) == 0 {
		t.Fatal("Build produced no bytes")
	}
	if !bytes.HasPrefix(doc.Bytes, []byte("%PDF")) {
		t.Fatal("output does not start with a PDF header")
	}
	// Two rendering surfaces in the page tree.
	if !bytes.Contains(doc.Bytes, []byte("/Count 2")) {
		t.Fatal("page tree does not report 2 pages")
	}
}

func TestBuildEmptyListing(t *testing.T) {
	doc, err := NewBuilder(72).Build("juan", "2026-08-31", listingOf(0))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if doc.Pages != 1 {
		t.Fatalf("empty listing: got %d pages, want 1", doc.Pages)
	}
	if !bytes.HasPrefix(doc.Bytes, []byte("%PDF")) {
		t.Fatal("output does not start with a PDF header")
	}
}

func TestBuildDeterministic(t *testing.T) {
	b := NewBuilder(72)
	listing := listingOf(75)

	first, err := b.Build("juan", "2026-08-31", listing)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := b.Build("juan", "2026-08-31", listing)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if first.Pages != second.Pages {
		t.Fatalf("page counts differ: %d vs %d", first.Pages, second.Pages)
	}
	if !bytes.Equal(first.Bytes, second.Bytes) {
		t.Fatal("same listing rendered to different bytes")
	}
}

func TestBuildSetsAuthor(t *testing.T) {
	doc, err := NewBuilder(72).Build("juan", "2026-08-31", listingOf(3))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !bytes.Contains(doc.Bytes, []byte("/Author")) {
		t.Fatal("document metadata is missing the author field")
	}
}
