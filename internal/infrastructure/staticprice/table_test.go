package staticprice

import (
	"testing"

	"github.com/pricescout/backend/internal/domain"
)

func TestTable_Lookup(t *testing.T) {
	table := NewTable(nil)

	tests := []struct {
		name        string
		item        string
		wantKeyword string
		wantFound   bool
	}{
		{
			name:        "exact keyword",
			item:        "laptop",
			wantKeyword: "laptop",
			wantFound:   true,
		},
		{
			name:        "keyword inside item name",
			item:        "laptop gaming murah",
			wantKeyword: "laptop",
			wantFound:   true,
		},
		{
			name:        "item inside keyword",
			item:        "lapt",
			wantKeyword: "laptop",
			wantFound:   true,
		},
		{
			name:        "case-insensitive",
			item:        "MacBook Pro M4",
			wantKeyword: "macbook",
			wantFound:   true,
		},
		{
			name:      "no match",
			item:      "sepeda listrik",
			wantFound: false,
		},
		{
			name:      "empty item",
			item:      "   ",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyword, _, found := table.Lookup(tt.item)
			if found != tt.wantFound {
				t.Fatalf("Lookup(%q) found = %v, want %v", tt.item, found, tt.wantFound)
			}
			if found && keyword != tt.wantKeyword {
				t.Errorf("Lookup(%q) keyword = %q, want %q", tt.item, keyword, tt.wantKeyword)
			}
		})
	}
}

func TestTable_LookupEstimateValues(t *testing.T) {
	table := NewTable(nil)

	_, estimate, found := table.Lookup("laptop")
	if !found {
		t.Fatal("Lookup(laptop) found = false")
	}
	want := domain.EstimateRange{Min: 3_000_000, Max: 25_000_000, Avg: 8_000_000}
	if estimate != want {
		t.Errorf("estimate = %+v, want %+v", estimate, want)
	}
}

func TestTable_LookupDeterministic(t *testing.T) {
	table := NewTable(nil)

	// "tas jam tangan" matches both "tas" and "jam"; the sorted keyword
	// order makes "jam" win every time.
	first, _, found := table.Lookup("tas jam tangan")
	if !found {
		t.Fatal("Lookup found = false")
	}
	for i := 0; i < 50; i++ {
		keyword, _, _ := table.Lookup("tas jam tangan")
		if keyword != first {
			t.Fatalf("Lookup returned %q after %q on iteration %d", keyword, first, i)
		}
	}
	if first != "jam" {
		t.Errorf("keyword = %q, want the alphabetically first match", first)
	}
}

func TestTable_Overrides(t *testing.T) {
	table := NewTable(map[string]domain.EstimateRange{
		"Laptop": {Min: 5_000_000, Max: 30_000_000, Avg: 10_000_000},
		"drone":  {Min: 1_000_000, Max: 40_000_000, Avg: 6_000_000},
	})

	_, estimate, found := table.Lookup("laptop")
	if !found {
		t.Fatal("Lookup(laptop) found = false")
	}
	if estimate.Avg != 10_000_000 {
		t.Errorf("override did not win: %+v", estimate)
	}

	if _, _, found := table.Lookup("drone murah"); !found {
		t.Error("Lookup(drone murah) found = false, want added keyword to match")
	}

	if table.Size() != len(defaultEstimates)+1 {
		t.Errorf("Size() = %d, want %d", table.Size(), len(defaultEstimates)+1)
	}
}
