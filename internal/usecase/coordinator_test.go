package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/pricescout/backend/internal/domain"
)

func titledResult(title, url, content string) domain.SearchResult {
	return domain.SearchResult{Title: title, URL: url, ContentSnippet: content}
}

func newTestCoordinator(completer *fakeCompleter) *ExtractionCoordinator {
	return NewExtractionCoordinator(
		NewFastPriceExtractor(),
		NewSemanticPriceExtractor(completer),
	)
}

func TestExtractionCoordinator_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("confident fast path never calls the semantic extractor", func(t *testing.T) {
		completer := &fakeCompleter{available: true, err: errors.New("must not be reached")}
		coordinator := newTestCoordinator(completer)

		results := []domain.SearchResult{
			titledResult("Harga Laptop", "https://tekno.kompas.com/laptop", "Harga mulai Rp25.999.000 di toko resmi."),
		}
		quotes, err := coordinator.Resolve(ctx, results, "laptop")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if completer.calls != 0 {
			t.Errorf("semantic extractor called %d times on a confident fast pass", completer.calls)
		}
		if len(quotes) != 1 {
			t.Fatalf("len(quotes) = %d, want 1", len(quotes))
		}
	})

	t.Run("escalates when the fast path finds nothing", func(t *testing.T) {
		completer := &fakeCompleter{
			available: true,
			response:  `{"found": true, "prices": [{"price": 26999000, "currency": "IDR", "title": "iBox", "url": "https://www.ibox.co.id/iphone"}], "reason": ""}`,
		}
		coordinator := newTestCoordinator(completer)

		results := []domain.SearchResult{
			titledResult("iBox", "https://www.ibox.co.id/iphone", "Harga dua puluh enam juta rupiah lebih sedikit."),
		}
		quotes, err := coordinator.Resolve(ctx, results, "iPhone")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if completer.calls != 1 {
			t.Errorf("semantic calls = %d, want 1", completer.calls)
		}
		key := domain.QuoteKey{Domain: "ibox.co.id", Currency: "IDR"}
		if quotes[key].Amount != 26999000 {
			t.Errorf("quotes[%v].Amount = %d", key, quotes[key].Amount)
		}
	})

	t.Run("both paths empty resolves to not found", func(t *testing.T) {
		completer := &fakeCompleter{
			available: true,
			response:  `{"found": false, "prices": [], "reason": "no prices"}`,
		}
		coordinator := newTestCoordinator(completer)

		results := []domain.SearchResult{
			titledResult("Review", "https://example.com/review", "Ulasan mendalam tanpa menyebut harga."),
		}
		if _, err := coordinator.Resolve(ctx, results, "laptop"); !errors.Is(err, domain.ErrPriceNotFound) {
			t.Errorf("err = %v, want ErrPriceNotFound", err)
		}
	})

	t.Run("no results resolves to not found", func(t *testing.T) {
		coordinator := newTestCoordinator(&fakeCompleter{available: true})
		if _, err := coordinator.Resolve(ctx, nil, "laptop"); !errors.Is(err, domain.ErrPriceNotFound) {
			t.Errorf("err = %v, want ErrPriceNotFound", err)
		}
	})

	t.Run("same domain same currency keeps the lowest amount", func(t *testing.T) {
		coordinator := newTestCoordinator(&fakeCompleter{available: true})

		results := []domain.SearchResult{
			titledResult("Tokopedia varian A", "https://www.tokopedia.com/varian-a", "Harga Rp30.000.000 untuk varian tertinggi."),
			titledResult("Tokopedia varian B", "https://www.tokopedia.com/varian-b", "Harga Rp28.000.000 untuk varian standar."),
		}
		quotes, err := coordinator.Resolve(ctx, results, "laptop")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if len(quotes) != 1 {
			t.Fatalf("len(quotes) = %d, want 1 after dedup", len(quotes))
		}
		key := domain.QuoteKey{Domain: "tokopedia.com", Currency: "IDR"}
		if quotes[key].Amount != 28000000 {
			t.Errorf("surviving amount = %d, want 28000000", quotes[key].Amount)
		}
	})

	t.Run("different currencies on one domain both survive", func(t *testing.T) {
		coordinator := newTestCoordinator(&fakeCompleter{available: true})

		results := []domain.SearchResult{
			titledResult("Listing", "https://shop.example.com/item", "Harga Rp15.000.000 atau $999 untuk versi global."),
		}
		quotes, err := coordinator.Resolve(ctx, results, "kamera")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if len(quotes) != 2 {
			t.Fatalf("len(quotes) = %d, want 2", len(quotes))
		}
		idr := domain.QuoteKey{Domain: "shop.example.com", Currency: "IDR"}
		usd := domain.QuoteKey{Domain: "shop.example.com", Currency: "USD"}
		if quotes[idr].Amount != 15000000 {
			t.Errorf("IDR amount = %d", quotes[idr].Amount)
		}
		if quotes[usd].Amount != 999 {
			t.Errorf("USD amount = %d", quotes[usd].Amount)
		}
	})

	t.Run("distinct domains aggregate into one range", func(t *testing.T) {
		coordinator := newTestCoordinator(&fakeCompleter{available: true})

		results := []domain.SearchResult{
			titledResult("Kompas", "https://tekno.kompas.com/1", "Harga Rp25.999.000 resmi."),
			titledResult("iBox", "https://www.ibox.co.id/2", "Harga Rp26.999.000 pre-order."),
			titledResult("Kumparan", "https://kumparan.com/3", "Harga Rp27.499.000 varian dasar."),
		}
		quotes, err := coordinator.Resolve(ctx, results, "laptop")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if len(quotes) != 3 {
			t.Fatalf("len(quotes) = %d, want 3", len(quotes))
		}
		r := ComputeRanges(quotes)["IDR"]
		if r.Min != 25999000 || r.Max != 27499000 || r.Avg != 26832333 {
			t.Errorf("range = %+v, want 25999000/27499000/26832333", r)
		}
	})

	t.Run("resolution is deterministic across calls", func(t *testing.T) {
		coordinator := newTestCoordinator(&fakeCompleter{available: true})

		results := []domain.SearchResult{
			titledResult("A", "https://a.example.com/1", "Rp25.999.000"),
			titledResult("B", "https://b.example.com/2", "Rp26.500.000"),
			titledResult("C", "https://c.example.com/3", "Rp27.997.000"),
		}
		first, err := coordinator.Resolve(ctx, results, "laptop")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		second, err := coordinator.Resolve(ctx, results, "laptop")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if len(first) != len(second) {
			t.Fatalf("sizes differ: %d vs %d", len(first), len(second))
		}
		for key, candidate := range first {
			if second[key] != candidate {
				t.Errorf("quotes[%v] differ: %+v vs %+v", key, candidate, second[key])
			}
		}
	})
}

func TestComputeRanges(t *testing.T) {
	t.Run("average truncates toward zero", func(t *testing.T) {
		quotes := domain.PriceQuoteSet{
			{Domain: "a.example.com", Currency: "IDR"}: {Amount: 25999000, Currency: "IDR"},
			{Domain: "b.example.com", Currency: "IDR"}: {Amount: 26500000, Currency: "IDR"},
			{Domain: "c.example.com", Currency: "IDR"}: {Amount: 27998000, Currency: "IDR"},
		}
		ranges := ComputeRanges(quotes)
		r, ok := ranges["IDR"]
		if !ok {
			t.Fatal("no IDR range")
		}
		if r.Min != 25999000 || r.Max != 27998000 {
			t.Errorf("Min/Max = %d/%d", r.Min, r.Max)
		}
		// (25999000+26500000+27998000)/3 = 80497000/3 = 26832333.33
		if r.Avg != 26832333 {
			t.Errorf("Avg = %d, want 26832333", r.Avg)
		}
	})

	t.Run("currencies are aggregated independently", func(t *testing.T) {
		quotes := domain.PriceQuoteSet{
			{Domain: "a.example.com", Currency: "IDR"}: {Amount: 15000000, Currency: "IDR"},
			{Domain: "b.example.com", Currency: "USD"}: {Amount: 999, Currency: "USD"},
		}
		ranges := ComputeRanges(quotes)
		if len(ranges) != 2 {
			t.Fatalf("len(ranges) = %d, want 2", len(ranges))
		}
		if ranges["IDR"].Avg != 15000000 || ranges["USD"].Avg != 999 {
			t.Errorf("ranges = %+v", ranges)
		}
	})

	t.Run("single quote collapses to one value", func(t *testing.T) {
		quotes := domain.PriceQuoteSet{
			{Domain: "a.example.com", Currency: "IDR"}: {Amount: 8000000, Currency: "IDR"},
		}
		r := ComputeRanges(quotes)["IDR"]
		if r.Min != 8000000 || r.Max != 8000000 || r.Avg != 8000000 {
			t.Errorf("range = %+v", r)
		}
	})
}
