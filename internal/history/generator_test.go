package history

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/ternarybob/realticker/internal/models"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(models.DateFormat, value)
	if err != nil {
		t.Fatalf("failed to parse date %q: %v", value, err)
	}
	return parsed
}

func TestGenerate_Length(t *testing.T) {
	endDate := mustDate(t, "2026-01-31")

	for _, days := range []int{1, 2, 30, 184} {
		points := Generate(rand.New(rand.NewSource(1)), days, 100.0, endDate)
		if len(points) != days {
			t.Errorf("Generate(days=%d) returned %d points", days, len(points))
		}
	}
}

func TestGenerate_EndsAtEndPrice(t *testing.T) {
	endDate := mustDate(t, "2026-01-31")

	for _, endPrice := range []float64{1.0, 42.5, 100.0, 499.99} {
		points := Generate(rand.New(rand.NewSource(7)), 184, endPrice, endDate)
		last := points[len(points)-1].Price
		if math.Abs(last-endPrice) > 0.005 {
			t.Errorf("last price = %v, want %v within rounding tolerance", last, endPrice)
		}
	}
}

func TestGenerate_DatesContinuous(t *testing.T) {
	endDate := mustDate(t, "2026-01-31")
	points := Generate(rand.New(rand.NewSource(3)), 184, 100.0, endDate)

	if got := points[len(points)-1].Date; got != "2026-01-31" {
		t.Fatalf("last date = %s, want 2026-01-31", got)
	}
	if got := points[0].Date; got != "2025-08-01" {
		t.Fatalf("first date = %s, want 2025-08-01", got)
	}

	prev := mustDate(t, points[0].Date)
	for _, p := range points[1:] {
		d := mustDate(t, p.Date)
		if !d.Equal(prev.AddDate(0, 0, 1)) {
			t.Fatalf("date %s does not follow %s by exactly one day", p.Date, prev.Format(models.DateFormat))
		}
		prev = d
	}
}

func TestGenerate_SingleDay(t *testing.T) {
	endDate := mustDate(t, "2026-01-31")
	points := Generate(rand.New(rand.NewSource(1)), 1, 55.5, endDate)

	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].Price != 55.5 {
		t.Errorf("single point price = %v, want 55.5", points[0].Price)
	}
	if points[0].Date != "2026-01-31" {
		t.Errorf("single point date = %s, want 2026-01-31", points[0].Date)
	}
}

func TestGenerate_ZeroDays(t *testing.T) {
	if points := Generate(rand.New(rand.NewSource(1)), 0, 100.0, mustDate(t, "2026-01-31")); points != nil {
		t.Errorf("Generate(days=0) = %v, want nil", points)
	}
}

func TestGenerate_PricesPositive(t *testing.T) {
	points := Generate(rand.New(rand.NewSource(11)), 184, 12.0, mustDate(t, "2026-01-31"))
	for _, p := range points {
		if p.Price <= 0 {
			t.Fatalf("generated non-positive price %v on %s", p.Price, p.Date)
		}
	}
}

func TestGenerate_DeterministicForSeed(t *testing.T) {
	endDate := mustDate(t, "2026-01-31")
	a := Generate(rand.New(rand.NewSource(99)), 30, 250.0, endDate)
	b := Generate(rand.New(rand.NewSource(99)), 30, 250.0, endDate)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different walks at index %d: %v vs %v", i, a[i], b[i])
		}
	}
}
