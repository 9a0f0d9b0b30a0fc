package game

import (
	"errors"
	"testing"
)

func TestCalculateDistance(t *testing.T) {
	cases := []struct {
		name           string
		x1, y1, x2, y2 int
		want           int
	}{
		{name: "same spot", want: 0},
		{name: "pythagorean", x2: 3, y2: 4, want: 5},
		{name: "rounds up", x2: 1, y2: 1, want: 2},
		{name: "axis", x1: 10, y1: 10, x2: 10, y2: 3, want: 7},
		{name: "diagonal corner", x2: 100, y2: 100, want: 142},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CalculateDistance(tc.x1, tc.y1, tc.x2, tc.y2); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPlanetSellMe(t *testing.T) {
	p := NewPlanet("Earth", 0, 0, map[string]Listing{
		"Fuel": {Count: 1, BuyPrice: 10, SellPrice: 7},
	})

	price, err := p.SellMe("Fuel")
	if err != nil {
		t.Fatalf("sell me: %v", err)
	}
	if price != 10 {
		t.Fatalf("price: got %d, want 10", price)
	}
	if stock, _ := p.Stock("Fuel"); stock != 0 {
		t.Fatalf("stock: got %d, want 0", stock)
	}

	if _, err := p.SellMe("Fuel"); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
	if _, err := p.SellMe("Ore"); !errors.Is(err, ErrNoSuchItem) {
		t.Fatalf("expected ErrNoSuchItem, got %v", err)
	}
}

func TestPlanetBuyFromMe(t *testing.T) {
	p := NewPlanet("Mars", 3, 4, map[string]Listing{
		"Fuel": {Count: 0, BuyPrice: 10, SellPrice: 7},
	})

	price, err := p.BuyFromMe("Fuel")
	if err != nil {
		t.Fatalf("buy from me: %v", err)
	}
	if price != 7 {
		t.Fatalf("price: got %d, want 7", price)
	}
	if stock, _ := p.Stock("Fuel"); stock != 1 {
		t.Fatalf("stock: got %d, want 1", stock)
	}
	if _, err := p.BuyFromMe("Ore"); !errors.Is(err, ErrNoSuchItem) {
		t.Fatalf("expected ErrNoSuchItem, got %v", err)
	}
}

func TestNewPlanetCopiesListings(t *testing.T) {
	listings := map[string]Listing{"Fuel": {Count: 2}}
	p := NewPlanet("Earth", 0, 0, listings)

	if _, err := p.SellMe("Fuel"); err != nil {
		t.Fatalf("sell me: %v", err)
	}
	if listings["Fuel"].Count != 2 {
		t.Fatalf("expected caller map untouched, got %d", listings["Fuel"].Count)
	}
}

func TestPlanetQuoteAndCargoValue(t *testing.T) {
	p := NewPlanet("Earth", 0, 0, map[string]Listing{
		"Ore":  {Count: 4, BuyPrice: 3, SellPrice: 2},
		"Fuel": {Count: 5, BuyPrice: 10, SellPrice: 8},
	})

	quote := p.Quote()
	if len(quote) != 2 || quote[0].Item != "Fuel" || quote[1].Item != "Ore" {
		t.Fatalf("unexpected quote order: %+v", quote)
	}
	if quote[0].BuyPrice != 10 || quote[0].SellPrice != 8 || quote[0].Available != 5 {
		t.Fatalf("unexpected Fuel quote: %+v", quote[0])
	}

	ship := NewStarship("Rocinante", 5, p)
	for _, item := range []string{"Fuel", "Fuel", "Ore"} {
		if _, err := ship.Buy(item); err != nil {
			t.Fatalf("buy %s: %v", item, err)
		}
	}
	if got := CargoValue(ship, p); got != 18 {
		t.Fatalf("cargo value: got %d, want 18", got)
	}
}
