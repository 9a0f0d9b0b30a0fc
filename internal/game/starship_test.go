package game

import (
	"errors"
	"testing"
)

func newTradePlanet(name string, x, y, stock int) *Planet {
	return NewPlanet(name, x, y, map[string]Listing{
		"Fuel": {Count: stock, BuyPrice: 10, SellPrice: 6},
	})
}

func TestStarshipBuyFullHoldLeavesPlanetAlone(t *testing.T) {
	earth := newTradePlanet("Earth", 0, 0, 3)
	ship := NewStarship("Rocinante", 1, earth)

	if _, err := ship.Buy("Fuel"); err != nil {
		t.Fatalf("first buy: %v", err)
	}
	_, err := ship.Buy("Fuel")
	if !errors.Is(err, ErrCargoFull) {
		t.Fatalf("expected ErrCargoFull, got %v", err)
	}
	if stock, _ := earth.Stock("Fuel"); stock != 2 {
		t.Fatalf("stock: got %d, want 2", stock)
	}
	if ship.ItemsInCargo() != 1 {
		t.Fatalf("cargo: got %d, want 1", ship.ItemsInCargo())
	}
}

func TestStarshipZeroCapacity(t *testing.T) {
	earth := newTradePlanet("Earth", 0, 0, 3)
	ship := NewStarship("Shuttle", 0, earth)

	if _, err := ship.Buy("Fuel"); !errors.Is(err, ErrCargoFull) {
		t.Fatalf("expected ErrCargoFull, got %v", err)
	}
}

func TestStarshipSellUnheldItem(t *testing.T) {
	earth := newTradePlanet("Earth", 0, 0, 3)
	ship := NewStarship("Rocinante", 2, earth)

	if _, err := ship.Sell("Fuel"); !errors.Is(err, ErrNoSuchItem) {
		t.Fatalf("expected ErrNoSuchItem, got %v", err)
	}
	if stock, _ := earth.Stock("Fuel"); stock != 3 {
		t.Fatalf("stock: got %d, want 3", stock)
	}
}

func TestStarshipSellWherePlanetDoesNotTrade(t *testing.T) {
	earth := newTradePlanet("Earth", 0, 0, 3)
	moon := NewPlanet("Moon", 0, 0, map[string]Listing{})
	ship := NewStarship("Rocinante", 2, earth)
	if _, err := ship.Buy("Fuel"); err != nil {
		t.Fatalf("buy: %v", err)
	}

	clk := NewClock(10)
	if err := ship.TravelTo(moon, clk, nil); err != nil {
		t.Fatalf("travel: %v", err)
	}
	if ship.Location() != moon {
		t.Fatalf("expected immediate arrival at Moon, got %v", ship.Location())
	}

	if _, err := ship.Sell("Fuel"); !errors.Is(err, ErrNoSuchItem) {
		t.Fatalf("expected ErrNoSuchItem, got %v", err)
	}
	if ship.CargoCount("Fuel") != 1 {
		t.Fatalf("cargo: got %d, want 1", ship.CargoCount("Fuel"))
	}
}

func TestStarshipTradingConservesUnits(t *testing.T) {
	earth := newTradePlanet("Earth", 0, 0, 4)
	ship := NewStarship("Rocinante", 3, earth)
	total := func() int {
		stock, _ := earth.Stock("Fuel")
		return stock + ship.CargoCount("Fuel")
	}

	steps := []string{"buy", "buy", "sell", "buy", "buy", "buy", "sell", "sell", "sell", "sell"}
	for i, step := range steps {
		if step == "buy" {
			_, _ = ship.Buy("Fuel")
		} else {
			_, _ = ship.Sell("Fuel")
		}
		if got := total(); got != 4 {
			t.Fatalf("step %d (%s): units got %d, want 4", i, step, got)
		}
		if ship.ItemsInCargo() > ship.CargoCapacity {
			t.Fatalf("step %d: cargo %d over capacity %d", i, ship.ItemsInCargo(), ship.CargoCapacity)
		}
	}
}

func TestStarshipTravelSchedulesArrival(t *testing.T) {
	earth := newTradePlanet("Earth", 0, 0, 3)
	mars := newTradePlanet("Mars", 3, 4, 3)
	ship := NewStarship("Rocinante", 2, earth)
	clk := NewClock(10)
	if err := clk.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	arrived := 0
	if err := ship.TravelTo(mars, clk, func() { arrived++ }); err != nil {
		t.Fatalf("travel: %v", err)
	}
	if !ship.InTransit() {
		t.Fatal("expected ship in transit")
	}
	if ship.ArrivesAt() != 5 || ship.Destination() != mars {
		t.Fatalf("pending arrival: got tick %d to %v", ship.ArrivesAt(), ship.Destination())
	}
	if _, err := ship.Buy("Fuel"); !errors.Is(err, ErrInTransit) {
		t.Fatalf("expected ErrInTransit on buy, got %v", err)
	}
	if _, err := ship.Sell("Fuel"); !errors.Is(err, ErrInTransit) {
		t.Fatalf("expected ErrInTransit on sell, got %v", err)
	}

	for i := 1; i <= 4; i++ {
		mustTick(t, clk)
		if !ship.InTransit() {
			t.Fatalf("arrived early at tick %d", i)
		}
	}
	mustTick(t, clk)
	if ship.Location() != mars || arrived != 1 {
		t.Fatalf("expected arrival at Mars once, got location %v arrived %d", ship.Location(), arrived)
	}
}

func TestStarshipTravelSamePlanet(t *testing.T) {
	earth := newTradePlanet("Earth", 0, 0, 3)
	ship := NewStarship("Rocinante", 2, earth)
	clk := NewClock(10)

	arrived := 0
	if err := ship.TravelTo(earth, clk, func() { arrived++ }); err != nil {
		t.Fatalf("travel: %v", err)
	}
	if arrived != 1 || ship.InTransit() {
		t.Fatalf("expected immediate arrival, got arrived=%d inTransit=%v", arrived, ship.InTransit())
	}
	if clk.Pending() != 0 {
		t.Fatalf("expected nothing scheduled, got %d", clk.Pending())
	}
}

func TestStarshipTravelRestoresLocationOnScheduleFailure(t *testing.T) {
	earth := newTradePlanet("Earth", 0, 0, 3)
	mars := newTradePlanet("Mars", 3, 4, 3)
	ship := NewStarship("Rocinante", 2, earth)
	clk := NewClock(1)
	if err := clk.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	mustTick(t, clk)

	if err := ship.TravelTo(mars, clk, nil); !errors.Is(err, ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
	if ship.Location() != earth {
		t.Fatalf("expected ship still at Earth, got %v", ship.Location())
	}
}
