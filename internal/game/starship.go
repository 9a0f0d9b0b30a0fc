/*
Package game
File: starship.go
Description:
    Starships: cargo hold, docking and travel.
    A ship trades only while docked. Travel takes one tick per unit of
    distance and is scheduled on the game clock.
*/

package game

// Starship is a mobile trader. A nil location means it is in transit.
type Starship struct {
	Name          string
	CargoCapacity int

	location    *Planet
	destination *Planet
	arrivesAt   int
	cargo       *Inventory
}

// NewStarship creates a docked starship with an empty hold.
func NewStarship(name string, capacity int, location *Planet) *Starship {
	return &Starship{
		Name:          name,
		CargoCapacity: capacity,
		location:      location,
		cargo:         NewInventory(),
	}
}

// Location returns the docking planet, or nil while in transit.
func (s *Starship) Location() *Planet { return s.location }

// InTransit reports whether the ship is between planets.
func (s *Starship) InTransit() bool { return s.location == nil }

// Destination returns the planet the ship is heading to, or nil when docked.
func (s *Starship) Destination() *Planet { return s.destination }

// ArrivesAt returns the tick of the pending arrival (0 when docked).
func (s *Starship) ArrivesAt() int { return s.arrivesAt }

// ItemsInCargo returns the number of units aboard.
func (s *Starship) ItemsInCargo() int { return s.cargo.Total() }

// CargoFull reports whether the hold is at capacity.
func (s *Starship) CargoFull() bool { return s.cargo.Total() >= s.CargoCapacity }

// CargoCount returns how many units of item are aboard.
func (s *Starship) CargoCount(item string) int { return s.cargo.Count(item) }

// Cargo returns a sorted snapshot of the hold.
func (s *Starship) Cargo() []ItemCount { return s.cargo.Items() }

// Buy acquires one unit of item from the current planet and returns its price.
// Capacity is checked before the planet is consulted, so a full hold never
// touches planet stock.
func (s *Starship) Buy(item string) (int, error) {
	if s.InTransit() {
		return 0, newError(ErrInTransit, map[string]string{"ship": s.Name})
	}
	if s.CargoFull() {
		return 0, newError(ErrCargoFull, map[string]string{"ship": s.Name})
	}
	price, err := s.location.SellMe(item)
	if err != nil {
		return 0, err
	}
	s.cargo.PlusOne(item)
	return price, nil
}

// Sell disposes of one unit of item at the current planet and returns its price.
func (s *Starship) Sell(item string) (int, error) {
	if s.InTransit() {
		return 0, newError(ErrInTransit, map[string]string{"ship": s.Name})
	}
	if s.cargo.Count(item) == 0 {
		return 0, newError(ErrNoSuchItem, map[string]string{"item": item, "ship": s.Name})
	}
	price, err := s.location.BuyFromMe(item)
	if err != nil {
		return 0, err
	}
	if err := s.cargo.MinusOne(item); err != nil {
		return 0, err
	}
	return price, nil
}

// TravelTo sends the ship to dest. A trip of zero ticks calls arrived at once
// without touching the clock. Otherwise the ship leaves immediately and
// arrived runs when the scheduled tick fires.
//
// The caller is responsible for rejecting a ship that is already in transit.
func (s *Starship) TravelTo(dest *Planet, clock *Clock, arrived func()) error {
	distance := s.location.DistanceTo(dest)
	if distance == 0 {
		s.location = dest
		if arrived != nil {
			arrived()
		}
		return nil
	}
	origin := s.location
	s.location = nil
	s.destination = dest
	s.arrivesAt = clock.Elapsed() + distance
	err := clock.AddEvent(distance, func() {
		s.location = dest
		s.destination = nil
		s.arrivesAt = 0
		if arrived != nil {
			arrived()
		}
	})
	if err != nil {
		s.location = origin
		s.destination = nil
		s.arrivesAt = 0
		return err
	}
	return nil
}
