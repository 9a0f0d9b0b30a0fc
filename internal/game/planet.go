/*
Package game
File: planet.go
Description:
    Planets and their markets.
    A planet sells from its stock at the buy price and buys anything it lists
    at the sell price. Its stock never goes negative.
*/

package game

import "sort"

// Listing is a planet's stock of one item and its two directional prices.
type Listing struct {
	Count int
	// BuyPrice is what a ship pays to acquire one unit here.
	BuyPrice int
	// SellPrice is what a ship receives for disposing of one unit here.
	SellPrice int
}

// Planet is a fixed location with a priced inventory.
type Planet struct {
	Name string
	X, Y int

	listings map[string]*Listing
}

// NewPlanet creates a planet. The listings map is copied.
func NewPlanet(name string, x, y int, listings map[string]Listing) *Planet {
	p := &Planet{Name: name, X: x, Y: y, listings: make(map[string]*Listing, len(listings))}
	for item, l := range listings {
		l := l
		p.listings[item] = &l
	}
	return p
}

// DistanceTo returns the trip length in ticks.
func (p *Planet) DistanceTo(other *Planet) int {
	return CalculateDistance(p.X, p.Y, other.X, other.Y)
}

// SellMe sells one unit of item to a ship and returns the price the ship pays.
func (p *Planet) SellMe(item string) (int, error) {
	l, ok := p.listings[item]
	if !ok {
		return 0, newError(ErrNoSuchItem, map[string]string{"item": item, "planet": p.Name})
	}
	if l.Count == 0 {
		return 0, newError(ErrOutOfStock, map[string]string{"item": item, "planet": p.Name})
	}
	l.Count--
	return l.BuyPrice, nil
}

// BuyFromMe takes one unit of item from a ship and returns the price the ship receives.
// Planets have no storage cap.
func (p *Planet) BuyFromMe(item string) (int, error) {
	l, ok := p.listings[item]
	if !ok {
		return 0, newError(ErrNoSuchItem, map[string]string{"item": item, "planet": p.Name})
	}
	l.Count++
	return l.SellPrice, nil
}

// Stock returns the units available of item and whether the planet lists it at all.
func (p *Planet) Stock(item string) (int, bool) {
	l, ok := p.listings[item]
	if !ok {
		return 0, false
	}
	return l.Count, true
}

// Listing returns a copy of the planet's listing for item.
func (p *Planet) Listing(item string) (Listing, bool) {
	l, ok := p.listings[item]
	if !ok {
		return Listing{}, false
	}
	return *l, true
}

// itemNames returns the listed item names, sorted.
func (p *Planet) itemNames() []string {
	names := make([]string, 0, len(p.listings))
	for name := range p.listings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
