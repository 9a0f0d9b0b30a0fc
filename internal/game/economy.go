/*
Package game
File: economy.go
Description:
    Read-side view of the economy.
    Prices and stock are per-planet: the same item can be cheap and plentiful
    on one world and scarce on another, which is what makes travel worthwhile.
    This file renders those per-planet tables for the player and values a
    ship's hold against a given market.
*/

package game

// PriceQuote is one row of a planet's price table.
type PriceQuote struct {
	Item      string `json:"item"`
	Available int    `json:"available"`
	BuyPrice  int    `json:"buy_price"`  // Player pays this to buy one unit
	SellPrice int    `json:"sell_price"` // Player receives this for selling one unit
}

// Quote returns the planet's price table sorted by item name.
func (p *Planet) Quote() []PriceQuote {
	names := p.itemNames()
	out := make([]PriceQuote, 0, len(names))
	for _, name := range names {
		l := p.listings[name]
		out = append(out, PriceQuote{
			Item:      name,
			Available: l.Count,
			BuyPrice:  l.BuyPrice,
			SellPrice: l.SellPrice,
		})
	}
	return out
}

// CargoValue is what the ship's hold would fetch if sold entirely at market.
// Items the planet does not trade contribute nothing.
func CargoValue(ship *Starship, market *Planet) int {
	total := 0
	for _, held := range ship.Cargo() {
		if l, ok := market.listings[held.Name]; ok {
			total += held.Count * l.SellPrice
		}
	}
	return total
}
