/*
Package game
File: inventory.go
Description:
    Item counts held by a starship cargo hold or a planet market.
*/

package game

import "sort"

// ItemCount is one inventory entry.
type ItemCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Inventory is a sparse multiset of item names.
// Only items with a positive count are stored.
type Inventory struct {
	counts map[string]int
	total  int
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{counts: make(map[string]int)}
}

// PlusOne adds one unit of item, creating the entry if needed.
func (inv *Inventory) PlusOne(item string) {
	inv.counts[item]++
	inv.total++
}

// MinusOne removes one unit of item. The entry disappears once it reaches zero.
func (inv *Inventory) MinusOne(item string) error {
	n, ok := inv.counts[item]
	if !ok || n < 1 {
		return newError(ErrNegativeCount, map[string]string{"item": item})
	}
	if n == 1 {
		delete(inv.counts, item)
	} else {
		inv.counts[item] = n - 1
	}
	inv.total--
	return nil
}

// Count returns the units held of item (0 when absent).
func (inv *Inventory) Count(item string) int {
	return inv.counts[item]
}

// Total returns the number of units across all items.
func (inv *Inventory) Total() int {
	return inv.total
}

// Items returns the held entries sorted by name.
func (inv *Inventory) Items() []ItemCount {
	out := make([]ItemCount, 0, len(inv.counts))
	for name, n := range inv.counts {
		out = append(out, ItemCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
