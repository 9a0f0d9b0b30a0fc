/*
Package game
File: models.go
Description:
    Defines the game-definition schema: the initial state a game is built from.
    The same structs decode YAML files and JSON uploads, and are served back
    verbatim by the API.

    No logic is performed here; loading and validation live in state.go.
*/

package game

// Definition is the root of a game definition file.
type Definition struct {
	Duration       int                    `yaml:"game_duration" json:"game_duration"`     // Length of the game in ticks
	InitialCredits int                    `yaml:"initial_credits" json:"initial_credits"` // Starting balance
	Items          []string               `yaml:"items" json:"items"`                     // Master catalog of tradeable goods
	Planets        map[string]PlanetDef   `yaml:"planets" json:"planets"`                 // Planet name -> layout and market
	Starships      map[string]StarshipDef `yaml:"starships" json:"starships"`             // Starship name -> hold and start position
}

// PlanetDef places a planet on the 100x100 starmap and stocks its market.
type PlanetDef struct {
	X              int                 `yaml:"x" json:"x"`
	Y              int                 `yaml:"y" json:"y"`
	AvailableItems map[string]StockDef `yaml:"available_items" json:"available_items"`
}

// StockDef is one market entry on a planet.
type StockDef struct {
	Available int `yaml:"available" json:"available"`   // Units in stock at game start
	BuyPrice  int `yaml:"buy_price" json:"buy_price"`   // Player pays this when buying
	SellPrice int `yaml:"sell_price" json:"sell_price"` // Player receives this when selling
}

// StarshipDef configures one ship of the player's fleet.
type StarshipDef struct {
	CargoHoldSize int    `yaml:"cargo_hold_size" json:"cargo_hold_size"`
	Position      string `yaml:"position" json:"position"` // Planet name where the ship starts docked
}
