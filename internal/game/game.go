/*
Package game
File: game.go
Description:
    The Game aggregate.
    Game ties the clock, the planets, the starships and the player's credits
    together, enforces the trading rules and emits notifications. A finished
    game submits its score once. Game is not safe for concurrent use; Session
    serializes access to it.
*/

package game

import (
	"context"
	"log"
	"time"
)

// InTransitName is reported as a ship's location while it travels.
const InTransitName = "in transit"

// scoreTimeout bounds the score submission made when the game ends.
const scoreTimeout = 5 * time.Second

// Notifier receives every state change the player should see.
// The game only pushes to it and never reads from it.
type Notifier interface {
	BalanceChanged(credits int)
	ShipLocationChanged(ship, planet string)
	RemainingTimeChanged(ticks int)
	GameEnded(finalCredits int)
}

// ScoreSubmitter records a final balance once a game ends.
type ScoreSubmitter interface {
	SubmitScore(ctx context.Context, player string, score int, gameID string) error
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) BalanceChanged(int) {}
func (NopNotifier) ShipLocationChanged(string, string) {}
func (NopNotifier) RemainingTimeChanged(int) {}
func (NopNotifier) GameEnded(int) {}

// Options wires a Game to its collaborators. Zero values are allowed.
type Options struct {
	GameID   string
	Player   string
	Notifier Notifier
	Scores   ScoreSubmitter
}

// Game is one single-player session: a fleet, a set of planets, a balance and
// a clock. It is not safe for concurrent use; Session serializes access.
type Game struct {
	id        string
	player    string
	items     []string
	planets   map[string]*Planet
	starships map[string]*Starship
	credits   int
	clock     *Clock
	started   bool
	ended     bool

	notifier Notifier
	scores   ScoreSubmitter
}

// New builds a game from a validated definition.
func New(def *Definition, opts Options) (*Game, error) {
	g := &Game{
		id:        opts.GameID,
		player:    opts.Player,
		items:     append([]string(nil), def.Items...),
		planets:   make(map[string]*Planet, len(def.Planets)),
		starships: make(map[string]*Starship, len(def.Starships)),
		credits:   def.InitialCredits,
		clock:     NewClock(def.Duration),
		notifier:  opts.Notifier,
		scores:    opts.Scores,
	}
	if g.notifier == nil {
		g.notifier = NopNotifier{}
	}

	for name, p := range def.Planets {
		listings := make(map[string]Listing, len(p.AvailableItems))
		for item, s := range p.AvailableItems {
			listings[item] = Listing{Count: s.Available, BuyPrice: s.BuyPrice, SellPrice: s.SellPrice}
		}
		g.planets[name] = NewPlanet(name, p.X, p.Y, listings)
	}
	for name, s := range def.Starships {
		planet, ok := g.planets[s.Position]
		if !ok {
			return nil, newError(ErrNoSuchPlanet, map[string]string{"planet": s.Position, "ship": name})
		}
		g.starships[name] = NewStarship(name, s.CargoHoldSize, planet)
	}

	g.clock.OnChange(func(int) {
		g.notifier.RemainingTimeChanged(g.clock.Remaining())
	})
	g.clock.OnEnd(g.endGame)
	return g, nil
}

// Start publishes the initial balance and timer, then starts the clock.
func (g *Game) Start() error {
	if g.started {
		return ErrClockStarted
	}
	g.notifier.BalanceChanged(g.credits)
	g.notifier.RemainingTimeChanged(g.clock.Remaining())
	if err := g.clock.Start(); err != nil {
		return err
	}
	g.started = true
	return nil
}

// Tick advances the game clock by one tick.
func (g *Game) Tick() error {
	return g.clock.Tick()
}

// BuyItem buys one unit of item with ship at its current planet.
func (g *Game) BuyItem(shipName, item string) (int, error) {
	ship, err := g.commandShip(shipName)
	if err != nil {
		return 0, err
	}
	// The price is known before anything moves, so overdraft is rejected up front.
	if loc := ship.Location(); loc != nil && !ship.CargoFull() {
		if l, ok := loc.Listing(item); ok && l.Count > 0 && l.BuyPrice > g.credits {
			return 0, newError(ErrInsufficientCredits, map[string]string{"item": item, "ship": shipName})
		}
	}
	price, err := ship.Buy(item)
	if err != nil {
		return 0, err
	}
	g.credits -= price
	g.notifier.BalanceChanged(g.credits)
	return price, nil
}

// SellItem sells one unit of item from ship at its current planet.
func (g *Game) SellItem(shipName, item string) (int, error) {
	ship, err := g.commandShip(shipName)
	if err != nil {
		return 0, err
	}
	price, err := ship.Sell(item)
	if err != nil {
		return 0, err
	}
	g.credits += price
	g.notifier.BalanceChanged(g.credits)
	return price, nil
}

// Travel sends ship to planetName. Arrival is announced through the notifier.
func (g *Game) Travel(shipName, planetName string) error {
	ship, err := g.commandShip(shipName)
	if err != nil {
		return err
	}
	dest, ok := g.planets[planetName]
	if !ok {
		return newError(ErrNoSuchPlanet, map[string]string{"planet": planetName})
	}
	if ship.InTransit() {
		return newError(ErrAlreadyInTransit, map[string]string{"ship": shipName})
	}
	err = ship.TravelTo(dest, g.clock, func() {
		g.notifier.ShipLocationChanged(ship.Name, dest.Name)
	})
	if err != nil {
		return err
	}
	if ship.InTransit() {
		g.notifier.ShipLocationChanged(ship.Name, InTransitName)
	}
	return nil
}

func (g *Game) commandShip(name string) (*Starship, error) {
	if g.ended {
		return nil, ErrGameOver
	}
	if !g.started {
		return nil, ErrGameNotStarted
	}
	ship, ok := g.starships[name]
	if !ok {
		return nil, newError(ErrNoSuchShip, map[string]string{"ship": name})
	}
	return ship, nil
}

// endGame is the clock's terminal hook and runs exactly once.
func (g *Game) endGame() {
	g.ended = true
	g.notifier.GameEnded(g.credits)
	if g.scores == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
	defer cancel()
	if err := g.scores.SubmitScore(ctx, g.player, g.credits, g.id); err != nil {
		log.Printf("Score: submit for game %s failed: %v", g.id, err)
	}
}

// ID returns the game definition id this session plays.
func (g *Game) ID() string { return g.id }

// Player returns the name scores are recorded under.
func (g *Game) Player() string { return g.player }

// Credits returns the current balance.
func (g *Game) Credits() int { return g.credits }

// Elapsed returns the processed ticks.
func (g *Game) Elapsed() int { return g.clock.Elapsed() }

// Remaining returns the ticks left.
func (g *Game) Remaining() int { return g.clock.Remaining() }

// Started reports whether Start has been called.
func (g *Game) Started() bool { return g.started }

// Ended reports whether the final tick has fired.
func (g *Game) Ended() bool { return g.ended }

// Items returns the master item catalog.
func (g *Game) Items() []string { return append([]string(nil), g.items...) }

// Planet looks up a planet by name.
func (g *Game) Planet(name string) (*Planet, bool) {
	p, ok := g.planets[name]
	return p, ok
}

// Starship looks up a starship by name.
func (g *Game) Starship(name string) (*Starship, bool) {
	s, ok := g.starships[name]
	return s, ok
}

// Planets returns all planets sorted by name.
func (g *Game) Planets() []*Planet {
	out := make([]*Planet, 0, len(g.planets))
	for _, name := range sortedKeys(g.planets) {
		out = append(out, g.planets[name])
	}
	return out
}

// Starships returns the fleet sorted by name.
func (g *Game) Starships() []*Starship {
	out := make([]*Starship, 0, len(g.starships))
	for _, name := range sortedKeys(g.starships) {
		out = append(out, g.starships[name])
	}
	return out
}

// Snapshot is a read-only copy of the game state for rendering.
type Snapshot struct {
	GameID    string       `json:"game_id"`
	Player    string       `json:"player"`
	Credits   int          `json:"credits"`
	Elapsed   int          `json:"elapsed"`
	Remaining int          `json:"remaining"`
	Started   bool         `json:"started"`
	Ended     bool         `json:"ended"`
	Items     []string     `json:"items"`
	Starships []ShipView   `json:"starships"`
	Planets   []PlanetView `json:"planets"`
}

// ShipView is one starship inside a Snapshot.
type ShipView struct {
	Name          string      `json:"name"`
	CargoCapacity int         `json:"cargo_capacity"`
	Location      string      `json:"location"`
	Destination   string      `json:"destination,omitempty"`
	ArrivesAt     int         `json:"arrives_at,omitempty"`
	Cargo         []ItemCount `json:"cargo"`
	CargoValue    int         `json:"cargo_value"` // Sale value at the docking planet, 0 in transit
}

// PlanetView is one planet inside a Snapshot.
type PlanetView struct {
	Name   string       `json:"name"`
	X      int          `json:"x"`
	Y      int          `json:"y"`
	Market []PriceQuote `json:"market"`
}

// Snapshot copies the current state.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		GameID:    g.id,
		Player:    g.player,
		Credits:   g.credits,
		Elapsed:   g.clock.Elapsed(),
		Remaining: g.clock.Remaining(),
		Started:   g.started,
		Ended:     g.ended,
		Items:     g.Items(),
	}
	for _, s := range g.Starships() {
		v := ShipView{
			Name:          s.Name,
			CargoCapacity: s.CargoCapacity,
			Location:      InTransitName,
			Cargo:         s.Cargo(),
		}
		if loc := s.Location(); loc != nil {
			v.Location = loc.Name
			v.CargoValue = CargoValue(s, loc)
		}
		if dest := s.Destination(); dest != nil {
			v.Destination = dest.Name
			v.ArrivesAt = s.ArrivesAt()
		}
		snap.Starships = append(snap.Starships, v)
	}
	for _, p := range g.Planets() {
		snap.Planets = append(snap.Planets, PlanetView{Name: p.Name, X: p.X, Y: p.Y, Market: p.Quote()})
	}
	return snap
}
