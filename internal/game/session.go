/*
Package game
File: session.go
Description:
    A running game session.
    Each Session owns one Game and a goroutine that applies clock ticks and
    player commands strictly one after another. Handlers talk to the game only
    through Do and its typed wrappers; when the game ends the loop exits and
    the final snapshot stays readable.
*/

package game

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// command is one player action queued for the session goroutine.
type command struct {
	fn    func(*Game) error
	reply chan error
}

// Session owns a Game and a goroutine that applies ticks and player commands
// one at a time, so a tick can never interleave with a half-applied trade.
type Session struct {
	ID string

	game     *Game
	ticks    <-chan time.Time
	stop     func()
	commands chan command
	quit     chan struct{}
	done     chan struct{}
	once     sync.Once

	final Snapshot // written by the loop before done is closed
}

// NewSession starts g and begins consuming ticks. stop, if non-nil, is called
// when the loop exits so the tick source can be released.
func NewSession(id string, g *Game, ticks <-chan time.Time, stop func()) (*Session, error) {
	if err := g.Start(); err != nil {
		return nil, err
	}
	s := &Session{
		ID:       id,
		game:     g,
		ticks:    ticks,
		stop:     stop,
		commands: make(chan command),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.loop()
	return s, nil
}

// loop processes ticks and commands sequentially so no locks are needed on Game.
func (s *Session) loop() {
	defer func() {
		s.final = s.game.Snapshot()
		if s.stop != nil {
			s.stop()
		}
		close(s.done)
	}()

	for {
		select {
		case cmd := <-s.commands:
			cmd.reply <- cmd.fn(s.game)
		case <-s.ticks:
			if err := s.game.Tick(); err != nil {
				log.Printf("Session %s: tick failed: %v", s.ID, err)
			}
			if s.game.Ended() {
				log.Printf("Session %s: game over with %d credits", s.ID, s.game.Credits())
				return
			}
		case <-s.quit:
			return
		}
	}
}

// Do runs fn against the game on the session goroutine and returns its error.
// Once the game is over Do fails fast with ErrGameOver. ctx only bounds the
// wait for the loop to accept fn; an accepted command always runs and Do
// reports its result.
func (s *Session) Do(ctx context.Context, fn func(*Game) error) error {
	cmd := command{fn: fn, reply: make(chan error, 1)}

	select {
	case s.commands <- cmd:
	case <-s.done:
		return ErrGameOver
	case <-ctx.Done():
		return ctx.Err()
	}

	// The loop has taken cmd off the unbuffered channel and always replies.
	return <-cmd.reply
}

// Buy buys one unit of item with ship.
func (s *Session) Buy(ctx context.Context, ship, item string) (int, error) {
	var price int
	err := s.Do(ctx, func(g *Game) error {
		p, err := g.BuyItem(ship, item)
		price = p
		return err
	})
	return price, err
}

// Sell sells one unit of item from ship.
func (s *Session) Sell(ctx context.Context, ship, item string) (int, error) {
	var price int
	err := s.Do(ctx, func(g *Game) error {
		p, err := g.SellItem(ship, item)
		price = p
		return err
	})
	return price, err
}

// Travel sends ship to planet.
func (s *Session) Travel(ctx context.Context, ship, planet string) error {
	return s.Do(ctx, func(g *Game) error {
		return g.Travel(ship, planet)
	})
}

// Snapshot returns the live state, or the final state once the game is over.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.Do(ctx, func(g *Game) error {
		snap = g.Snapshot()
		return nil
	})
	if errors.Is(err, ErrGameOver) {
		return s.final, nil
	}
	return snap, err
}

// Done is closed once the session has stopped.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close stops the session. The game is abandoned without a final score.
func (s *Session) Close() {
	s.once.Do(func() { close(s.quit) })
	<-s.done
}
