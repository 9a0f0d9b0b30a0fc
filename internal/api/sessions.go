/*
Package api
File: sessions.go
Description:
    The session registry. Every running game lives here, keyed by its session
    id, together with the Hub its notifications are broadcast on.

    The map itself is shared by all HTTP handlers and guarded by an RWMutex;
    the game state inside each session is owned by that session's goroutine.
*/

package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/everforgeworks/galaxies-countdown/internal/game"
)

// retention is how long a finished session stays readable.
const retention = 10 * time.Minute

// TickSource returns a tick channel and a function releasing it.
type TickSource func() (<-chan time.Time, func())

// IntervalTicks drives sessions with a wall-clock ticker.
func IntervalTicks(interval time.Duration) TickSource {
	return func() (<-chan time.Time, func()) {
		ticker := time.NewTicker(interval)
		return ticker.C, ticker.Stop
	}
}

// LiveSession couples a running game with its notification hub.
type LiveSession struct {
	*game.Session
	Hub    *Hub
	Player string
}

// Registry tracks live and recently finished sessions.
type Registry struct {
	mu       sync.RWMutex // Protects sessions
	sessions map[string]*LiveSession
	ticks    TickSource
	scores   game.ScoreSubmitter
}

// NewRegistry creates an empty registry. scores may be nil.
func NewRegistry(ticks TickSource, scores game.ScoreSubmitter) *Registry {
	return &Registry{
		sessions: make(map[string]*LiveSession),
		ticks:    ticks,
		scores:   scores,
	}
}

// Start builds a game from def and runs it for player.
func (r *Registry) Start(gameID, player string, def *game.Definition) (*LiveSession, error) {
	id := uuid.NewString()
	hub := NewHub()
	go hub.Run()

	g, err := game.New(def, game.Options{
		GameID:   gameID,
		Player:   player,
		Notifier: NewHubNotifier(hub, id),
		Scores:   r.scores,
	})
	if err != nil {
		hub.Stop()
		return nil, err
	}
	ticks, stop := r.ticks()
	sess, err := game.NewSession(id, g, ticks, stop)
	if err != nil {
		stop()
		hub.Stop()
		return nil, err
	}

	live := &LiveSession{Session: sess, Hub: hub, Player: player}
	r.mu.Lock()
	r.sessions[id] = live
	r.mu.Unlock()

	go r.reap(live)
	return live, nil
}

// reap stops the hub when the game finishes and forgets the session later.
func (r *Registry) reap(live *LiveSession) {
	<-live.Done()
	live.Hub.Stop()
	time.AfterFunc(retention, func() { r.remove(live.ID) })
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Get returns the session with id.
func (r *Registry) Get(id string) (*LiveSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	live, ok := r.sessions[id]
	return live, ok
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Shutdown abandons every running session.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.RLock()
	live := make([]*LiveSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		live = append(live, s)
	}
	r.mu.RUnlock()

	done := make(chan struct{})
	go func() {
		for _, s := range live {
			s.Close()
			s.Hub.Stop()
		}
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
