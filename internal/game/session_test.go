package game

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestSession(t *testing.T, def *Definition, rec Notifier) (*Session, chan time.Time) {
	t.Helper()
	g, err := New(def, Options{GameID: "g-1", Player: "naomi", Notifier: rec})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	ticks := make(chan time.Time)
	s, err := NewSession("s-1", g, ticks, nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(s.Close)
	return s, ticks
}

func TestSessionSerializesCommandsAndTicks(t *testing.T) {
	ctx := context.Background()
	s, ticks := newTestSession(t, testDefinition(), nil)

	if err := s.Travel(ctx, "Rocinante", "Mars"); err != nil {
		t.Fatalf("travel: %v", err)
	}
	for i := 0; i < 5; i++ {
		ticks <- time.Time{}
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Elapsed != 5 {
		t.Fatalf("elapsed: got %d, want 5", snap.Elapsed)
	}
	for _, ship := range snap.Starships {
		if ship.Name == "Rocinante" && ship.Location != "Mars" {
			t.Fatalf("Rocinante location: got %s, want Mars", ship.Location)
		}
	}
}

func TestSessionTrade(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, testDefinition(), nil)

	price, err := s.Buy(ctx, "Canterbury", "Fuel")
	if err != nil || price != 10 {
		t.Fatalf("buy: price %d err %v", price, err)
	}
	price, err = s.Sell(ctx, "Canterbury", "Fuel")
	if err != nil || price != 8 {
		t.Fatalf("sell: price %d err %v", price, err)
	}
	if _, err := s.Sell(ctx, "Canterbury", "Fuel"); !errors.Is(err, ErrNoSuchItem) {
		t.Fatalf("expected ErrNoSuchItem, got %v", err)
	}
}

func TestSessionEndsAndFailsFast(t *testing.T) {
	ctx := context.Background()
	def := testDefinition()
	def.Duration = 2
	rec := &recorder{}
	s, ticks := newTestSession(t, def, rec)

	if _, err := s.Buy(ctx, "Canterbury", "Fuel"); err != nil {
		t.Fatalf("buy: %v", err)
	}
	ticks <- time.Time{}
	ticks <- time.Time{}

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop after the final tick")
	}

	if _, err := s.Buy(ctx, "Canterbury", "Fuel"); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("final snapshot: %v", err)
	}
	if !snap.Ended || snap.Credits != 90 || snap.Remaining != 0 {
		t.Fatalf("unexpected final snapshot: %+v", snap)
	}
	if len(rec.ended) != 1 || rec.ended[0] != 90 {
		t.Fatalf("game ended: got %v, want [90]", rec.ended)
	}
}

func TestSessionDoHonorsContext(t *testing.T) {
	s, _ := newTestSession(t, testDefinition(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	busy := make(chan struct{})
	block := make(chan struct{})
	go func() {
		_ = s.Do(context.Background(), func(*Game) error {
			close(busy)
			<-block
			return nil
		})
	}()
	<-busy
	cancel()

	if err := s.Do(ctx, func(*Game) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	close(block)
}

func TestSessionDoFinishesAcceptedCommand(t *testing.T) {
	s, _ := newTestSession(t, testDefinition(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})
	ran := false
	result := make(chan error, 1)
	go func() {
		result <- s.Do(ctx, func(*Game) error {
			close(started)
			<-release
			ran = true
			return ErrInTransit
		})
	}()
	<-started
	cancel()
	close(release)

	if err := <-result; !errors.Is(err, ErrInTransit) {
		t.Fatalf("expected the command's own error, got %v", err)
	}
	if !ran {
		t.Fatal("accepted command did not finish")
	}
}

func TestSessionCloseStopsTicker(t *testing.T) {
	g, err := New(testDefinition(), Options{})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	stopped := false
	s, err := NewSession("s-2", g, make(chan time.Time), func() { stopped = true })
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Close()
	s.Close()
	if !stopped {
		t.Fatal("expected tick source to be stopped")
	}
	if _, err := s.Buy(context.Background(), "Canterbury", "Fuel"); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver after close, got %v", err)
	}
}
