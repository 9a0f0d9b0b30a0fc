// Package requestctx carries request-scoped identity through context.Context.
package requestctx

import (
	"context"
	"errors"
	"strings"
)

// ErrNoPlayer reports a request made without a player name.
var ErrNoPlayer = errors.New("player name required")

// playerContextKey is the context key for the acting player's name.
type playerContextKey struct{}

// WithPlayer stores the player name in context, trimmed of surrounding space.
// A blank name is not stored, so PlayerFromContext keeps reporting none.
func WithPlayer(ctx context.Context, player string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	player = strings.TrimSpace(player)
	if player == "" {
		return ctx
	}
	return context.WithValue(ctx, playerContextKey{}, player)
}

// PlayerFromContext returns the player name stored in context.
func PlayerFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(playerContextKey{}).(string)
	return value
}

// RequirePlayer returns the acting player, or ErrNoPlayer when the request
// carries none.
func RequirePlayer(ctx context.Context) (string, error) {
	player := PlayerFromContext(ctx)
	if player == "" {
		return "", ErrNoPlayer
	}
	return player, nil
}
