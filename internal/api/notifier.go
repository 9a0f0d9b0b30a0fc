/*
Package api
File: notifier.go
Description:
    Game notifications as WebSocket messages.
    HubNotifier turns game events into Message envelopes and publishes them
    on the session hub.
*/

package api

import (
	"encoding/json"
	"log"
)

// Notification message types pushed to WebSocket clients.
const (
	TypeState                = "state"
	TypeBalanceChanged       = "balance_changed"
	TypeShipLocationChanged  = "ship_location_changed"
	TypeRemainingTimeChanged = "remaining_time_changed"
	TypeGameEnded            = "game_ended"
)

// HubNotifier implements game.Notifier by broadcasting on a session's Hub.
// It is called from the session goroutine only.
type HubNotifier struct {
	hub       *Hub
	sessionID string
}

// NewHubNotifier binds a notifier to hub, stamping messages with sessionID.
func NewHubNotifier(hub *Hub, sessionID string) *HubNotifier {
	return &HubNotifier{hub: hub, sessionID: sessionID}
}

func (n *HubNotifier) BalanceChanged(credits int) {
	n.publish(TypeBalanceChanged, map[string]int{"credits": credits})
}

func (n *HubNotifier) ShipLocationChanged(ship, planet string) {
	n.publish(TypeShipLocationChanged, map[string]string{"ship": ship, "planet": planet})
}

func (n *HubNotifier) RemainingTimeChanged(ticks int) {
	n.publish(TypeRemainingTimeChanged, map[string]int{"remaining": ticks})
}

func (n *HubNotifier) GameEnded(finalCredits int) {
	n.publish(TypeGameEnded, map[string]int{"credits": finalCredits})
}

func (n *HubNotifier) publish(kind string, payload interface{}) {
	data, err := encodeMessage(kind, payload, n.sessionID)
	if err != nil {
		log.Printf("WS: encode %s: %v", kind, err)
		return
	}
	n.hub.Publish(data)
}

func encodeMessage(kind string, payload interface{}, sender string) ([]byte, error) {
	return json.Marshal(Message{Type: kind, Payload: payload, Sender: sender})
}
