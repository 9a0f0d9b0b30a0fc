/*
Package game
File: mechanics.go
Description:
    The "physics" of the universe: how far apart two planets are and therefore
    how many ticks a trip takes.
*/

package game

import "math"

// CalculateDistance computes the Euclidean distance between two planets in ticks.
// It rounds UP: a trip that is 4.1 units long still costs 5 ticks.
func CalculateDistance(x1, y1, x2, y2 int) int {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	return int(math.Ceil(math.Sqrt(dx*dx + dy*dy)))
}
