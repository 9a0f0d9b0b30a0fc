/*
Package game
File: errors.go
Description:
    Domain errors raised by the trading core.
    Every rejection carries a machine-readable Code so the API layer can map it
    to an HTTP status without string matching. Matching with errors.Is compares
    codes, so a wrapped or annotated error still matches its sentinel.
*/

package game

import (
	"errors"
	"sort"
	"strings"
)

// Code identifies a class of domain failure.
type Code string

const (
	CodeNoSuchItem          Code = "NO_SUCH_ITEM"
	CodeNoSuchPlanet        Code = "NO_SUCH_PLANET"
	CodeNoSuchShip          Code = "NO_SUCH_SHIP"
	CodeOutOfStock          Code = "OUT_OF_STOCK"
	CodeCargoFull           Code = "CARGO_FULL"
	CodeNegativeCount       Code = "NEGATIVE_COUNT"
	CodeAlreadyInTransit    Code = "ALREADY_IN_TRANSIT"
	CodeInTransit           Code = "IN_TRANSIT"
	CodeInsufficientCredits Code = "INSUFFICIENT_CREDITS"
	CodeInvalidSchedule     Code = "INVALID_SCHEDULE"
	CodeClockStarted        Code = "CLOCK_STARTED"
	CodeClockNotRunning     Code = "CLOCK_NOT_RUNNING"
	CodeGameNotStarted      Code = "GAME_NOT_STARTED"
	CodeGameOver            Code = "GAME_OVER"
	CodeInvalidDefinition   Code = "INVALID_DEFINITION"
)

// Error is a domain error with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message
	Metadata map[string]string // Offending names (ship, item, planet...)
	Problems []string          // Individual findings, only set for INVALID_DEFINITION
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Problems) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Problems, "; ")
}

// Is reports whether target carries the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrNoSuchItem          = &Error{Code: CodeNoSuchItem, Message: "no such item"}
	ErrNoSuchPlanet        = &Error{Code: CodeNoSuchPlanet, Message: "no such planet"}
	ErrNoSuchShip          = &Error{Code: CodeNoSuchShip, Message: "no such starship"}
	ErrOutOfStock          = &Error{Code: CodeOutOfStock, Message: "item out of stock"}
	ErrCargoFull           = &Error{Code: CodeCargoFull, Message: "cargo hold full"}
	ErrNegativeCount       = &Error{Code: CodeNegativeCount, Message: "negative count"}
	ErrAlreadyInTransit    = &Error{Code: CodeAlreadyInTransit, Message: "starship already in transit"}
	ErrInTransit           = &Error{Code: CodeInTransit, Message: "starship is in transit"}
	ErrInsufficientCredits = &Error{Code: CodeInsufficientCredits, Message: "insufficient credits"}
	ErrInvalidSchedule     = &Error{Code: CodeInvalidSchedule, Message: "invalid schedule"}
	ErrClockStarted        = &Error{Code: CodeClockStarted, Message: "clock already started"}
	ErrClockNotRunning     = &Error{Code: CodeClockNotRunning, Message: "clock is not running"}
	ErrGameNotStarted      = &Error{Code: CodeGameNotStarted, Message: "game not started"}
	ErrGameOver            = &Error{Code: CodeGameOver, Message: "game is over"}
	ErrInvalidDefinition   = &Error{Code: CodeInvalidDefinition, Message: "invalid game definition"}
)

// newError builds a domain error whose message names the offending entities.
// Keys are rendered in sorted order so messages are stable.
func newError(sentinel *Error, metadata map[string]string) *Error {
	msg := sentinel.Message
	if len(metadata) > 0 {
		keys := make([]string, 0, len(metadata))
		for k := range metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+metadata[k])
		}
		msg += " (" + strings.Join(parts, ", ") + ")"
	}
	return &Error{Code: sentinel.Code, Message: msg, Metadata: metadata}
}

// CodeOf extracts the domain code from err, or "" when err is not a domain error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
