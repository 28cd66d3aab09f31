package game

import "fmt"

// NotFoundError is returned when a seat is not in the action queue.
type NotFoundError struct {
	Seat uint32
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("Seat %d is not in the action queue", e.Seat)
}

// NotInHandError is returned when a player already folded or was never
// dealt into the hand.
type NotInHandError struct {
	Seat   uint32
	Player string
}

func (e NotInHandError) Error() string {
	return fmt.Sprintf("Player %s (seat %d) is not in the hand", e.Player, e.Seat)
}

type OutOfTurnError struct {
	Seat     uint32
	Expected uint32
}

func (e OutOfTurnError) Error() string {
	return fmt.Sprintf("Seat %d acted out of turn. The next valid action seat is: %d", e.Seat, e.Expected)
}

type StreetNotCompleteError struct {
	Street Street
}

func (e StreetNotCompleteError) Error() string {
	return fmt.Sprintf("Players are still to act on the %s", e.Street)
}

type InvalidInputError struct {
	Msg string
}

func (e InvalidInputError) Error() string {
	return e.Msg
}

// UnexpectedStreetError is returned when a verb is not valid on the current street.
type UnexpectedStreetError struct {
	Action ActionKind
	Street Street
}

func (e UnexpectedStreetError) Error() string {
	return fmt.Sprintf("Action %s is not valid on the %s", e.Action, e.Street)
}

// HandDecidedError is returned when only one player is left and no further
// action can be taken.
type HandDecidedError struct {
	Remaining int
}

func (e HandDecidedError) Error() string {
	return fmt.Sprintf("Hand is decided. Active players remaining: %d", e.Remaining)
}
