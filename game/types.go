package game

import (
	"fmt"
	"strings"

	"github.com/jxy918/casino-holdem/chips"
	"github.com/jxy918/casino-holdem/table"
)

// ActionStatus is what a seat has done so far on the current street.
// Folded players have no status; they are removed from the queue.
type ActionStatus int

const (
	StillToAct ActionStatus = iota
	Actioned
	AggressivelyActioned
	SmallBlind
	BigBlind
)

func (s ActionStatus) String() string {
	switch s {
	case StillToAct:
		return "still-to-act"
	case Actioned:
		return "actioned"
	case AggressivelyActioned:
		return "aggressively-actioned"
	case SmallBlind:
		return "small-blind"
	case BigBlind:
		return "big-blind"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func ParseActionStatus(s string) (ActionStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "still-to-act":
		return StillToAct, nil
	case "actioned":
		return Actioned, nil
	case "aggressively-actioned":
		return AggressivelyActioned, nil
	case "small-blind":
		return SmallBlind, nil
	case "big-blind":
		return BigBlind, nil
	}
	return StillToAct, InvalidInputError{Msg: fmt.Sprintf("Unknown action status: %s", s)}
}

func (s ActionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ActionStatus) UnmarshalText(text []byte) error {
	status, err := ParseActionStatus(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// Street is a betting phase of the hand. Streets only move forward.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Complete
)

func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("street(%d)", int(s))
	}
}

func ParseStreet(s string) (Street, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "preflop":
		return Preflop, nil
	case "flop":
		return Flop, nil
	case "turn":
		return Turn, nil
	case "river":
		return River, nil
	case "complete":
		return Complete, nil
	}
	return Preflop, InvalidInputError{Msg: fmt.Sprintf("Unknown street: %s", s)}
}

func (s Street) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Street) UnmarshalText(text []byte) error {
	street, err := ParseStreet(string(text))
	if err != nil {
		return err
	}
	*s = street
	return nil
}

// communityCards is the number of board cards dealt when moving onto a street.
func (s Street) communityCards() int {
	switch s {
	case Flop:
		return 3
	case Turn, River:
		return 1
	}
	return 0
}

// ActionKind names an entry in the action log.
type ActionKind string

const (
	ACTION_SB    ActionKind = "SB"
	ACTION_BB    ActionKind = "BB"
	ACTION_CHECK ActionKind = "CHECK"
	ACTION_CALL  ActionKind = "CALL"
	ACTION_RAISE ActionKind = "RAISE"
	ACTION_ALLIN ActionKind = "ALLIN"
	ACTION_FOLD  ActionKind = "FOLD"
	ACTION_DEAL  ActionKind = "DEAL"
	ACTION_END   ActionKind = "END"
)

// CardDealer deals community cards. The round only tells it how many;
// the cards themselves are opaque to turn order.
type CardDealer interface {
	DealCommunity(count int)
}

// RoundNotifier receives the action log entries produced by a verb.
type RoundNotifier interface {
	Publish(handID string, records []ActionRecord) error
}

// ActionRecord is one entry in a hand's action log. Seat is nil for the
// dealer's DEAL and END records and set for every player action.
type ActionRecord struct {
	Seq    uint32      `json:"seq"`
	Street Street      `json:"street"`
	Kind   ActionKind  `json:"kind"`
	Seat   *uint32     `json:"seat,omitempty"`
	Player string      `json:"player,omitempty"`
	Amount chips.Chips `json:"amount"`
}

// SeatRef returns a pointer to seat, for filling ActionRecord.Seat.
func SeatRef(seat uint32) *uint32 {
	return &seat
}

// RoundResult is handed to showdown and pot award once the round ends.
type RoundResult struct {
	HandID        string                 `json:"handID"`
	Pot           chips.Chips            `json:"pot"`
	Contributions map[uint32]chips.Chips `json:"contributions"`
	Remaining     []table.SeatedPlayer   `json:"remaining"`
	WonByDefault  bool                   `json:"wonByDefault"`
	CompletedAt   Street                 `json:"completedAt"`
}
