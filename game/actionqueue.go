package game

import (
	"fmt"
	"strings"

	"github.com/jxy918/casino-holdem/table"
)

// ActionEntry is one seat in the action queue.
type ActionEntry struct {
	Seat   uint32       `json:"seat" yaml:"seat"`
	Player string       `json:"player" yaml:"player"`
	Status ActionStatus `json:"status" yaml:"status"`
}

func (e ActionEntry) String() string {
	return fmt.Sprintf("%d:%s", e.Seat, e.Status)
}

// ActionQueue is the turn order for one street. The entry at index 0 acts
// next. A seat appears at most once. Folded seats are removed, so the queue
// only shrinks until it is rebuilt for the next street.
//
// Every method validates before it mutates; a method that returns an error
// leaves the queue as it was.
type ActionQueue struct {
	entries []ActionEntry
}

func NewActionQueue(entries ...ActionEntry) *ActionQueue {
	q := &ActionQueue{entries: make([]ActionEntry, len(entries))}
	copy(q.entries, entries)
	return q
}

// Setup fills the queue with the players in the order given, everyone
// still to act.
func (q *ActionQueue) Setup(players []table.SeatedPlayer) error {
	if err := table.ValidateSeats(players); err != nil {
		return InvalidInputError{Msg: err.Error()}
	}
	entries := make([]ActionEntry, 0, len(players))
	for _, p := range players {
		entries = append(entries, ActionEntry{Seat: p.Seat, Player: p.Name, Status: StillToAct})
	}
	q.entries = entries
	return nil
}

// SetupWithoutDealer fills the queue so that seat 0 (the button) acts last.
func (q *ActionQueue) SetupWithoutDealer(players []table.SeatedPlayer) error {
	return q.SetupFromButton(players, 0)
}

// SetupFromButton fills the queue in seat order starting with the first seat
// after the button and wrapping around, so the button acts last.
func (q *ActionQueue) SetupFromButton(players []table.SeatedPlayer, button uint32) error {
	if len(players) < 2 {
		return InvalidInputError{Msg: fmt.Sprintf("At least 2 players are needed to set up the action queue. Players: %d", len(players))}
	}
	sorted := make([]table.SeatedPlayer, len(players))
	copy(sorted, players)
	table.SortBySeat(sorted)

	ordered := make([]table.SeatedPlayer, 0, len(sorted))
	for _, p := range sorted {
		if p.Seat > button {
			ordered = append(ordered, p)
		}
	}
	for _, p := range sorted {
		if p.Seat <= button {
			ordered = append(ordered, p)
		}
	}
	return q.Setup(ordered)
}

// RotateFrontToBack moves the entry at the front to the back, keeping its status.
func (q *ActionQueue) RotateFrontToBack() {
	if len(q.entries) == 0 {
		return
	}
	front := q.entries[0]
	q.entries = append(q.entries[1:], front)
}

// RotateToSeat reorders the queue circularly so that the seat acts next.
func (q *ActionQueue) RotateToSeat(seat uint32) error {
	idx := q.index(seat)
	if idx == -1 {
		return NotFoundError{Seat: seat}
	}
	rotated := make([]ActionEntry, 0, len(q.entries))
	rotated = append(rotated, q.entries[idx:]...)
	rotated = append(rotated, q.entries[:idx]...)
	q.entries = rotated
	return nil
}

// SetStatus changes a seat's status without moving it.
func (q *ActionQueue) SetStatus(seat uint32, status ActionStatus) error {
	idx := q.index(seat)
	if idx == -1 {
		return NotFoundError{Seat: seat}
	}
	q.entries[idx].Status = status
	return nil
}

// RecordAction marks the seat with the status and sends it to the back of
// the queue. An aggressive action puts every other seat back to still-to-act.
func (q *ActionQueue) RecordAction(seat uint32, status ActionStatus) error {
	idx := q.index(seat)
	if idx == -1 {
		return NotFoundError{Seat: seat}
	}
	acted := q.entries[idx]
	acted.Status = status

	entries := make([]ActionEntry, 0, len(q.entries))
	entries = append(entries, q.entries[:idx]...)
	entries = append(entries, q.entries[idx+1:]...)
	if status == AggressivelyActioned {
		for i := range entries {
			entries[i].Status = StillToAct
		}
	}
	q.entries = append(entries, acted)
	return nil
}

// Remove takes the seat out of the queue. Removing an absent seat is a no-op.
func (q *ActionQueue) Remove(seat uint32) {
	idx := q.index(seat)
	if idx == -1 {
		return
	}
	entries := make([]ActionEntry, 0, len(q.entries)-1)
	entries = append(entries, q.entries[:idx]...)
	entries = append(entries, q.entries[idx+1:]...)
	q.entries = entries
}

// IsStreetComplete is true when nobody is still to act. Blind tags on their
// own do not keep the street open.
func (q *ActionQueue) IsStreetComplete() bool {
	for _, e := range q.entries {
		if e.Status == StillToAct {
			return false
		}
	}
	return true
}

// Entries returns a copy of the queue in turn order.
func (q *ActionQueue) Entries() []ActionEntry {
	entries := make([]ActionEntry, len(q.entries))
	copy(entries, q.entries)
	return entries
}

// Front returns the entry that acts next.
func (q *ActionQueue) Front() (ActionEntry, bool) {
	if len(q.entries) == 0 {
		return ActionEntry{}, false
	}
	return q.entries[0], true
}

func (q *ActionQueue) Len() int {
	return len(q.entries)
}

func (q *ActionQueue) Contains(seat uint32) bool {
	return q.index(seat) != -1
}

func (q *ActionQueue) Clone() *ActionQueue {
	return NewActionQueue(q.entries...)
}

// Equal compares order and content.
func (q *ActionQueue) Equal(o *ActionQueue) bool {
	if q == nil || o == nil {
		return q == o
	}
	if len(q.entries) != len(o.entries) {
		return false
	}
	for i := range q.entries {
		if q.entries[i] != o.entries[i] {
			return false
		}
	}
	return true
}

func (q *ActionQueue) String() string {
	parts := make([]string, len(q.entries))
	for i, e := range q.entries {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (q *ActionQueue) index(seat uint32) int {
	for i, e := range q.entries {
		if e.Seat == seat {
			return i
		}
	}
	return -1
}
