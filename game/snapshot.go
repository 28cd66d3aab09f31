package game

import (
	"fmt"

	mapset "github.com/deckarep/golang-set"
	jsoniter "github.com/json-iterator/go"
	"github.com/jxy918/casino-holdem/chips"
	"github.com/jxy918/casino-holdem/table"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RoundSnapshot is a serializable copy of a betting round.
type RoundSnapshot struct {
	HandID        string                 `json:"handID"`
	Config        RoundConfig            `json:"config"`
	Street        Street                 `json:"street"`
	Roster        []table.SeatedPlayer   `json:"roster"`
	Active        []uint32               `json:"active"`
	Stacks        map[uint32]chips.Chips `json:"stacks"`
	StreetBets    map[uint32]chips.Chips `json:"streetBets"`
	Contributions map[uint32]chips.Chips `json:"contributions"`
	Pot           chips.Chips            `json:"pot"`
	Queue         []ActionEntry          `json:"queue"`
	ActionLog     []ActionRecord         `json:"actionLog"`
	Result        *RoundResult           `json:"result,omitempty"`
}

func (r *BettingRound) Snapshot() *RoundSnapshot {
	roster := make([]table.SeatedPlayer, len(r.roster))
	copy(roster, r.roster)
	active := make([]uint32, 0, len(r.roster))
	for _, p := range r.roster {
		if r.active.Contains(p.Seat) {
			active = append(active, p.Seat)
		}
	}
	return &RoundSnapshot{
		HandID:        r.handID,
		Config:        r.config,
		Street:        r.street,
		Roster:        roster,
		Active:        active,
		Stacks:        copyLedger(r.stacks),
		StreetBets:    copyLedger(r.streetBets),
		Contributions: copyLedger(r.contributions),
		Pot:           r.pot,
		Queue:         r.queue.Entries(),
		ActionLog:     r.ActionLog(),
		Result:        r.result,
	}
}

// Restore rebuilds a round from a snapshot. The dealer is not part of the
// snapshot and has to be supplied again.
func Restore(s *RoundSnapshot, dealer CardDealer) (*BettingRound, error) {
	if s == nil {
		return nil, InvalidInputError{Msg: "Snapshot is nil"}
	}
	if err := table.ValidateSeats(s.Roster); err != nil {
		return nil, InvalidInputError{Msg: err.Error()}
	}
	inRoster := make(map[uint32]bool, len(s.Roster))
	for _, p := range s.Roster {
		inRoster[p.Seat] = true
	}

	active := mapset.NewThreadUnsafeSet()
	for _, seat := range s.Active {
		if !inRoster[seat] {
			return nil, InvalidInputError{Msg: fmt.Sprintf("Active seat %d is not in the roster", seat)}
		}
		active.Add(seat)
	}
	for _, e := range s.Queue {
		if !active.Contains(e.Seat) {
			return nil, InvalidInputError{Msg: fmt.Sprintf("Queued seat %d is not active", e.Seat)}
		}
	}
	if err := table.ValidateSeats(queueSeats(s.Queue)); err != nil {
		return nil, InvalidInputError{Msg: err.Error()}
	}
	queue := NewActionQueue(s.Queue...)

	roster := make([]table.SeatedPlayer, len(s.Roster))
	copy(roster, s.Roster)
	table.SortBySeat(roster)

	r := &BettingRound{
		handID:        s.HandID,
		config:        s.Config,
		street:        s.Street,
		roster:        roster,
		active:        active,
		stacks:        copyLedger(s.Stacks),
		streetBets:    copyLedger(s.StreetBets),
		contributions: copyLedger(s.Contributions),
		pot:           s.Pot,
		queue:         queue,
		dealer:        dealer,
		actionLog:     make([]ActionRecord, len(s.ActionLog)),
		result:        s.Result,
	}
	copy(r.actionLog, s.ActionLog)
	for _, p := range roster {
		if _, ok := r.stacks[p.Seat]; !ok {
			r.stacks[p.Seat] = p.Stack
		}
	}
	return r, nil
}

func (s *RoundSnapshot) Marshal() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to marshal snapshot of hand %s", s.HandID)
	}
	return data, nil
}

func UnmarshalRoundSnapshot(data []byte) (*RoundSnapshot, error) {
	s := &RoundSnapshot{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal round snapshot")
	}
	return s, nil
}

func copyLedger(ledger map[uint32]chips.Chips) map[uint32]chips.Chips {
	c := make(map[uint32]chips.Chips, len(ledger))
	for seat, amount := range ledger {
		c[seat] = amount
	}
	return c
}

func queueSeats(entries []ActionEntry) []table.SeatedPlayer {
	players := make([]table.SeatedPlayer, len(entries))
	for i, e := range entries {
		players[i] = table.SeatedPlayer{Seat: e.Seat, Name: e.Player}
	}
	return players
}
