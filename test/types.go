package test

import (
	"github.com/jxy918/casino-holdem/chips"
	"github.com/jxy918/casino-holdem/game"
	"github.com/jxy918/casino-holdem/table"
)

/*
name: heads up checks to the flop
config:
  small-blind: 25
  big-blind: 50
  button-seat: 0
  turn-order: blinds-exempt
seed: 42
players:
  - seat: 0
    name: jane
    stack: 1000
steps:
  - verb: check
    seat: 1
  - verb: deal-flop
    verify:
      street: flop
      turn: 1
      board: 3
      queue:
        - seat: 1
          status: still-to-act
*/
type HandScript struct {
	Name     string               `yaml:"name"`
	Disabled bool                 `yaml:"disabled"`
	Config   game.RoundConfig     `yaml:"config"`
	Seed     int64                `yaml:"seed"`
	Players  []table.SeatedPlayer `yaml:"players"`
	Steps    []ScriptStep         `yaml:"steps"`

	filename string
	result   *ScriptTestResult
}

// ScriptStep is one verb call. Verify is checked once the verb returns.
type ScriptStep struct {
	Verb        string      `yaml:"verb"`
	Seat        uint32      `yaml:"seat"`
	Player      string      `yaml:"player"`
	Amount      chips.Chips `yaml:"amount"`
	ExpectError string      `yaml:"expect-error"`
	Verify      *StepVerify `yaml:"verify"`
}

type StepVerify struct {
	Queue        []QueueEntry           `yaml:"queue"`
	Street       string                 `yaml:"street"`
	Complete     *bool                  `yaml:"complete"`
	Decided      *bool                  `yaml:"decided"`
	Turn         *uint32                `yaml:"turn"`
	NoTurn       bool                   `yaml:"no-turn"`
	Pot          *chips.Chips           `yaml:"pot"`
	TotalPot     *chips.Chips           `yaml:"total-pot"`
	Stacks       map[uint32]chips.Chips `yaml:"stacks"`
	Board        *int                   `yaml:"board"`
	WonByDefault *bool                  `yaml:"won-by-default"`
}

type QueueEntry struct {
	Seat   uint32            `yaml:"seat"`
	Status game.ActionStatus `yaml:"status"`
}
