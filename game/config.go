package game

import (
	"fmt"
	"io/ioutil"

	"github.com/jxy918/casino-holdem/chips"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// TurnOrderPolicy decides which verbs must come from the seat at the front
// of the action queue.
type TurnOrderPolicy string

const (
	// TurnOrderBlindsExempt lets any seat post a blind; voluntary actions
	// must be in turn.
	TurnOrderBlindsExempt TurnOrderPolicy = "blinds-exempt"
	TurnOrderStrict       TurnOrderPolicy = "strict"
	TurnOrderNone         TurnOrderPolicy = "none"
)

const (
	DefaultSmallBlind = 25
	DefaultBigBlind   = 50
)

// RoundConfig contains the settings of a betting round.
type RoundConfig struct {
	HandID     string          `yaml:"hand-id" json:"handID"`
	SmallBlind chips.Chips     `yaml:"small-blind" json:"smallBlind"`
	BigBlind   chips.Chips     `yaml:"big-blind" json:"bigBlind"`
	ButtonSeat uint32          `yaml:"button-seat" json:"buttonSeat"`
	TurnOrder  TurnOrderPolicy `yaml:"turn-order" json:"turnOrder"`
}

// WithDefaults fills in the fields left empty.
func (c RoundConfig) WithDefaults() RoundConfig {
	if c.SmallBlind.IsZero() {
		c.SmallBlind = chips.FromAmount(DefaultSmallBlind)
	}
	if c.BigBlind.IsZero() {
		c.BigBlind = chips.FromAmount(DefaultBigBlind)
	}
	if c.TurnOrder == "" {
		c.TurnOrder = TurnOrderBlindsExempt
	}
	return c
}

func (c RoundConfig) Validate() error {
	if c.SmallBlind.LessThan(chips.Zero()) || c.BigBlind.LessThan(chips.Zero()) {
		return InvalidInputError{Msg: fmt.Sprintf("Blinds cannot be negative: %s/%s", c.SmallBlind, c.BigBlind)}
	}
	switch c.TurnOrder {
	case TurnOrderBlindsExempt, TurnOrderStrict, TurnOrderNone:
	default:
		return InvalidInputError{Msg: fmt.Sprintf("Unknown turn order policy: %s", c.TurnOrder)}
	}
	return nil
}

func (c RoundConfig) enforceBlindOrder() bool {
	return c.TurnOrder == TurnOrderStrict
}

func (c RoundConfig) enforceActionOrder() bool {
	return c.TurnOrder == TurnOrderStrict || c.TurnOrder == TurnOrderBlindsExempt
}

// LoadRoundConfig reads a round configuration YAML file.
func LoadRoundConfig(filename string) (RoundConfig, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return RoundConfig{}, errors.Wrapf(err, "Failed to read round config file: %s", filename)
	}
	return ParseRoundConfig(data)
}

func ParseRoundConfig(data []byte) (RoundConfig, error) {
	var config RoundConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return RoundConfig{}, errors.Wrap(err, "Failed to parse round config")
	}
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return RoundConfig{}, err
	}
	return config, nil
}
