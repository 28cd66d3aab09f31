package nats

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/jxy918/casino-holdem/game"
	"github.com/jxy918/casino-holdem/logging"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var natsLogger = log.With().Str("logger_name", "nats::publisher").Logger()

const DefaultNatsURL = "nats://localhost:4222"

// RoundActionsSubject returns the subject the action log entries of a hand
// are published on.
func RoundActionsSubject(handID string) string {
	return fmt.Sprintf("round.%s.actions", handID)
}

// ActionsMessage is the payload published after every successful verb.
type ActionsMessage struct {
	HandID  string              `json:"handID"`
	Records []game.ActionRecord `json:"records"`
}

// conn is the part of *natsgo.Conn the publisher uses.
type conn interface {
	Publish(subj string, data []byte) error
	Close()
}

// RoundPublisher sends action log entries to NATS.
type RoundPublisher struct {
	nc conn
}

func NewRoundPublisher(natsURL string) (*RoundPublisher, error) {
	if natsURL == "" {
		natsURL = DefaultNatsURL
	}
	nc, err := natsgo.Connect(natsURL)
	if err != nil {
		natsLogger.Error().Msg(fmt.Sprintf("Failed to connect to nats server: %v", err))
		return nil, errors.Wrapf(err, "Failed to connect to nats server at %s", natsURL)
	}
	return &RoundPublisher{nc: nc}, nil
}

func (p *RoundPublisher) Publish(handID string, records []game.ActionRecord) error {
	if len(records) == 0 {
		return nil
	}
	data, err := jsoniter.Marshal(&ActionsMessage{HandID: handID, Records: records})
	if err != nil {
		return errors.Wrapf(err, "Failed to marshal actions of hand %s", handID)
	}
	subject := RoundActionsSubject(handID)
	if err := p.nc.Publish(subject, data); err != nil {
		return errors.Wrapf(err, "Failed to publish to %s", subject)
	}
	natsLogger.Debug().
		Str(logging.HandIDKey, handID).
		Int("records", len(records)).
		Msgf("Published to %s", subject)
	return nil
}

func (p *RoundPublisher) Close() {
	p.nc.Close()
}
