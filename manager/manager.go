package manager

import (
	"fmt"
	"sync"

	caches "github.com/jxy918/casino-holdem/caching"
	"github.com/jxy918/casino-holdem/game"
	"github.com/jxy918/casino-holdem/logging"
	"github.com/jxy918/casino-holdem/table"
	"github.com/jxy918/casino-holdem/util"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var managerLogger = log.With().Str("logger_name", "manager::rounds").Logger()

type RoundNotFoundError struct {
	HandID string
}

func (e RoundNotFoundError) Error() string {
	return fmt.Sprintf("Round %s is not active", e.HandID)
}

type roundEntry struct {
	mu    sync.Mutex
	round *game.BettingRound
}

// RoundManager owns the rounds in flight. Verb calls on one round are
// serialized; different rounds run independently.
type RoundManager struct {
	rounds   cmap.ConcurrentMap
	persist  game.PersistRoundState
	notifier game.RoundNotifier
	results  *caches.HandResultCache
}

// NewRoundManager creates a manager. The notifier may be nil.
func NewRoundManager(persist game.PersistRoundState, notifier game.RoundNotifier, results *caches.HandResultCache) *RoundManager {
	return &RoundManager{
		rounds:   cmap.New(),
		persist:  persist,
		notifier: notifier,
		results:  results,
	}
}

// StartRound starts a hand and registers it. A hand ID that is already
// active is rejected before the round is created.
func (m *RoundManager) StartRound(roster table.RosterProvider, config game.RoundConfig, dealer game.CardDealer) (string, error) {
	if config.HandID != "" && m.rounds.Has(config.HandID) {
		return "", game.InvalidInputError{Msg: fmt.Sprintf("Round %s is already active", config.HandID)}
	}
	round, err := game.Start(roster, config, dealer)
	if err != nil {
		return "", err
	}
	handID := round.HandID()
	if !m.rounds.SetIfAbsent(handID, &roundEntry{round: round}) {
		return "", game.InvalidInputError{Msg: fmt.Sprintf("Round %s is already active", handID)}
	}
	m.save(round)
	util.Metrics.SetActiveRounds(m.rounds.Count())
	return handID, nil
}

// Act runs fn with exclusive access to the round. The new action log
// entries are persisted and published once fn returns. A verb that fails
// changes nothing, so when fn fails on its first verb nothing is written.
func (m *RoundManager) Act(handID string, fn func(r *game.BettingRound) error) error {
	entry, err := m.entry(handID)
	if err != nil {
		return err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.round == nil {
		// ended while we were waiting for the lock
		return RoundNotFoundError{HandID: handID}
	}
	round := entry.round
	before := len(round.ActionLog())
	fnErr := fn(round)
	records := round.ActionLog()[before:]
	if len(records) == 0 {
		return fnErr
	}

	if round.Street() == game.Complete {
		m.complete(entry)
	} else {
		m.save(round)
	}
	m.publish(handID, records)
	return fnErr
}

func (m *RoundManager) complete(entry *roundEntry) {
	round := entry.round
	handID := round.HandID()
	m.rounds.Remove(handID)
	entry.round = nil
	util.Metrics.SetActiveRounds(m.rounds.Count())

	if result, ok := round.Result(); ok && m.results != nil {
		if err := m.results.Add(result); err != nil {
			managerLogger.Error().Str(logging.HandIDKey, handID).Msgf("Failed to cache round result: %v", err)
		}
	}
	if m.persist != nil {
		if err := m.persist.Remove(handID); err != nil {
			managerLogger.Error().Str(logging.HandIDKey, handID).Msgf("Failed to remove round state: %v", err)
		}
	}
}

func (m *RoundManager) save(round *game.BettingRound) {
	if m.persist == nil {
		return
	}
	if err := m.persist.Save(round.HandID(), round.Snapshot()); err != nil {
		managerLogger.Error().Str(logging.HandIDKey, round.HandID()).Msgf("Failed to save round state: %v", err)
	}
}

func (m *RoundManager) publish(handID string, records []game.ActionRecord) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.Publish(handID, records); err != nil {
		managerLogger.Error().Str(logging.HandIDKey, handID).Msgf("Failed to publish actions: %v", err)
	}
}

// Resume loads a persisted round back into the manager after a restart.
func (m *RoundManager) Resume(handID string, dealer game.CardDealer) error {
	if m.persist == nil {
		return errors.New("No round state store configured")
	}
	snapshot, err := m.persist.Load(handID)
	if err != nil {
		return errors.Wrapf(err, "Failed to resume round %s", handID)
	}
	round, err := game.Restore(snapshot, dealer)
	if err != nil {
		return err
	}
	if round.Street() == game.Complete {
		return game.UnexpectedStreetError{Action: game.ACTION_END, Street: round.Street()}
	}
	if !m.rounds.SetIfAbsent(handID, &roundEntry{round: round}) {
		return game.InvalidInputError{Msg: fmt.Sprintf("Round %s is already active", handID)}
	}
	util.Metrics.SetActiveRounds(m.rounds.Count())
	managerLogger.Info().Str(logging.HandIDKey, handID).Msgf("Round resumed on the %s", round.Street())
	return nil
}

func (m *RoundManager) Snapshot(handID string) (*game.RoundSnapshot, error) {
	entry, err := m.entry(handID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.round == nil {
		return nil, RoundNotFoundError{HandID: handID}
	}
	return entry.round.Snapshot(), nil
}

// Result returns the result of an ended round from the cache.
func (m *RoundManager) Result(handID string) (*game.RoundResult, bool) {
	if m.results == nil {
		return nil, false
	}
	return m.results.Get(handID)
}

func (m *RoundManager) ActiveRounds() int {
	return m.rounds.Count()
}

func (m *RoundManager) entry(handID string) (*roundEntry, error) {
	v, ok := m.rounds.Get(handID)
	if !ok {
		return nil, RoundNotFoundError{HandID: handID}
	}
	return v.(*roundEntry), nil
}
