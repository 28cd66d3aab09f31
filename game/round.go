package game

import (
	"fmt"

	mapset "github.com/deckarep/golang-set"
	"github.com/google/uuid"
	"github.com/jxy918/casino-holdem/chips"
	"github.com/jxy918/casino-holdem/logging"
	"github.com/jxy918/casino-holdem/table"
	"github.com/jxy918/casino-holdem/util"
	"github.com/rs/zerolog/log"
)

var roundLogger = log.With().Str("logger_name", "game::round").Logger()

// BettingRound runs one hand across the streets. It owns the action queue
// of the current street; nothing else mutates it.
//
// A BettingRound is not safe for concurrent use. Callers that share a round
// must serialize verb calls (see manager.RoundManager).
type BettingRound struct {
	handID string
	config RoundConfig
	street Street

	// roster is the seated players captured at Start, in seat order
	roster []table.SeatedPlayer
	// active holds the seats (uint32) that have not folded
	active mapset.Set

	stacks        map[uint32]chips.Chips
	streetBets    map[uint32]chips.Chips
	contributions map[uint32]chips.Chips
	pot           chips.Chips

	queue  *ActionQueue
	dealer CardDealer

	actionLog []ActionRecord
	result    *RoundResult
}

// Start captures the roster and sets up preflop action so the first seat
// after the button acts first and the button acts last.
func Start(roster table.RosterProvider, config RoundConfig, dealer CardDealer) (*BettingRound, error) {
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	players := roster.PlayersSatDown()
	if len(players) < 2 {
		return nil, InvalidInputError{Msg: fmt.Sprintf("At least 2 players are needed to start a round. Players: %d", len(players))}
	}
	if err := table.ValidateSeats(players); err != nil {
		return nil, InvalidInputError{Msg: err.Error()}
	}
	sorted := make([]table.SeatedPlayer, len(players))
	copy(sorted, players)
	table.SortBySeat(sorted)

	queue := &ActionQueue{}
	if err := queue.SetupFromButton(sorted, config.ButtonSeat); err != nil {
		return nil, err
	}

	if config.HandID == "" {
		config.HandID = uuid.New().String()
	}

	r := &BettingRound{
		handID:        config.HandID,
		config:        config,
		street:        Preflop,
		roster:        sorted,
		active:        mapset.NewThreadUnsafeSet(),
		stacks:        make(map[uint32]chips.Chips, len(sorted)),
		streetBets:    make(map[uint32]chips.Chips, len(sorted)),
		contributions: make(map[uint32]chips.Chips, len(sorted)),
		pot:           chips.Zero(),
		queue:         queue,
		dealer:        dealer,
		actionLog:     make([]ActionRecord, 0),
	}
	for _, p := range sorted {
		r.active.Add(p.Seat)
		r.stacks[p.Seat] = p.Stack
		r.streetBets[p.Seat] = chips.Zero()
		r.contributions[p.Seat] = chips.Zero()
	}

	util.Metrics.RoundStarted()
	roundLogger.Info().
		Str(logging.HandIDKey, r.handID).
		Int("players", len(sorted)).
		Msgf("Round started. Action queue: %s", r.queue)
	return r, nil
}

func (r *BettingRound) PostSmallBlind(player table.SeatedPlayer) error {
	return r.postBlind(ACTION_SB, player, r.config.SmallBlind, SmallBlind)
}

func (r *BettingRound) PostBigBlind(player table.SeatedPlayer) error {
	return r.postBlind(ACTION_BB, player, r.config.BigBlind, BigBlind)
}

func (r *BettingRound) postBlind(kind ActionKind, player table.SeatedPlayer, blind chips.Chips, status ActionStatus) error {
	if r.street != Preflop {
		return r.rejected(kind, player, UnexpectedStreetError{Action: kind, Street: r.street})
	}
	return r.act(kind, player, status, r.config.enforceBlindOrder(), func(seat uint32) (chips.Chips, error) {
		return blind.Min(r.stacks[seat]), nil
	})
}

func (r *BettingRound) PlayerChecks(player table.SeatedPlayer) error {
	return r.act(ACTION_CHECK, player, Actioned, r.config.enforceActionOrder(), func(seat uint32) (chips.Chips, error) {
		return chips.Zero(), nil
	})
}

func (r *BettingRound) PlayerCalls(player table.SeatedPlayer) error {
	return r.act(ACTION_CALL, player, Actioned, r.config.enforceActionOrder(), func(seat uint32) (chips.Chips, error) {
		toCall := r.maxStreetBet().Sub(r.streetBets[seat])
		if toCall.LessThan(chips.Zero()) {
			toCall = chips.Zero()
		}
		return toCall.Min(r.stacks[seat]), nil
	})
}

// PlayerRaises puts amount more chips in front of the player and reopens
// the action for everyone else.
func (r *BettingRound) PlayerRaises(player table.SeatedPlayer, amount chips.Chips) error {
	return r.act(ACTION_RAISE, player, AggressivelyActioned, r.config.enforceActionOrder(), func(seat uint32) (chips.Chips, error) {
		if !amount.GreaterThan(chips.Zero()) {
			return chips.Zero(), InvalidInputError{Msg: fmt.Sprintf("Invalid raise %s", amount)}
		}
		if amount.GreaterThan(r.stacks[seat]) {
			return chips.Zero(), InvalidInputError{Msg: fmt.Sprintf("Invalid raise %s. Seat %d has only %s", amount, seat, r.stacks[seat])}
		}
		return amount, nil
	})
}

func (r *BettingRound) PlayerPushesAllIn(player table.SeatedPlayer) error {
	return r.act(ACTION_ALLIN, player, AggressivelyActioned, r.config.enforceActionOrder(), func(seat uint32) (chips.Chips, error) {
		stack := r.stacks[seat]
		if !stack.GreaterThan(chips.Zero()) {
			return chips.Zero(), InvalidInputError{Msg: fmt.Sprintf("Seat %d has no chips to go all in", seat)}
		}
		return stack, nil
	})
}

// PlayerFoldsHand takes the player out of the hand. The seat never appears
// in a later street's queue; chips already committed stay in the pot.
func (r *BettingRound) PlayerFoldsHand(player table.SeatedPlayer) error {
	p, err := r.validateAction(ACTION_FOLD, player, r.config.enforceActionOrder())
	if err != nil {
		return r.rejected(ACTION_FOLD, player, err)
	}

	r.active.Remove(p.Seat)
	r.queue.Remove(p.Seat)
	r.record(ACTION_FOLD, p, chips.Zero())

	if r.IsDecided() {
		roundLogger.Info().
			Str(logging.HandIDKey, r.handID).
			Str(logging.StreetKey, r.street.String()).
			Msg("Only one player remaining. Hand is decided")
	}
	return nil
}

// act runs a chip-moving action. Everything is checked before anything
// changes: the queue update is the first mutation and it cannot fail once
// validateAction has passed.
func (r *BettingRound) act(kind ActionKind, player table.SeatedPlayer, status ActionStatus, enforceTurn bool,
	amountFn func(seat uint32) (chips.Chips, error)) error {
	p, err := r.validateAction(kind, player, enforceTurn)
	if err != nil {
		return r.rejected(kind, player, err)
	}
	amount, err := amountFn(p.Seat)
	if err != nil {
		return r.rejected(kind, player, err)
	}
	if err := r.queue.RecordAction(p.Seat, status); err != nil {
		return r.rejected(kind, player, err)
	}

	r.stacks[p.Seat] = r.stacks[p.Seat].Sub(amount)
	r.streetBets[p.Seat] = r.streetBets[p.Seat].Add(amount)
	r.contributions[p.Seat] = r.contributions[p.Seat].Add(amount)
	r.record(kind, p, amount)
	return nil
}

func (r *BettingRound) validateAction(kind ActionKind, player table.SeatedPlayer, enforceTurn bool) (table.SeatedPlayer, error) {
	if r.street == Complete {
		return table.SeatedPlayer{}, UnexpectedStreetError{Action: kind, Street: r.street}
	}
	p, ok := r.rosterPlayer(player)
	if !ok || !r.active.Contains(p.Seat) {
		return table.SeatedPlayer{}, NotInHandError{Seat: player.Seat, Player: player.Name}
	}
	if r.IsDecided() {
		return table.SeatedPlayer{}, HandDecidedError{Remaining: r.active.Cardinality()}
	}
	if enforceTurn {
		front, ok := r.queue.Front()
		if !ok {
			return table.SeatedPlayer{}, NotFoundError{Seat: p.Seat}
		}
		if front.Seat != p.Seat {
			return table.SeatedPlayer{}, OutOfTurnError{Seat: p.Seat, Expected: front.Seat}
		}
	}
	if !r.queue.Contains(p.Seat) {
		return table.SeatedPlayer{}, NotFoundError{Seat: p.Seat}
	}
	return p, nil
}

func (r *BettingRound) rejected(kind ActionKind, player table.SeatedPlayer, err error) error {
	util.Metrics.ActionRejected(string(kind))
	ev := roundLogger.Warn().
		Str(logging.HandIDKey, r.handID).
		Str(logging.StreetKey, r.street.String())
	if kind != ACTION_DEAL && kind != ACTION_END {
		ev = ev.Uint32(logging.SeatNumKey, player.Seat).
			Str(logging.PlayerNameKey, player.Name)
	}
	ev.Str(logging.ActionKey, string(kind)).
		Msgf("Action rejected: %s", err)
	return err
}

func (r *BettingRound) record(kind ActionKind, p table.SeatedPlayer, amount chips.Chips) {
	r.actionLog = append(r.actionLog, ActionRecord{
		Seq:    uint32(len(r.actionLog) + 1),
		Street: r.street,
		Kind:   kind,
		Seat:   SeatRef(p.Seat),
		Player: p.Name,
		Amount: amount,
	})
	util.Metrics.ActionRecorded(string(kind))
	roundLogger.Debug().
		Str(logging.HandIDKey, r.handID).
		Str(logging.StreetKey, r.street.String()).
		Uint32(logging.SeatNumKey, p.Seat).
		Str(logging.PlayerNameKey, p.Name).
		Str(logging.ActionKey, string(kind)).
		Int64(logging.AmountKey, amount.Amount()).
		Msgf("Action queue: %s", r.queue)
}

// recordDealer logs a DEAL or END record. These belong to no seat.
func (r *BettingRound) recordDealer(kind ActionKind, amount chips.Chips) {
	r.actionLog = append(r.actionLog, ActionRecord{
		Seq:    uint32(len(r.actionLog) + 1),
		Street: r.street,
		Kind:   kind,
		Amount: amount,
	})
	util.Metrics.ActionRecorded(string(kind))
	roundLogger.Debug().
		Str(logging.HandIDKey, r.handID).
		Str(logging.StreetKey, r.street.String()).
		Str(logging.ActionKey, string(kind)).
		Int64(logging.AmountKey, amount.Amount()).
		Msg("Dealer record")
}

// WhosTurnIsIt returns the player at the front of the queue. The second
// value is false when nobody is to act: the queue is empty, the round has
// ended, or one player is left.
func (r *BettingRound) WhosTurnIsIt() (table.SeatedPlayer, bool) {
	if r.street == Complete || r.IsDecided() {
		return table.SeatedPlayer{}, false
	}
	front, ok := r.queue.Front()
	if !ok {
		return table.SeatedPlayer{}, false
	}
	return r.playerAt(front.Seat), true
}

func (r *BettingRound) DealFlop() error {
	return r.deal(Preflop, Flop)
}

func (r *BettingRound) DealTurn() error {
	return r.deal(Flop, Turn)
}

func (r *BettingRound) DealRiver() error {
	return r.deal(Turn, River)
}

func (r *BettingRound) deal(from Street, to Street) error {
	if r.street != from {
		return r.rejectedDeal(UnexpectedStreetError{Action: ACTION_DEAL, Street: r.street})
	}
	if r.IsDecided() {
		return r.rejectedDeal(HandDecidedError{Remaining: r.active.Cardinality()})
	}
	if !r.queue.IsStreetComplete() {
		return r.rejectedDeal(StreetNotCompleteError{Street: r.street})
	}
	next := &ActionQueue{}
	if err := next.SetupFromButton(r.ActivePlayers(), r.config.ButtonSeat); err != nil {
		return r.rejectedDeal(err)
	}

	if r.dealer != nil {
		r.dealer.DealCommunity(to.communityCards())
	}
	r.collectBets()
	r.street = to
	r.queue = next
	r.recordDealer(ACTION_DEAL, r.pot)

	util.Metrics.StreetDealt(to.String())
	roundLogger.Info().
		Str(logging.HandIDKey, r.handID).
		Str(logging.StreetKey, to.String()).
		Int64(logging.AmountKey, r.pot.Amount()).
		Msgf("Moved to %s. Action queue: %s", to, r.queue)
	return nil
}

func (r *BettingRound) rejectedDeal(err error) error {
	return r.rejected(ACTION_DEAL, table.SeatedPlayer{}, err)
}

// End closes the hand. It is allowed once nobody is still to act, or at any
// point after the hand is decided by folds. Pot award happens elsewhere.
func (r *BettingRound) End() (*RoundResult, error) {
	if r.street == Complete {
		return nil, r.rejected(ACTION_END, table.SeatedPlayer{}, UnexpectedStreetError{Action: ACTION_END, Street: r.street})
	}
	decided := r.IsDecided()
	if !decided && !r.queue.IsStreetComplete() {
		return nil, r.rejected(ACTION_END, table.SeatedPlayer{}, StreetNotCompleteError{Street: r.street})
	}

	r.collectBets()
	completedAt := r.street
	r.recordDealer(ACTION_END, r.pot)
	r.street = Complete
	r.queue = NewActionQueue()

	contributions := make(map[uint32]chips.Chips, len(r.contributions))
	for seat, amount := range r.contributions {
		contributions[seat] = amount
	}
	r.result = &RoundResult{
		HandID:        r.handID,
		Pot:           r.pot,
		Contributions: contributions,
		Remaining:     r.ActivePlayers(),
		WonByDefault:  decided,
		CompletedAt:   completedAt,
	}

	util.Metrics.RoundEnded()
	roundLogger.Info().
		Str(logging.HandIDKey, r.handID).
		Str(logging.StreetKey, completedAt.String()).
		Int64(logging.AmountKey, r.pot.Amount()).
		Bool("wonByDefault", decided).
		Msg("Round ended")
	return r.result, nil
}

func (r *BettingRound) collectBets() {
	for seat, bet := range r.streetBets {
		r.pot = r.pot.Add(bet)
		r.streetBets[seat] = chips.Zero()
	}
}

func (r *BettingRound) maxStreetBet() chips.Chips {
	highest := chips.Zero()
	for _, bet := range r.streetBets {
		if bet.GreaterThan(highest) {
			highest = bet
		}
	}
	return highest
}

// IsDecided is true when one player (or none) is left in the hand.
func (r *BettingRound) IsDecided() bool {
	return r.active.Cardinality() <= 1
}

// LeftToAct returns the current street's action queue in turn order.
func (r *BettingRound) LeftToAct() []ActionEntry {
	return r.queue.Entries()
}

// ActivePlayers returns the players still in the hand in seat order, with
// their current stacks.
func (r *BettingRound) ActivePlayers() []table.SeatedPlayer {
	players := make([]table.SeatedPlayer, 0, len(r.roster))
	for _, p := range r.roster {
		if r.active.Contains(p.Seat) {
			players = append(players, r.playerAt(p.Seat))
		}
	}
	return players
}

func (r *BettingRound) HandID() string {
	return r.handID
}

func (r *BettingRound) Config() RoundConfig {
	return r.config
}

func (r *BettingRound) Street() Street {
	return r.street
}

// Pot returns the chips collected from finished streets.
func (r *BettingRound) Pot() chips.Chips {
	return r.pot
}

// TotalPot includes the bets of the current street.
func (r *BettingRound) TotalPot() chips.Chips {
	total := r.pot
	for _, bet := range r.streetBets {
		total = total.Add(bet)
	}
	return total
}

func (r *BettingRound) Stack(seat uint32) chips.Chips {
	return r.stacks[seat]
}

func (r *BettingRound) StreetBet(seat uint32) chips.Chips {
	return r.streetBets[seat]
}

func (r *BettingRound) Contribution(seat uint32) chips.Chips {
	return r.contributions[seat]
}

func (r *BettingRound) ActionLog() []ActionRecord {
	records := make([]ActionRecord, len(r.actionLog))
	copy(records, r.actionLog)
	return records
}

// Result returns the hand-off produced by End.
func (r *BettingRound) Result() (*RoundResult, bool) {
	return r.result, r.result != nil
}

func (r *BettingRound) rosterPlayer(player table.SeatedPlayer) (table.SeatedPlayer, bool) {
	for _, p := range r.roster {
		if p.SameAs(player) {
			return p, true
		}
	}
	return table.SeatedPlayer{}, false
}

func (r *BettingRound) playerAt(seat uint32) table.SeatedPlayer {
	for _, p := range r.roster {
		if p.Seat == seat {
			p.Stack = r.stacks[seat]
			return p
		}
	}
	return table.SeatedPlayer{}
}
