package test

import (
	"fmt"
	"math/rand"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jxy918/casino-holdem/game"
	"github.com/jxy918/casino-holdem/manager"
	"github.com/jxy918/casino-holdem/poker"
	"github.com/jxy918/casino-holdem/table"
)

// run plays the script. With a manager every verb goes through
// RoundManager.Act, so the round is persisted and published as it would be
// in the server.
func (h *HandScript) run(m *manager.RoundManager) error {
	tbl, err := table.NewTable(h.Name, h.Players)
	if err != nil {
		return err
	}
	var deck *poker.CommunityDeck
	if h.Seed != 0 {
		deck = poker.NewCommunityDeck(rand.NewSource(h.Seed))
	} else {
		deck = poker.NewCommunityDeck(nil)
	}

	var round *game.BettingRound
	act := func(fn func(r *game.BettingRound) error) error {
		return fn(round)
	}
	if m == nil {
		round, err = game.Start(tbl, h.Config, deck)
		if err != nil {
			return err
		}
	} else {
		handID, err := m.StartRound(tbl, h.Config, deck)
		if err != nil {
			return err
		}
		// keep the round for verification after it leaves the manager
		err = m.Act(handID, func(r *game.BettingRound) error {
			round = r
			return nil
		})
		if err != nil {
			return err
		}
		act = func(fn func(r *game.BettingRound) error) error {
			if round.Street() == game.Complete {
				// ended rounds are no longer held by the manager
				return fn(round)
			}
			return m.Act(handID, fn)
		}
	}

	for i, step := range h.Steps {
		where := fmt.Sprintf("[step %d %s]", i+1, step.Verb)
		step := step
		err := act(func(r *game.BettingRound) error {
			return h.runStep(r, tbl, step)
		})
		if step.ExpectError != "" {
			if err == nil {
				h.result.addError(fmt.Errorf("%s Expected error %s, but the verb succeeded", where, step.ExpectError))
			} else if errorKind(err) != step.ExpectError {
				h.result.addError(fmt.Errorf("%s Expected error %s, got %s: %v", where, step.ExpectError, errorKind(err), err))
			}
		} else if err != nil {
			h.result.addError(fmt.Errorf("%s Unexpected error: %v", where, err))
			// later steps depend on this one
			return nil
		}
		if step.Verify != nil {
			h.verify(where, round, deck, step.Verify)
		}
	}
	return nil
}

func (h *HandScript) runStep(round *game.BettingRound, tbl *table.Table, step ScriptStep) error {
	if step.Verb == "verify" {
		return nil
	}
	player, ok := tbl.PlayerAt(step.Seat)
	if !ok || step.Player != "" {
		player = table.SeatedPlayer{Seat: step.Seat, Name: step.Player}
	}
	switch step.Verb {
	case "sb":
		return round.PostSmallBlind(player)
	case "bb":
		return round.PostBigBlind(player)
	case "check":
		return round.PlayerChecks(player)
	case "call":
		return round.PlayerCalls(player)
	case "raise":
		return round.PlayerRaises(player, step.Amount)
	case "allin":
		return round.PlayerPushesAllIn(player)
	case "fold":
		return round.PlayerFoldsHand(player)
	case "deal-flop":
		return round.DealFlop()
	case "deal-turn":
		return round.DealTurn()
	case "deal-river":
		return round.DealRiver()
	case "end":
		_, err := round.End()
		return err
	}
	return fmt.Errorf("Unknown verb: %s", step.Verb)
}

func (h *HandScript) verify(where string, round *game.BettingRound, deck *poker.CommunityDeck, v *StepVerify) {
	if v.Queue != nil {
		expected := make([]game.ActionEntry, len(v.Queue))
		for i, e := range v.Queue {
			expected[i] = game.ActionEntry{Seat: e.Seat, Status: e.Status}
		}
		if diff := cmp.Diff(expected, round.LeftToAct(), cmpopts.IgnoreFields(game.ActionEntry{}, "Player")); diff != "" {
			h.result.addError(fmt.Errorf("%s Action queue does not match (-want +got):\n%s", where, diff))
		}
	}
	if v.Street != "" && v.Street != round.Street().String() {
		h.result.addError(fmt.Errorf("%s Street does not match. Expected: %s actual: %s", where, v.Street, round.Street()))
	}
	if v.Complete != nil {
		complete := true
		for _, e := range round.LeftToAct() {
			if e.Status == game.StillToAct {
				complete = false
			}
		}
		if complete != *v.Complete {
			h.result.addError(fmt.Errorf("%s Street complete does not match. Expected: %v actual: %v", where, *v.Complete, complete))
		}
	}
	if v.Decided != nil && *v.Decided != round.IsDecided() {
		h.result.addError(fmt.Errorf("%s Hand decided does not match. Expected: %v actual: %v", where, *v.Decided, round.IsDecided()))
	}
	if v.Turn != nil || v.NoTurn {
		p, ok := round.WhosTurnIsIt()
		if v.NoTurn && ok {
			h.result.addError(fmt.Errorf("%s Expected nobody to act, but seat %d is to act", where, p.Seat))
		} else if v.Turn != nil && (!ok || p.Seat != *v.Turn) {
			h.result.addError(fmt.Errorf("%s Next action seat does not match. Expected: %d actual: %v", where, *v.Turn, p))
		}
	}
	if v.Pot != nil && *v.Pot != round.Pot() {
		h.result.addError(fmt.Errorf("%s Pot does not match. Expected: %s actual: %s", where, *v.Pot, round.Pot()))
	}
	if v.TotalPot != nil && *v.TotalPot != round.TotalPot() {
		h.result.addError(fmt.Errorf("%s Total pot does not match. Expected: %s actual: %s", where, *v.TotalPot, round.TotalPot()))
	}
	for seat, stack := range v.Stacks {
		if round.Stack(seat) != stack {
			h.result.addError(fmt.Errorf("%s Seat %d stack does not match. Expected: %s actual: %s", where, seat, stack, round.Stack(seat)))
		}
	}
	if v.Board != nil && len(deck.Board()) != *v.Board {
		h.result.addError(fmt.Errorf("%s Board does not match. Expected %d cards, actual: %d", where, *v.Board, len(deck.Board())))
	}
	if v.WonByDefault != nil {
		result, ok := round.Result()
		if !ok {
			h.result.addError(fmt.Errorf("%s Round has no result", where))
		} else if result.WonByDefault != *v.WonByDefault {
			h.result.addError(fmt.Errorf("%s Won by default does not match. Expected: %v actual: %v", where, *v.WonByDefault, result.WonByDefault))
		}
	}
}

// errorKind names a round error the way hand scripts refer to it.
func errorKind(err error) string {
	switch err.(type) {
	case game.NotFoundError:
		return "NotFound"
	case game.NotInHandError:
		return "NotInHand"
	case game.OutOfTurnError:
		return "OutOfTurn"
	case game.StreetNotCompleteError:
		return "StreetNotComplete"
	case game.InvalidInputError:
		return "InvalidInput"
	case game.UnexpectedStreetError:
		return "UnexpectedStreet"
	case game.HandDecidedError:
		return "HandDecided"
	case manager.RoundNotFoundError:
		return "RoundNotFound"
	}
	return "Unknown"
}
