package game

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jxy918/casino-holdem/chips"
	"github.com/jxy918/casino-holdem/table"
)

type fixedRoster []table.SeatedPlayer

func (f fixedRoster) PlayersSatDown() []table.SeatedPlayer {
	return f
}

type countingDealer struct {
	dealt []int
}

func (d *countingDealer) DealCommunity(count int) {
	d.dealt = append(d.dealt, count)
}

func newRound(t *testing.T, n int, config RoundConfig) (*BettingRound, []table.SeatedPlayer) {
	t.Helper()
	players := seatedPlayers(n)
	tbl, err := table.NewTable("test", players)
	if err != nil {
		t.Fatal(err)
	}
	r, err := Start(tbl, config, nil)
	if err != nil {
		t.Fatal(err)
	}
	return r, players
}

func mustSucceed(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func verifyQueue(t *testing.T, r *BettingRound, expected []ActionEntry) {
	t.Helper()
	if diff := cmp.Diff(expected, r.LeftToAct()); diff != "" {
		t.Errorf("action queue mismatch (-want +got):\n%s", diff)
	}
}

func TestCompleteRoundLeftToAct(t *testing.T) {
	dealer := &countingDealer{}
	players := seatedPlayers(4)
	tbl, _ := table.NewTable("test", players)
	r, err := Start(tbl, RoundConfig{HandID: "hand-1"}, dealer)
	mustSucceed(t, err)
	p0, p1, p2, p3 := players[0], players[1], players[2], players[3]

	verifyQueue(t, r, []ActionEntry{
		entry(1, "bob", StillToAct),
		entry(2, "paul", StillToAct),
		entry(3, "tom", StillToAct),
		entry(0, "jane", StillToAct),
	})

	mustSucceed(t, r.PostSmallBlind(p1))
	mustSucceed(t, r.PostBigBlind(p2))
	mustSucceed(t, r.PlayerCalls(p3))
	mustSucceed(t, r.PlayerFoldsHand(p0))
	mustSucceed(t, r.PlayerCalls(p1))
	mustSucceed(t, r.PlayerChecks(p2))

	verifyQueue(t, r, []ActionEntry{
		entry(3, "tom", Actioned),
		entry(1, "bob", Actioned),
		entry(2, "paul", Actioned),
	})
	if r.TotalPot() != chips.FromAmount(150) {
		t.Errorf("expected 150 in front of the players, got %s", r.TotalPot())
	}

	mustSucceed(t, r.DealFlop())
	verifyQueue(t, r, []ActionEntry{
		entry(1, "bob", StillToAct),
		entry(2, "paul", StillToAct),
		entry(3, "tom", StillToAct),
	})
	if r.Pot() != chips.FromAmount(150) || r.StreetBet(1) != chips.Zero() {
		t.Errorf("bets should be collected on the flop. pot: %s", r.Pot())
	}

	mustSucceed(t, r.PlayerChecks(p1))
	mustSucceed(t, r.PlayerRaises(p2, chips.FromAmount(250)))
	mustSucceed(t, r.PlayerCalls(p3))
	mustSucceed(t, r.PlayerFoldsHand(p1))

	verifyQueue(t, r, []ActionEntry{
		entry(2, "paul", AggressivelyActioned),
		entry(3, "tom", Actioned),
	})

	mustSucceed(t, r.DealTurn())
	verifyQueue(t, r, []ActionEntry{
		entry(2, "paul", StillToAct),
		entry(3, "tom", StillToAct),
	})
	if r.Pot() != chips.FromAmount(650) {
		t.Errorf("expected pot 650 on the turn, got %s", r.Pot())
	}

	mustSucceed(t, r.PlayerRaises(p2, chips.FromAmount(450)))
	mustSucceed(t, r.PlayerCalls(p3))
	mustSucceed(t, r.DealRiver())

	mustSucceed(t, r.PlayerPushesAllIn(p2))
	mustSucceed(t, r.PlayerCalls(p3))
	verifyQueue(t, r, []ActionEntry{
		entry(2, "paul", AggressivelyActioned),
		entry(3, "tom", Actioned),
	})

	result, err := r.End()
	mustSucceed(t, err)
	expected := &RoundResult{
		HandID: "hand-1",
		Pot:    chips.FromAmount(2050),
		Contributions: map[uint32]chips.Chips{
			0: chips.Zero(),
			1: chips.FromAmount(50),
			2: chips.FromAmount(1000),
			3: chips.FromAmount(1000),
		},
		Remaining: []table.SeatedPlayer{
			{Seat: 2, Name: "paul", Stack: chips.Zero()},
			{Seat: 3, Name: "tom", Stack: chips.Zero()},
		},
		WonByDefault: false,
		CompletedAt:  River,
	}
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if r.Street() != Complete || len(r.LeftToAct()) != 0 {
		t.Errorf("round should be complete with an empty queue")
	}
	if diff := cmp.Diff([]int{3, 1, 1}, dealer.dealt); diff != "" {
		t.Errorf("community cards mismatch (-want +got):\n%s", diff)
	}
}

func TestHeadsUpFirstToActAfterFlop(t *testing.T) {
	r, players := newRound(t, 2, RoundConfig{})
	verifyQueue(t, r, []ActionEntry{
		entry(1, "bob", StillToAct),
		entry(0, "jane", StillToAct),
	})

	mustSucceed(t, r.PlayerChecks(players[1]))
	mustSucceed(t, r.PlayerChecks(players[0]))
	mustSucceed(t, r.DealFlop())

	p, ok := r.WhosTurnIsIt()
	if !ok {
		t.Fatal("expected a player to act")
	}
	if diff := cmp.Diff(players[1], p); diff != "" {
		t.Errorf("first to act mismatch (-want +got):\n%s", diff)
	}
}

// The queue is rebuilt from the button on every street, so heads-up the
// button (seat 0) never opens the action, preflop or on the flop.
func TestHeadsUpButtonCannotOpen(t *testing.T) {
	r, players := newRound(t, 2, RoundConfig{})
	err := r.PlayerChecks(players[0])
	if diff := cmp.Diff(OutOfTurnError{Seat: 0, Expected: 1}, err); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}

	// without turn-order checks seat 0 may go first, but the flop still
	// starts with seat 1
	none, players := newRound(t, 2, RoundConfig{TurnOrder: TurnOrderNone})
	mustSucceed(t, none.PlayerChecks(players[0]))
	mustSucceed(t, none.PlayerChecks(players[1]))
	mustSucceed(t, none.DealFlop())
	verifyQueue(t, none, []ActionEntry{
		entry(1, "bob", StillToAct),
		entry(0, "jane", StillToAct),
	})
	mustSucceed(t, none.PlayerChecks(players[0]))
	p, ok := none.WhosTurnIsIt()
	if !ok || p.Seat != 1 {
		t.Errorf("expected seat 1 to act, got %v", p)
	}
}

func TestActionedPlayerMovesToBack(t *testing.T) {
	r, players := newRound(t, 9, RoundConfig{})
	mustSucceed(t, r.PlayerCalls(players[1]))

	expected := make([]ActionEntry, 0, 9)
	for _, seat := range []int{2, 3, 4, 5, 6, 7, 8, 0} {
		expected = append(expected, entry(uint32(seat), players[seat].Name, StillToAct))
	}
	expected = append(expected, entry(1, "bob", Actioned))
	verifyQueue(t, r, expected)
}

func TestAllInReopensAction(t *testing.T) {
	r, players := newRound(t, 6, RoundConfig{})
	mustSucceed(t, r.PostSmallBlind(players[1]))
	mustSucceed(t, r.PostBigBlind(players[2]))
	mustSucceed(t, r.PlayerCalls(players[3]))
	mustSucceed(t, r.PlayerCalls(players[4]))
	mustSucceed(t, r.PlayerCalls(players[5]))
	mustSucceed(t, r.PlayerPushesAllIn(players[0]))

	verifyQueue(t, r, []ActionEntry{
		entry(1, "bob", StillToAct),
		entry(2, "paul", StillToAct),
		entry(3, "tom", StillToAct),
		entry(4, "dick", StillToAct),
		entry(5, "harry", StillToAct),
		entry(0, "jane", AggressivelyActioned),
	})
	if r.Stack(0) != chips.Zero() || r.StreetBet(0) != chips.FromAmount(1000) {
		t.Errorf("seat 0 should have pushed 1000. stack: %s", r.Stack(0))
	}
	if err := r.DealFlop(); err == nil {
		t.Errorf("flop should not be dealt while players are still to act")
	}
}

func TestFoldRemovesPlayer(t *testing.T) {
	r, players := newRound(t, 6, RoundConfig{})
	mustSucceed(t, r.PostSmallBlind(players[1]))
	mustSucceed(t, r.PostBigBlind(players[2]))
	mustSucceed(t, r.PlayerCalls(players[3]))
	mustSucceed(t, r.PlayerFoldsHand(players[4]))

	verifyQueue(t, r, []ActionEntry{
		entry(5, "harry", StillToAct),
		entry(0, "jane", StillToAct),
		entry(1, "bob", SmallBlind),
		entry(2, "paul", BigBlind),
		entry(3, "tom", Actioned),
	})

	mustSucceed(t, r.PlayerCalls(players[5]))
	mustSucceed(t, r.PlayerPushesAllIn(players[0]))

	verifyQueue(t, r, []ActionEntry{
		entry(1, "bob", StillToAct),
		entry(2, "paul", StillToAct),
		entry(3, "tom", StillToAct),
		entry(5, "harry", StillToAct),
		entry(0, "jane", AggressivelyActioned),
	})

	for _, p := range r.ActivePlayers() {
		if p.Seat == 4 {
			t.Errorf("folded seat 4 is still active")
		}
	}
}

func TestFoldedPlayerSkippedOnLaterStreets(t *testing.T) {
	r, players := newRound(t, 3, RoundConfig{})
	mustSucceed(t, r.PlayerFoldsHand(players[1]))
	mustSucceed(t, r.PlayerChecks(players[2]))
	mustSucceed(t, r.PlayerChecks(players[0]))
	mustSucceed(t, r.DealFlop())

	verifyQueue(t, r, []ActionEntry{
		entry(2, "paul", StillToAct),
		entry(0, "jane", StillToAct),
	})
}

func TestDealBeforeStreetComplete(t *testing.T) {
	r, players := newRound(t, 4, RoundConfig{})
	mustSucceed(t, r.PostSmallBlind(players[1]))
	mustSucceed(t, r.PostBigBlind(players[2]))
	before := r.LeftToAct()
	logLen := len(r.ActionLog())

	err := r.DealFlop()
	if diff := cmp.Diff(StreetNotCompleteError{Street: Preflop}, err); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}
	if r.Street() != Preflop {
		t.Errorf("street should not advance, got %s", r.Street())
	}
	verifyQueue(t, r, before)
	if r.TotalPot() != chips.FromAmount(75) || r.Pot() != chips.Zero() {
		t.Errorf("bets should not be collected. pot: %s total: %s", r.Pot(), r.TotalPot())
	}
	if len(r.ActionLog()) != logLen {
		t.Errorf("rejected deal should not be logged")
	}
}

func TestDealWrongStreet(t *testing.T) {
	r, _ := newRound(t, 2, RoundConfig{})
	err := r.DealTurn()
	if diff := cmp.Diff(UnexpectedStreetError{Action: ACTION_DEAL, Street: Preflop}, err); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}
	err = r.DealRiver()
	if _, ok := err.(UnexpectedStreetError); !ok {
		t.Errorf("expected UnexpectedStreetError, got %v", err)
	}
}

func TestOutOfTurn(t *testing.T) {
	r, players := newRound(t, 4, RoundConfig{})
	before := r.LeftToAct()

	err := r.PlayerChecks(players[3])
	if diff := cmp.Diff(OutOfTurnError{Seat: 3, Expected: 1}, err); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}
	verifyQueue(t, r, before)
	if r.Stack(3) != chips.FromAmount(1000) {
		t.Errorf("stack changed on rejected action")
	}
}

func TestTurnOrderPolicies(t *testing.T) {
	// blinds may come from any seat by default
	r, players := newRound(t, 4, RoundConfig{})
	mustSucceed(t, r.PostBigBlind(players[2]))
	mustSucceed(t, r.PostSmallBlind(players[1]))
	verifyQueue(t, r, []ActionEntry{
		entry(3, "tom", StillToAct),
		entry(0, "jane", StillToAct),
		entry(2, "paul", BigBlind),
		entry(1, "bob", SmallBlind),
	})

	strict, players := newRound(t, 4, RoundConfig{TurnOrder: TurnOrderStrict})
	err := strict.PostBigBlind(players[2])
	if diff := cmp.Diff(OutOfTurnError{Seat: 2, Expected: 1}, err); diff != "" {
		t.Errorf("strict: error mismatch (-want +got):\n%s", diff)
	}
	mustSucceed(t, strict.PostSmallBlind(players[1]))
	mustSucceed(t, strict.PostBigBlind(players[2]))

	none, players := newRound(t, 4, RoundConfig{TurnOrder: TurnOrderNone})
	mustSucceed(t, none.PlayerChecks(players[3]))
	verifyQueue(t, none, []ActionEntry{
		entry(1, "bob", StillToAct),
		entry(2, "paul", StillToAct),
		entry(0, "jane", StillToAct),
		entry(3, "tom", Actioned),
	})
}

func TestNotInHand(t *testing.T) {
	r, players := newRound(t, 3, RoundConfig{})
	mustSucceed(t, r.PlayerFoldsHand(players[1]))

	err := r.PlayerCalls(players[1])
	if diff := cmp.Diff(NotInHandError{Seat: 1, Player: "bob"}, err); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}

	stranger := table.SeatedPlayer{Seat: 2, Name: "mallory"}
	if _, ok := r.PlayerChecks(stranger).(NotInHandError); !ok {
		t.Errorf("a player not in the roster should be rejected")
	}
	if _, ok := r.PlayerFoldsHand(players[1]).(NotInHandError); !ok {
		t.Errorf("folding twice should be rejected")
	}
}

func TestHandDecidedByFolds(t *testing.T) {
	r, players := newRound(t, 2, RoundConfig{HandID: "decided"})
	mustSucceed(t, r.PostSmallBlind(players[1]))
	mustSucceed(t, r.PostBigBlind(players[0]))
	mustSucceed(t, r.PlayerFoldsHand(players[1]))

	if !r.IsDecided() {
		t.Fatal("hand should be decided")
	}
	if _, ok := r.WhosTurnIsIt(); ok {
		t.Errorf("nobody should be to act in a decided hand")
	}
	err := r.PlayerChecks(players[0])
	if diff := cmp.Diff(HandDecidedError{Remaining: 1}, err); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}
	if _, ok := r.DealFlop().(HandDecidedError); !ok {
		t.Errorf("dealing a decided hand should be rejected")
	}

	result, err := r.End()
	mustSucceed(t, err)
	if !result.WonByDefault || result.CompletedAt != Preflop {
		t.Errorf("unexpected result: %+v", result)
	}
	if diff := cmp.Diff([]table.SeatedPlayer{{Seat: 0, Name: "jane", Stack: chips.FromAmount(950)}}, result.Remaining); diff != "" {
		t.Errorf("remaining mismatch (-want +got):\n%s", diff)
	}
	if result.Pot != chips.FromAmount(75) {
		t.Errorf("expected pot 75, got %s", result.Pot)
	}
	stored, ok := r.Result()
	if !ok || stored != result {
		t.Errorf("result should be kept on the round")
	}
}

func TestActionsAfterEnd(t *testing.T) {
	r, players := newRound(t, 2, RoundConfig{})
	mustSucceed(t, r.PlayerChecks(players[1]))
	mustSucceed(t, r.PlayerChecks(players[0]))
	_, err := r.End()
	mustSucceed(t, err)

	err = r.PlayerChecks(players[1])
	if diff := cmp.Diff(UnexpectedStreetError{Action: ACTION_CHECK, Street: Complete}, err); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}
	_, err = r.End()
	if diff := cmp.Diff(UnexpectedStreetError{Action: ACTION_END, Street: Complete}, err); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}
	if _, ok := r.DealFlop().(UnexpectedStreetError); !ok {
		t.Errorf("dealing after the end should be rejected")
	}
}

func TestEndBeforeStreetComplete(t *testing.T) {
	r, _ := newRound(t, 3, RoundConfig{})
	_, err := r.End()
	if diff := cmp.Diff(StreetNotCompleteError{Street: Preflop}, err); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}
	if r.Street() != Preflop {
		t.Errorf("street changed on rejected end")
	}
}

func TestBlindsOnlyPreflop(t *testing.T) {
	r, players := newRound(t, 2, RoundConfig{})
	mustSucceed(t, r.PlayerChecks(players[1]))
	mustSucceed(t, r.PlayerChecks(players[0]))
	mustSucceed(t, r.DealFlop())

	err := r.PostSmallBlind(players[1])
	if diff := cmp.Diff(UnexpectedStreetError{Action: ACTION_SB, Street: Flop}, err); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}
}

func TestShortStackedBlind(t *testing.T) {
	players := []table.SeatedPlayer{
		{Seat: 0, Name: "jane", Stack: chips.FromAmount(1000)},
		{Seat: 1, Name: "bob", Stack: chips.FromAmount(1000)},
		{Seat: 2, Name: "paul", Stack: chips.FromAmount(30)},
	}
	r, err := Start(fixedRoster(players), RoundConfig{}, nil)
	mustSucceed(t, err)
	mustSucceed(t, r.PostSmallBlind(players[1]))
	mustSucceed(t, r.PostBigBlind(players[2]))
	if r.StreetBet(2) != chips.FromAmount(30) || r.Stack(2) != chips.Zero() {
		t.Errorf("big blind should be capped at the stack. bet: %s", r.StreetBet(2))
	}
	mustSucceed(t, r.PlayerCalls(players[0]))
	if r.StreetBet(0) != chips.FromAmount(30) {
		t.Errorf("call should match the highest bet. bet: %s", r.StreetBet(0))
	}
}

func TestInvalidRaise(t *testing.T) {
	r, players := newRound(t, 3, RoundConfig{})
	before := r.LeftToAct()

	if _, ok := r.PlayerRaises(players[1], chips.Zero()).(InvalidInputError); !ok {
		t.Errorf("zero raise should be rejected")
	}
	if _, ok := r.PlayerRaises(players[1], chips.FromAmount(1001)).(InvalidInputError); !ok {
		t.Errorf("raise above the stack should be rejected")
	}
	verifyQueue(t, r, before)
	if len(r.ActionLog()) != 0 {
		t.Errorf("rejected raises should not be logged")
	}
}

func TestStartValidation(t *testing.T) {
	_, err := Start(fixedRoster(seatedPlayers(1)), RoundConfig{}, nil)
	if _, ok := err.(InvalidInputError); !ok {
		t.Errorf("expected InvalidInputError for one player, got %v", err)
	}

	dup := seatedPlayers(2)
	dup[1].Seat = 0
	_, err = Start(fixedRoster(dup), RoundConfig{}, nil)
	if _, ok := err.(InvalidInputError); !ok {
		t.Errorf("expected InvalidInputError for duplicate seats, got %v", err)
	}

	_, err = Start(fixedRoster(seatedPlayers(2)), RoundConfig{TurnOrder: "random"}, nil)
	if _, ok := err.(InvalidInputError); !ok {
		t.Errorf("expected InvalidInputError for unknown policy, got %v", err)
	}
}

func TestStartWithButton(t *testing.T) {
	r, _ := newRound(t, 5, RoundConfig{ButtonSeat: 2})
	if diff := cmp.Diff([]uint32{3, 4, 0, 1, 2}, seatsOf(r.LeftToAct())); diff != "" {
		t.Errorf("seat order mismatch (-want +got):\n%s", diff)
	}
	if r.HandID() == "" {
		t.Errorf("hand id should be generated")
	}
}

func TestActionLog(t *testing.T) {
	r, players := newRound(t, 2, RoundConfig{})
	mustSucceed(t, r.PostSmallBlind(players[1]))
	mustSucceed(t, r.PostBigBlind(players[0]))
	mustSucceed(t, r.PlayerCalls(players[1]))
	mustSucceed(t, r.PlayerChecks(players[0]))
	mustSucceed(t, r.DealFlop())

	expected := []ActionRecord{
		{Seq: 1, Street: Preflop, Kind: ACTION_SB, Seat: SeatRef(1), Player: "bob", Amount: chips.FromAmount(25)},
		{Seq: 2, Street: Preflop, Kind: ACTION_BB, Seat: SeatRef(0), Player: "jane", Amount: chips.FromAmount(50)},
		{Seq: 3, Street: Preflop, Kind: ACTION_CALL, Seat: SeatRef(1), Player: "bob", Amount: chips.FromAmount(25)},
		{Seq: 4, Street: Preflop, Kind: ACTION_CHECK, Seat: SeatRef(0), Player: "jane", Amount: chips.Zero()},
		{Seq: 5, Street: Flop, Kind: ACTION_DEAL, Amount: chips.FromAmount(100)},
	}
	if diff := cmp.Diff(expected, r.ActionLog()); diff != "" {
		t.Errorf("action log mismatch (-want +got):\n%s", diff)
	}
}

func TestDealerRecordsCarryNoSeat(t *testing.T) {
	r, players := newRound(t, 2, RoundConfig{})
	mustSucceed(t, r.PlayerChecks(players[1]))
	mustSucceed(t, r.PlayerChecks(players[0]))
	mustSucceed(t, r.DealFlop())
	mustSucceed(t, r.PlayerChecks(players[1]))
	mustSucceed(t, r.PlayerChecks(players[0]))
	_, err := r.End()
	mustSucceed(t, err)

	for _, rec := range r.ActionLog() {
		dealer := rec.Kind == ACTION_DEAL || rec.Kind == ACTION_END
		if dealer && rec.Seat != nil {
			t.Errorf("%s record should carry no seat, got %d", rec.Kind, *rec.Seat)
		}
		if !dealer && rec.Seat == nil {
			t.Errorf("%s record by %s has no seat", rec.Kind, rec.Player)
		}
		data, err := json.Marshal(rec)
		mustSucceed(t, err)
		if dealer == strings.Contains(string(data), `"seat"`) {
			t.Errorf("unexpected seat field in %s", data)
		}
	}

	// the button at seat 0 still logs its seat
	records := r.ActionLog()
	if records[1].Seat == nil || *records[1].Seat != 0 {
		t.Errorf("seat 0 check should log seat 0: %+v", records[1])
	}
}
