package table

import (
	"fmt"
	"sort"

	"github.com/jxy918/casino-holdem/chips"
	"github.com/pkg/errors"
)

// SeatedPlayer is a player sitting at a table. Seat and Name identify the
// player; Stack is what the player brings into the next hand.
type SeatedPlayer struct {
	Seat  uint32      `yaml:"seat" json:"seat"`
	Name  string      `yaml:"name" json:"name"`
	Stack chips.Chips `yaml:"stack" json:"stack"`
}

// SameAs reports whether p and o are the same person in the same seat.
func (p SeatedPlayer) SameAs(o SeatedPlayer) bool {
	return p.Seat == o.Seat && p.Name == o.Name
}

func (p SeatedPlayer) String() string {
	return fmt.Sprintf("%d:%s", p.Seat, p.Name)
}

// RosterProvider yields the players currently sat down at a table.
type RosterProvider interface {
	PlayersSatDown() []SeatedPlayer
}

// Table is a simple roster provider. Seat assignment happens elsewhere;
// the table only keeps the result.
type Table struct {
	Name    string
	players []SeatedPlayer
}

func NewTable(name string, players []SeatedPlayer) (*Table, error) {
	if err := ValidateSeats(players); err != nil {
		return nil, err
	}
	sorted := make([]SeatedPlayer, len(players))
	copy(sorted, players)
	SortBySeat(sorted)
	return &Table{Name: name, players: sorted}, nil
}

// PlayersSatDown returns a copy of the roster in seat order.
func (t *Table) PlayersSatDown() []SeatedPlayer {
	players := make([]SeatedPlayer, len(t.players))
	copy(players, t.players)
	return players
}

// PlayerAt returns the player in the given seat.
func (t *Table) PlayerAt(seat uint32) (SeatedPlayer, bool) {
	for _, p := range t.players {
		if p.Seat == seat {
			return p, true
		}
	}
	return SeatedPlayer{}, false
}

// ValidateSeats makes sure no two players share a seat.
func ValidateSeats(players []SeatedPlayer) error {
	seen := make(map[uint32]string, len(players))
	for _, p := range players {
		if other, ok := seen[p.Seat]; ok {
			return errors.Errorf("Seat %d is taken by both %s and %s", p.Seat, other, p.Name)
		}
		seen[p.Seat] = p.Name
	}
	return nil
}

func SortBySeat(players []SeatedPlayer) {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Seat < players[j].Seat
	})
}
