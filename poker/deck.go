package poker

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/paulhankin/poker"
	"github.com/rs/zerolog/log"
)

var deckLogger = log.With().Str("logger_name", "poker::deck").Logger()

var suits = []poker.Suit{poker.Club, poker.Diamond, poker.Heart, poker.Spade}

var fullDeck []poker.Card

func init() {
	fullDeck = make([]poker.Card, 0, 52)
	for _, suit := range suits {
		for rank := poker.Rank(1); rank <= 13; rank++ {
			card, err := poker.MakeCard(suit, rank)
			if err != nil {
				panic(fmt.Sprintf("cannot make card suit: %d rank: %d: %v", suit, rank, err))
			}
			fullDeck = append(fullDeck, card)
		}
	}
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

// CommunityDeck deals the board for one hand. A card is burnt before each
// street is dealt.
type CommunityDeck struct {
	cards   []poker.Card
	burnt   []poker.Card
	board   []poker.Card
	randGen *rand.Rand
}

// NewCommunityDeck returns a shuffled deck. A nil source seeds from crypto/rand.
func NewCommunityDeck(source rand.Source) *CommunityDeck {
	if source == nil {
		source = newSeed()
	}
	deck := &CommunityDeck{randGen: rand.New(source)}
	deck.Shuffle()
	return deck
}

// NewCommunityDeckNoShuffle returns the deck in suit then rank order.
func NewCommunityDeckNoShuffle() *CommunityDeck {
	deck := &CommunityDeck{}
	deck.reset()
	return deck
}

func (d *CommunityDeck) reset() {
	d.cards = make([]poker.Card, len(fullDeck))
	copy(d.cards, fullDeck)
	d.burnt = make([]poker.Card, 0, 3)
	d.board = make([]poker.Card, 0, 5)
}

// Shuffle puts every card back and shuffles.
func (d *CommunityDeck) Shuffle() {
	d.reset()
	if d.randGen == nil {
		d.randGen = rand.New(newSeed())
	}
	d.randGen.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw takes n cards off the top, or fewer if the deck runs out.
func (d *CommunityDeck) Draw(n int) []poker.Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	cards := make([]poker.Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards
}

// DealCommunity burns one card and turns count cards onto the board.
func (d *CommunityDeck) DealCommunity(count int) {
	if count <= 0 {
		return
	}
	if len(d.cards) < count+1 {
		deckLogger.Error().
			Int("remaining", len(d.cards)).
			Int("count", count).
			Msg("Not enough cards left to deal the board")
		return
	}
	d.burnt = append(d.burnt, d.Draw(1)...)
	d.board = append(d.board, d.Draw(count)...)
	deckLogger.Debug().Int("board", len(d.board)).Msg("Community cards dealt")
}

func (d *CommunityDeck) Board() []poker.Card {
	board := make([]poker.Card, len(d.board))
	copy(board, d.board)
	return board
}

func (d *CommunityDeck) Burnt() []poker.Card {
	burnt := make([]poker.Card, len(d.burnt))
	copy(burnt, d.burnt)
	return burnt
}

func (d *CommunityDeck) Remaining() int {
	return len(d.cards)
}
