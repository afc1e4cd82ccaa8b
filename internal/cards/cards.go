// Package cards draws the seeded sample of accidents that makes up a top
// trumps deck.
package cards

import (
	"math/rand/v2"

	"github.com/rotisserie/eris"

	"github.com/sells-group/schlagwetter/internal/model"
)

// DefaultCount is the number of cards in a deck.
const DefaultCount = 64

// MaxSeed bounds generated seeds.
const MaxSeed = 1_000_000_000_000

// ErrSampleTooLarge is returned when the deck needs more cards than there
// are accidents.
var ErrSampleTooLarge = eris.New("cards: sample larger than population")

// RandomSeed returns a fresh seed in [0, MaxSeed].
func RandomSeed() int64 {
	return rand.Int64N(MaxSeed + 1)
}

func newRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// Draw picks n distinct records without replacement. The same seed and
// records always give the same picks in the same order.
func Draw(records []model.Accident, n int, seed int64) ([]model.Accident, error) {
	if n < 0 || n > len(records) {
		return nil, eris.Wrapf(ErrSampleTooLarge, "want %d of %d", n, len(records))
	}

	r := newRand(seed)
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	// Partial Fisher-Yates: the first n slots end up holding the sample.
	for i := 0; i < n; i++ {
		j := i + r.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	out := make([]model.Accident, n)
	for i := 0; i < n; i++ {
		out[i] = records[idx[i]]
	}
	return out, nil
}

// Project maps an accident onto a card. Only the dead count is filled.
func Project(a model.Accident, s model.Schema) (model.Card, error) {
	dc, err := model.ParseDeadCount(a, s)
	if err != nil {
		return model.Card{}, err
	}
	return model.Card{NoOfDead: dc.Resolve()}, nil
}

// BuildDeck draws n accidents with seed and projects each onto a card.
func BuildDeck(records []model.Accident, n int, seed int64, s model.Schema) (*model.Deck, error) {
	sample, err := Draw(records, n, seed)
	if err != nil {
		return nil, err
	}

	deck := &model.Deck{Seed: seed, Cards: make([]model.Card, 0, n)}
	for i, a := range sample {
		card, err := Project(a, s)
		if err != nil {
			return nil, eris.Wrapf(err, "cards: project card %d", i)
		}
		deck.Cards = append(deck.Cards, card)
	}
	return deck, nil
}
