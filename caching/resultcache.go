package caches

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/jxy918/casino-holdem/game"
	"github.com/pkg/errors"
)

const DefaultResultCacheSize = 10000

// HandResultCache keeps the results of recently ended rounds for the
// showdown and pot award that run after the betting round.
type HandResultCache struct {
	results *lru.Cache
}

func NewResultCache(size int) (*HandResultCache, error) {
	if size <= 0 {
		size = DefaultResultCacheSize
	}
	results, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize hand result cache")
	}
	return &HandResultCache{results: results}, nil
}

func (c *HandResultCache) Add(result *game.RoundResult) error {
	if result == nil {
		return fmt.Errorf("Invalid round result [nil]")
	} else if result.HandID == "" {
		return fmt.Errorf("Invalid hand ID [%s]", result.HandID)
	}
	c.results.Add(result.HandID, result)
	return nil
}

func (c *HandResultCache) Get(handID string) (*game.RoundResult, bool) {
	v, exists := c.results.Get(handID)
	if !exists {
		return nil, false
	}
	return v.(*game.RoundResult), true
}

func (c *HandResultCache) Len() int {
	return c.results.Len()
}
