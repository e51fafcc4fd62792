package calculator

import (
	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
	"github.com/andrescamacho/idleprofit-go/internal/domain/player"
	"github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
)

// PriceSource resolves the market or manual price of an item at an enhancement level
type PriceSource interface {
	Resolve(hrid string, level int) pricing.Resolution
}

// Env carries the read-only collaborators every calculator needs
type Env struct {
	Catalog gamedata.Catalog
	Prices  PriceSource
	Player  *player.Profile
	Markov  *MarkovCache
}

func (e Env) profile() *player.Profile {
	if e.Player == nil {
		return player.DefaultProfile()
	}
	return e.Player
}

func (e Env) markov() *MarkovCache {
	if e.Markov == nil {
		return NewMarkovCache()
	}
	return e.Markov
}
