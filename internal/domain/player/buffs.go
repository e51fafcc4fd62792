package player

// Buffs are the effective bonuses for one action type after gear, house and drinks.
// Every field except PlayerLevel is a ratio (0.1 = +10%).
type Buffs struct {
	PlayerLevel        float64
	Efficiency         float64
	Speed              float64
	Success            float64
	Artisan            float64
	Gourmet            float64
	Gathering          float64
	Processing         float64
	Blessed            float64
	RareFind           float64
	EssenceFind        float64
	Experience         float64
	DrinkConcentration float64
	Teas               []string
}

// AlchemySuccessRatio is the success penalty for transmuting, decomposing or coinifying an item above the player's level
func (b Buffs) AlchemySuccessRatio(itemLevel int) float64 {
	if itemLevel <= 0 || b.PlayerLevel >= float64(itemLevel) {
		return 0
	}
	return -0.9 * (1 - b.PlayerLevel/float64(itemLevel))
}

// EnhanceSuccessRatio is the multiplicative adjustment applied to the base enhancement success rate
func (b Buffs) EnhanceSuccessRatio(itemLevel int) float64 {
	var levelRatio float64
	if b.PlayerLevel >= float64(itemLevel) {
		levelRatio = (b.PlayerLevel - float64(itemLevel)) * 0.0005
	} else {
		levelRatio = -0.5 * (1 - b.PlayerLevel/float64(itemLevel))
	}
	return levelRatio + b.Success
}

// EnhanceSpeed is the speed bonus for enhancing an item, including the level overage bonus
func (b Buffs) EnhanceSpeed(itemLevel int) float64 {
	overage := b.PlayerLevel - float64(itemLevel)
	if overage < 0 {
		overage = 0
	}
	return b.Speed + overage*0.01
}

// TeasPerHour is how many drinks are consumed per hour of continuous work
func (b Buffs) TeasPerHour() float64 {
	return 3600.0 / 300.0 * (1 + b.DrinkConcentration)
}
