package calculator

import "github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"

// MarketTax is the flat fee taken on every sale
const MarketTax = 0.02

// HourlyInput are the per-action figures the hourly economics derive from
type HourlyInput struct {
	TimeCost    float64
	Efficiency  float64
	SuccessRate float64
	Cost        float64
	Income      float64
}

// Hourly are the per-hour economics of a calculator
type Hourly struct {
	ActionsPH  float64 `json:"actionsPH"`
	ConsumePH  float64 `json:"consumePH"`
	GainPH     float64 `json:"gainPH"`
	CostPH     float64 `json:"costPH"`
	IncomePH   float64 `json:"incomePH"`
	ProfitPH   float64 `json:"profitPH"`
	ProfitRate float64 `json:"profitRate"`
}

// ProfitPerDay scales the hourly profit to a day
func (h Hourly) ProfitPerDay() float64 {
	return h.ProfitPH * 24
}

// ActionsPerHour is the number of actions completed in one hour, efficiency included
func ActionsPerHour(timeCost, efficiency float64) float64 {
	if timeCost <= 0 {
		return 0
	}
	return gamedata.Hour / timeCost * efficiency
}

// ComputeHourly is the only conversion from per-action to per-hour figures
func ComputeHourly(in HourlyInput) Hourly {
	actions := ActionsPerHour(in.TimeCost, in.Efficiency)
	h := Hourly{
		ActionsPH: actions,
		ConsumePH: actions,
		GainPH:    actions * in.SuccessRate,
	}
	h.CostPH = in.Cost * h.ConsumePH
	h.IncomePH = in.Income * h.GainPH
	h.ProfitPH = h.IncomePH - h.CostPH
	h.ProfitRate = profitRate(h.ProfitPH, h.CostPH)
	return h
}

func profitRate(profitPH, costPH float64) float64 {
	if costPH == 0 {
		return 0
	}
	return profitPH / costPH
}

// scale multiplies every extensive figure by a workflow stage multiplier
func (h Hourly) scale(m float64) Hourly {
	return Hourly{
		ActionsPH:  h.ActionsPH * m,
		ConsumePH:  h.ConsumePH * m,
		GainPH:     h.GainPH * m,
		CostPH:     h.CostPH * m,
		IncomePH:   h.IncomePH * m,
		ProfitPH:   h.ProfitPH * m,
		ProfitRate: h.ProfitRate,
	}
}
