package steps

import (
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	calculationQueries "github.com/andrescamacho/idleprofit-go/internal/application/calculation/queries"
	pricingCommands "github.com/andrescamacho/idleprofit-go/internal/application/pricing/commands"
	pricingQueries "github.com/andrescamacho/idleprofit-go/internal/application/pricing/queries"
	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
)

func registerCalculationSteps(sc *godog.ScenarioContext, ac *applicationContext) {
	sc.Step(`^I calculate "([^"]*)" of "([^"]*)"$`, ac.iCalculate)
	sc.Step(`^I calculate "([^"]*)" of "([^"]*)" again$`, ac.iCalculateAgain)
	sc.Step(`^the calculation should be available$`, ac.theCalculationShouldBeAvailable)
	sc.Step(`^the calculation should use a manual price$`, ac.theCalculationShouldUseAManualPrice)
	sc.Step(`^the calculation should not use a manual price$`, ac.theCalculationShouldNotUseAManualPrice)
	sc.Step(`^the profit per hour should have risen$`, ac.theProfitPerHourShouldHaveRisen)
	sc.Step(`^the profit per hour should be unchanged$`, ac.theProfitPerHourShouldBeUnchanged)
}

func registerPricingSteps(sc *godog.ScenarioContext, ac *applicationContext) {
	sc.Step(`^I set the manual (ask|bid) of "([^"]*)" to ([\d.]+)$`, ac.iSetTheManualPrice)
	sc.Step(`^the following manual prices are set:$`, ac.theFollowingManualPricesAreSet)
	sc.Step(`^I delete the manual price of "([^"]*)"$`, ac.iDeleteTheManualPrice)
	sc.Step(`^manual prices are (enabled|disabled)$`, ac.manualPricesAre)
	sc.Step(`^(\d+) manual prices? should be stored$`, ac.manualPricesShouldBeStored)
	sc.Step(`^the workspace should hold (\d+) manual prices?$`, ac.theWorkspaceShouldHoldManualPrices)
}

func (ac *applicationContext) calculate(kind, item string) (*calculationQueries.CalculationResponse, error) {
	response, err := ac.mediator.Send(ac.ctx, &calculationQueries.CalculateQuery{
		Config: calculator.Config{Kind: calculator.Kind(kind), Hrid: itemHrid(item), EscapeLevel: calculator.NoEscape},
	})
	if err != nil {
		return nil, err
	}
	return response.(*calculationQueries.CalculationResponse), nil
}

func (ac *applicationContext) iCalculate(kind, item string) error {
	ac.calculation, ac.err = ac.calculate(kind, item)
	return nil
}

// iCalculateAgain keeps the first calculation as the baseline for comparisons
func (ac *applicationContext) iCalculateAgain(kind, item string) error {
	if ac.calculation == nil {
		return fmt.Errorf("no earlier calculation to compare with")
	}
	again, err := ac.calculate(kind, item)
	if err != nil {
		return err
	}
	ac.previousProfitPH = ac.calculation.Result.ProfitPH
	ac.calculation = again
	return nil
}

func (ac *applicationContext) currentResult() (calculator.Result, error) {
	if ac.err != nil {
		return calculator.Result{}, fmt.Errorf("calculation failed: %w", ac.err)
	}
	if ac.calculation == nil {
		return calculator.Result{}, fmt.Errorf("no calculation ran")
	}
	return ac.calculation.Result, nil
}

func (ac *applicationContext) theCalculationShouldBeAvailable() error {
	result, err := ac.currentResult()
	if err != nil {
		return err
	}
	if !result.Available {
		return fmt.Errorf("expected %s to be available", result.Hrid)
	}
	return nil
}

func (ac *applicationContext) theCalculationShouldUseAManualPrice() error {
	result, err := ac.currentResult()
	if err != nil {
		return err
	}
	if !result.HasManualPrice {
		return fmt.Errorf("expected %s to use a manual price", result.Hrid)
	}
	return nil
}

func (ac *applicationContext) theCalculationShouldNotUseAManualPrice() error {
	result, err := ac.currentResult()
	if err != nil {
		return err
	}
	if result.HasManualPrice {
		return fmt.Errorf("expected %s to be priced at market", result.Hrid)
	}
	return nil
}

func (ac *applicationContext) theProfitPerHourShouldHaveRisen() error {
	result, err := ac.currentResult()
	if err != nil {
		return err
	}
	if result.ProfitPH <= ac.previousProfitPH {
		return fmt.Errorf("expected profit/h above %.2f, got %.2f", ac.previousProfitPH, result.ProfitPH)
	}
	return nil
}

func (ac *applicationContext) theProfitPerHourShouldBeUnchanged() error {
	result, err := ac.currentResult()
	if err != nil {
		return err
	}
	return expectClose("profit/h", ac.previousProfitPH, result.ProfitPH)
}

func (ac *applicationContext) iSetTheManualPrice(side, item string, price float64) error {
	override := pricing.Override{Hrid: itemHrid(item)}
	manual := pricing.ManualPrice{Manual: true, Price: price}
	if side == "ask" {
		override.Ask = manual
	} else {
		override.Bid = manual
	}
	_, ac.err = ac.mediator.Send(ac.ctx, &pricingCommands.SetPriceOverrideCommand{Override: override})
	return ac.err
}

// theFollowingManualPricesAreSet reads rows of item, level, ask and bid; an empty side stays at market
func (ac *applicationContext) theFollowingManualPricesAreSet(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		override := pricing.Override{Hrid: itemHrid(cellValue(table, row, "item"))}
		if level := cellValue(table, row, "level"); level != "" {
			n, err := strconv.Atoi(level)
			if err != nil {
				return fmt.Errorf("invalid level %q: %w", level, err)
			}
			override.Level = n
		}
		for column, side := range map[string]*pricing.ManualPrice{"ask": &override.Ask, "bid": &override.Bid} {
			value := cellValue(table, row, column)
			if value == "" {
				continue
			}
			price, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", column, value, err)
			}
			*side = pricing.ManualPrice{Manual: true, Price: price}
		}
		if _, err := ac.mediator.Send(ac.ctx, &pricingCommands.SetPriceOverrideCommand{Override: override}); err != nil {
			return err
		}
	}
	return nil
}

// cellValue looks a column up by the header in the first row
func cellValue(table *godog.Table, row *messages.PickleTableRow, column string) string {
	if len(table.Rows) == 0 {
		return ""
	}
	for i, header := range table.Rows[0].Cells {
		if header.Value == column && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

func (ac *applicationContext) iDeleteTheManualPrice(item string) error {
	_, ac.err = ac.mediator.Send(ac.ctx, &pricingCommands.DeletePriceOverrideCommand{Hrid: itemHrid(item)})
	return nil
}

func (ac *applicationContext) manualPricesAre(state string) error {
	_, err := ac.mediator.Send(ac.ctx, &pricingCommands.SetOverridesActiveCommand{Active: state == "enabled"})
	return err
}

func (ac *applicationContext) manualPricesShouldBeStored(count int) error {
	response, err := ac.mediator.Send(ac.ctx, &pricingQueries.ListPriceOverridesQuery{})
	if err != nil {
		return err
	}
	stored := response.(*pricingQueries.ListPriceOverridesResponse).Overrides
	if len(stored) != count {
		return fmt.Errorf("expected %d stored manual prices, got %d", count, len(stored))
	}
	return nil
}

func (ac *applicationContext) theWorkspaceShouldHoldManualPrices(count int) error {
	if got := len(ac.workspace.Overrides()); got != count {
		return fmt.Errorf("expected %d manual prices in the workspace, got %d", count, got)
	}
	return nil
}
