package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
)

const tolerance = 1e-9

type markovContext struct {
	key       calculator.MarkovKey
	rates     []float64
	result    calculator.Enhancement
	protected calculator.Enhancement
	err       error
}

func (mc *markovContext) reset() {
	mc.key = calculator.MarkovKey{Escape: calculator.NoEscape}
	mc.rates = nil
	mc.result = calculator.Enhancement{}
	mc.protected = calculator.Enhancement{}
	mc.err = nil
}

// InitializeMarkovScenario registers the enhancement chain steps
func InitializeMarkovScenario(sc *godog.ScenarioContext) {
	mc := &markovContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		mc.reset()
		return ctx, nil
	})

	sc.Step(`^an enhancement chain to level (\d+) protected from level (\d+)$`, mc.anEnhancementChain)
	sc.Step(`^an enhancement chain to level (\d+) protected from level (\d+) starting at level (\d+)$`, mc.anEnhancementChainFrom)
	sc.Step(`^an escape level of (\d+)$`, mc.anEscapeLevelOf)
	sc.Step(`^success rates "([^"]*)"$`, mc.successRates)

	sc.Step(`^I solve the chain$`, mc.iSolveTheChain)
	sc.Step(`^I solve the same chain protected from level (\d+)$`, mc.iSolveTheSameChainProtectedFrom)

	sc.Step(`^the expected attempts should be ([\d.]+)$`, mc.theExpectedAttemptsShouldBe)
	sc.Step(`^the expected protections should be ([\d.]+)$`, mc.theExpectedProtectionsShouldBe)
	sc.Step(`^the expected escapes should be ([\d.]+)$`, mc.theExpectedEscapesShouldBe)
	sc.Step(`^the protected chain should take fewer attempts$`, mc.theProtectedChainShouldTakeFewerAttempts)
	sc.Step(`^the protected chain should consume protections$`, mc.theProtectedChainShouldConsumeProtections)
	sc.Step(`^the chain should be rejected as invalid$`, mc.theChainShouldBeRejectedAsInvalid)
}

func (mc *markovContext) anEnhancementChain(target, protect int) error {
	return mc.anEnhancementChainFrom(target, protect, 0)
}

func (mc *markovContext) anEnhancementChainFrom(target, protect, origin int) error {
	mc.key.Target = target
	mc.key.Protect = protect
	mc.key.Origin = origin
	return nil
}

func (mc *markovContext) anEscapeLevelOf(level int) error {
	mc.key.Escape = level
	return nil
}

func (mc *markovContext) successRates(list string) error {
	mc.rates = nil
	for _, field := range strings.Split(list, ",") {
		rate, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return fmt.Errorf("invalid success rate %q: %w", field, err)
		}
		mc.rates = append(mc.rates, rate)
	}
	return nil
}

func (mc *markovContext) iSolveTheChain() error {
	mc.result, mc.err = calculator.SolveEnhancement(mc.key, mc.rates)
	return nil
}

func (mc *markovContext) iSolveTheSameChainProtectedFrom(protect int) error {
	key := mc.key
	key.Protect = protect
	var err error
	mc.protected, err = calculator.SolveEnhancement(key, mc.rates)
	return err
}

func (mc *markovContext) solved() error {
	if mc.err != nil {
		return fmt.Errorf("expected the chain to solve, got: %w", mc.err)
	}
	return nil
}

func expectClose(label string, want, got float64) error {
	if math.Abs(want-got) > tolerance {
		return fmt.Errorf("expected %s %.6f, got %.6f", label, want, got)
	}
	return nil
}

func (mc *markovContext) theExpectedAttemptsShouldBe(want float64) error {
	if err := mc.solved(); err != nil {
		return err
	}
	return expectClose("attempts", want, mc.result.Actions)
}

func (mc *markovContext) theExpectedProtectionsShouldBe(want float64) error {
	if err := mc.solved(); err != nil {
		return err
	}
	return expectClose("protections", want, mc.result.Protects)
}

func (mc *markovContext) theExpectedEscapesShouldBe(want float64) error {
	if err := mc.solved(); err != nil {
		return err
	}
	return expectClose("escapes", want, mc.result.Escapes())
}

func (mc *markovContext) theProtectedChainShouldTakeFewerAttempts() error {
	if err := mc.solved(); err != nil {
		return err
	}
	if mc.protected.Actions >= mc.result.Actions {
		return fmt.Errorf("expected protected attempts %.3f below %.3f", mc.protected.Actions, mc.result.Actions)
	}
	return nil
}

func (mc *markovContext) theProtectedChainShouldConsumeProtections() error {
	if mc.protected.Protects <= 0 {
		return fmt.Errorf("expected protections to be consumed, got %.3f", mc.protected.Protects)
	}
	return nil
}

func (mc *markovContext) theChainShouldBeRejectedAsInvalid() error {
	if !errors.Is(mc.err, calculator.ErrInvalidEnhancement) {
		return fmt.Errorf("expected ErrInvalidEnhancement, got %v", mc.err)
	}
	return nil
}
