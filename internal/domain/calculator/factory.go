package calculator

import "fmt"

// New builds the calculator described by cfg. Invalid configs are rejected;
// configs naming unknown items or actions yield an unavailable calculator.
func New(env Env, cfg Config) (Calculator, error) {
	if _, ok := defaultProjects[cfg.Kind]; !ok || cfg.Kind == KindWorkflow {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, cfg.Kind)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case KindTransmute:
		return newBase(env, cfg, newTransmute()), nil
	case KindDecompose:
		return newBase(env, cfg, newDecompose()), nil
	case KindCoinify:
		return newBase(env, cfg, newCoinify()), nil
	case KindManufacture:
		return newBase(env, cfg, manufacture{}), nil
	case KindGather:
		return newBase(env, cfg, gather{}), nil
	default:
		return newEnhance(env, cfg), nil
	}
}
