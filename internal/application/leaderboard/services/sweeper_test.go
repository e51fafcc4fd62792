package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/application/common"
	"github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/services"
	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
	"github.com/andrescamacho/idleprofit-go/test/helpers"
)

type recordingObserver struct {
	sweeps   []services.SweepStats
	failures []string
}

func (o *recordingObserver) RecordSweep(stats services.SweepStats) {
	o.sweeps = append(o.sweeps, stats)
}

func (o *recordingObserver) RecordCandidateFailure(_ services.SweepKind, candidateKind string) {
	o.failures = append(o.failures, candidateKind)
}

type recordingLogger struct {
	messages []string
	metadata []map[string]interface{}
}

func (l *recordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.messages = append(l.messages, level+" "+message)
	l.metadata = append(l.metadata, metadata)
}

func newSweeper(observer services.SweepObserver) *services.Sweeper {
	return services.NewSweeper(observer, shared.NewMockClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func configCandidate(cfg calculator.Config) services.Candidate {
	return services.Candidate{
		Kind: string(cfg.Kind),
		Hrid: cfg.Hrid,
		Build: func(env calculator.Env) (calculator.Calculator, error) {
			return calculator.New(env, cfg)
		},
	}
}

func TestSweep_ManufactureKeepsOnlyAvailableRows(t *testing.T) {
	// Arrange
	env := helpers.NewTestEnv(t, nil)
	observer := &recordingObserver{}

	// Act
	rows, err := newSweeper(observer).Sweep(context.Background(), services.SweepManufacture, env)

	// Assert
	require.NoError(t, err)
	hrids := make(map[string]bool)
	for _, row := range rows {
		assert.True(t, row.Available)
		hrids[row.Hrid] = true
	}
	assert.True(t, hrids[helpers.CheeseHrid])
	assert.True(t, hrids[helpers.LumberHrid])
	assert.False(t, hrids[helpers.MilkHrid])

	require.Len(t, observer.sweeps, 1)
	assert.Equal(t, len(env.Catalog.Items())*5, observer.sweeps[0].Evaluated)
	assert.Equal(t, len(rows), observer.sweeps[0].Kept)
	assert.Zero(t, observer.sweeps[0].Failed)
}

func TestSweep_RowsCarryStorage(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)

	rows, err := newSweeper(nil).Sweep(context.Background(), services.SweepAlchemy, env)

	require.NoError(t, err)
	require.NotEmpty(t, rows)
	for _, row := range rows {
		require.NotNil(t, row.Storage.Config)
		assert.Equal(t, row.Hrid, row.Storage.Config.Hrid)
		assert.Equal(t, row.ID, row.Storage.ID)
	}
}

func TestNewRow_ClassifiesItem(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)
	cases := []struct {
		hrid                      string
		equipment, jewelry, charm bool
	}{
		{helpers.LuckyCharmHrid, true, false, true},
		{helpers.CheeseRingHrid, true, true, false},
		{helpers.CheeseSwordHrid, true, false, false},
		{helpers.CheeseHrid, false, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.hrid, func(t *testing.T) {
			c, err := calculator.New(env, calculator.Config{Kind: calculator.KindCoinify, Hrid: tc.hrid, EscapeLevel: calculator.NoEscape})
			require.NoError(t, err)

			row := services.NewRow(c)

			assert.Equal(t, tc.equipment, row.Equipment)
			assert.Equal(t, tc.jewelry, row.Jewelry)
			assert.Equal(t, tc.charm, row.Charm)
		})
	}
}

func TestSweepCandidates_RecoversPanicsAndSkipsErrors(t *testing.T) {
	// Arrange
	env := helpers.NewTestEnv(t, nil)
	observer := &recordingObserver{}
	logger := &recordingLogger{}
	ctx := common.WithLogger(context.Background(), logger)

	candidates := []services.Candidate{
		{
			Kind: "transmute", Hrid: "/items/boom", Project: "Transmute", Action: "alchemy",
			Build: func(calculator.Env) (calculator.Calculator, error) { panic("index out of range") },
		},
		{
			Kind: "decompose", Hrid: "/items/broken",
			Build: func(calculator.Env) (calculator.Calculator, error) { return nil, errors.New("bad config") },
		},
		configCandidate(calculator.Config{Kind: calculator.KindCoinify, Hrid: helpers.HolyCheeseHrid, EscapeLevel: calculator.NoEscape}),
	}

	// Act
	rows, err := newSweeper(observer).SweepCandidates(ctx, services.SweepAlchemy, env, candidates)

	// Assert
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, helpers.HolyCheeseHrid, rows[0].Hrid)
	assert.Equal(t, []string{"transmute", "decompose"}, observer.failures)
	assert.Equal(t, 2, observer.sweeps[0].Failed)

	require.GreaterOrEqual(t, len(logger.messages), 2)
	assert.Equal(t, "WARNING Skipping candidate", logger.messages[0])
	assert.Equal(t, "/items/boom", logger.metadata[0]["hrid"])
	assert.Contains(t, logger.metadata[0]["error"], "panic: index out of range")
}

func TestSweepCandidates_KeepsBestOfGroup(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)
	var candidates []services.Candidate
	for rank := 0; rank <= 2; rank++ {
		c := configCandidate(calculator.Config{Kind: calculator.KindCoinify, Hrid: helpers.HolyCheeseHrid, CatalystRank: rank, EscapeLevel: calculator.NoEscape})
		c.Group = "holy"
		candidates = append(candidates, c)
	}

	rows, err := newSweeper(nil).SweepCandidates(context.Background(), services.SweepAlchemy, env, candidates)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	for _, c := range candidates {
		calc, err := c.Build(env)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rows[0].ProfitPH, calc.Run().ProfitPH)
	}
}

func TestSweepCandidates_SkipsUnviableWithoutBuilding(t *testing.T) {
	// Arrange
	env := helpers.NewTestEnv(t, nil)
	observer := &recordingObserver{}
	built := false
	candidate := services.Candidate{
		Kind:   string(calculator.KindWorkflow),
		Viable: func(calculator.Env) bool { return false },
		Build: func(calculator.Env) (calculator.Calculator, error) {
			built = true
			return nil, errors.New("should not build")
		},
	}

	// Act
	rows, err := newSweeper(observer).SweepCandidates(context.Background(), services.SweepEnhance, env, []services.Candidate{candidate})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.False(t, built)
	require.Len(t, observer.sweeps, 1)
	assert.Equal(t, 1, observer.sweeps[0].Evaluated)
	assert.Zero(t, observer.sweeps[0].Failed)
}

func TestSweepCandidates_UnprofitableEnhancePlansSkipTheSolve(t *testing.T) {
	// Arrange: +0 to +1 on the cheese sword is bounded at -90
	env := helpers.NewTestEnv(t, nil)
	var candidates []services.Candidate
	for _, c := range services.Candidates(services.SweepEnhance, env.Catalog) {
		if c.Group == helpers.CheeseSwordHrid+"@1" {
			candidates = append(candidates, c)
		}
	}
	require.Len(t, candidates, 3)

	// Act
	rows, err := newSweeper(nil).SweepCandidates(context.Background(), services.SweepEnhance, env, candidates)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 0, env.Markov.Solves())
}

func TestSweep_StopsOnCancellation(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSweeper(nil).Sweep(ctx, services.SweepAlchemy, env)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweep_RequiresGameData(t *testing.T) {
	_, err := newSweeper(nil).Sweep(context.Background(), services.SweepAlchemy, calculator.Env{})

	assert.Error(t, err)
}
