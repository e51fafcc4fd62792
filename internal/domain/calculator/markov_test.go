package calculator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
)

func TestSolveEnhancement_SingleLevelIsGeometric(t *testing.T) {
	// Arrange
	key := calculator.MarkovKey{Target: 1, Protect: 1, Origin: 0, Escape: calculator.NoEscape}

	// Act
	result, err := calculator.SolveEnhancement(key, []float64{0.4})

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 2.5, result.Actions, 1e-9)
	assert.Equal(t, 0.0, result.Protects)
	assert.Equal(t, 0.0, result.Escapes())
}

func TestSolveEnhancement_TwoLevels(t *testing.T) {
	tests := []struct {
		name     string
		protect  int
		actions  float64
		protects float64
	}{
		// E0 = (1+p)/p^2 for p = 0.5 whether or not level 1 is protected
		{name: "protected from level one", protect: 1, actions: 6, protects: 1},
		{name: "unprotected", protect: 2, actions: 6, protects: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := calculator.MarkovKey{Target: 2, Protect: tt.protect, Origin: 0, Escape: calculator.NoEscape}

			result, err := calculator.SolveEnhancement(key, []float64{0.5, 0.5})

			require.NoError(t, err)
			assert.InDelta(t, tt.actions, result.Actions, 1e-9)
			assert.InDelta(t, tt.protects, result.Protects, 1e-9)
		})
	}
}

func TestSolveEnhancement_ProtectionShortensTheChain(t *testing.T) {
	rates := []float64{0.5, 0.45, 0.45, 0.4, 0.4}

	unprotected, err := calculator.SolveEnhancement(calculator.MarkovKey{Target: 5, Protect: 6, Escape: calculator.NoEscape}, rates)
	require.NoError(t, err)
	protected, err := calculator.SolveEnhancement(calculator.MarkovKey{Target: 5, Protect: 2, Escape: calculator.NoEscape}, rates)
	require.NoError(t, err)

	assert.Less(t, protected.Actions, unprotected.Actions)
	assert.Greater(t, protected.Protects, 0.0)
	assert.Equal(t, 0.0, unprotected.Protects)
}

func TestSolveEnhancement_LeapSkipsALevel(t *testing.T) {
	key := calculator.MarkovKey{Target: 2, Protect: 2, Escape: calculator.NoEscape, Leap: 0.5}

	result, err := calculator.SolveEnhancement(key, []float64{1, 1})

	require.NoError(t, err)
	assert.InDelta(t, 1.5, result.Actions, 1e-9)
}

func TestSolveEnhancement_EscapeRestartsFromOrigin(t *testing.T) {
	// Arrange: failing at level 1 falls to 0, which is the escape level
	key := calculator.MarkovKey{Target: 3, Protect: 2, Origin: 1, Escape: 0}

	// Act
	result, err := calculator.SolveEnhancement(key, []float64{0.5, 0.5, 0.5})

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 6, result.Actions, 1e-9)
	assert.InDelta(t, 1, result.Protects, 1e-9)
	assert.InDelta(t, 2, result.EscapesAtFloor, 1e-9)
	assert.InDelta(t, 0, result.EscapesAtLevel, 1e-9)
}

func TestSolveEnhancement_ProtectedEscapeLandsOnEscapeLevel(t *testing.T) {
	key := calculator.MarkovKey{Target: 3, Protect: 1, Origin: 2, Escape: 1}

	result, err := calculator.SolveEnhancement(key, []float64{0.5, 0.5, 0.5})

	require.NoError(t, err)
	// From 2 every failure is protected and drops to the escape level
	assert.InDelta(t, 2, result.Actions, 1e-9)
	assert.InDelta(t, 1, result.EscapesAtLevel, 1e-9)
	assert.InDelta(t, 1, result.Protects, 1e-9)
	assert.Equal(t, 0.0, result.EscapesAtFloor)
}

func TestSolveEnhancement_RejectsInvalidChains(t *testing.T) {
	tests := []struct {
		name  string
		key   calculator.MarkovKey
		rates []float64
	}{
		{name: "target not above origin", key: calculator.MarkovKey{Target: 2, Origin: 2, Escape: calculator.NoEscape}, rates: []float64{0.5, 0.5}},
		{name: "missing rates", key: calculator.MarkovKey{Target: 3, Escape: calculator.NoEscape}, rates: []float64{0.5}},
		{name: "escape not below origin", key: calculator.MarkovKey{Target: 3, Origin: 1, Escape: 1}, rates: []float64{0.5, 0.5, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calculator.SolveEnhancement(tt.key, tt.rates)
			assert.ErrorIs(t, err, calculator.ErrInvalidEnhancement)
		})
	}
}

func TestSolveEnhancement_ZeroSuccessIsUnreachable(t *testing.T) {
	_, err := calculator.SolveEnhancement(calculator.MarkovKey{Target: 1, Escape: calculator.NoEscape}, []float64{0})

	assert.ErrorIs(t, err, calculator.ErrUnreachableLevel)
}

type lookupCounter struct {
	hits, misses int
}

func (c *lookupCounter) RecordMarkovLookup(hit bool) {
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

func TestMarkovCache_SolvesEachKeyOnce(t *testing.T) {
	// Arrange
	cache := calculator.NewMarkovCache()
	counter := &lookupCounter{}
	cache.SetObserver(counter)
	key := calculator.MarkovKey{Target: 4, Protect: 2, Origin: 0, Escape: calculator.NoEscape, ItemLevel: 10}
	rates := []float64{0.5, 0.45, 0.45, 0.4}

	// Act
	first, err := cache.Lookup(key, rates)
	require.NoError(t, err)
	second, err := cache.Lookup(key, rates)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Solves())
	assert.Equal(t, 1, counter.hits)
	assert.Equal(t, 1, counter.misses)
}

func TestMarkovCache_Invalidate(t *testing.T) {
	cache := calculator.NewMarkovCache()
	key := calculator.MarkovKey{Target: 1, Protect: 1, Escape: calculator.NoEscape}

	_, err := cache.Lookup(key, []float64{0.5})
	require.NoError(t, err)
	cache.Invalidate()
	assert.Equal(t, 0, cache.Len())

	_, err = cache.Lookup(key, []float64{0.5})
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Solves())
}
