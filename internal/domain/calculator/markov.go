package calculator

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// MarkovKey identifies one enhancement chain. SuccessRatio and Leap carry the player's
// buffs so a cache shared across profiles never mixes results.
type MarkovKey struct {
	Target       int
	Protect      int
	Origin       int
	Escape       int
	ItemLevel    int
	SuccessRatio float64
	Leap         float64
}

// Enhancement is the expected cost of taking one item from Origin to Target
type Enhancement struct {
	// Actions is the expected number of attempts
	Actions float64 `json:"actions"`
	// Protects is the expected number of protection items consumed
	Protects float64 `json:"protects"`
	// EscapesAtFloor counts unprotected failures that escape at level 0
	EscapesAtFloor float64 `json:"escapesAtFloor"`
	// EscapesAtLevel counts protected failures that land on the escape level
	EscapesAtLevel float64 `json:"escapesAtLevel"`
}

// Escapes is the expected number of items lost to escapes, each replaced by a fresh origin item
func (e Enhancement) Escapes() float64 {
	return e.EscapesAtFloor + e.EscapesAtLevel
}

// SolveEnhancement computes the absorption expectations of the enhancement chain.
//
// States 0..Target-1 are transient. From level i an attempt succeeds with
// s = min(1, rates[i]*(1+SuccessRatio)); a Leap share of successes skips a level.
// A failure at or above Protect (and above 0) costs a protection item and drops one
// level; any other failure drops to 0. With Escape >= 0, a failure landing at or below
// the escape level abandons the item and restarts the chain at Origin.
func SolveEnhancement(key MarkovKey, rates []float64) (Enhancement, error) {
	n := key.Target
	if n <= 0 || key.Origin < 0 || key.Origin >= n {
		return Enhancement{}, fmt.Errorf("%w: target %d origin %d", ErrInvalidEnhancement, key.Target, key.Origin)
	}
	if len(rates) < n {
		return Enhancement{}, fmt.Errorf("%w: no success rate for level %d", ErrInvalidEnhancement, len(rates))
	}
	if key.Escape != NoEscape && key.Escape >= key.Origin {
		return Enhancement{}, fmt.Errorf("%w: escape %d not below origin %d", ErrInvalidEnhancement, key.Escape, key.Origin)
	}

	a := mat.NewDense(n, n, nil)
	protectFail := make([]float64, n)
	floorEscape := make([]float64, n)
	levelEscape := make([]float64, n)
	ones := make([]float64, n)

	for i := 0; i < n; i++ {
		ones[i] = 1
		a.Set(i, i, 1)

		s := clamp01(rates[i] * (1 + key.SuccessRatio))
		if i+1 < n {
			a.Set(i, i+1, a.At(i, i+1)-s*(1-key.Leap))
		}
		if i+2 < n {
			a.Set(i, i+2, a.At(i, i+2)-s*key.Leap)
		}

		fail := 1 - s
		if fail == 0 {
			continue
		}
		landing := 0
		protected := i >= key.Protect && i > 0
		if protected {
			protectFail[i] = fail
			landing = i - 1
		}
		if key.Escape != NoEscape && landing <= key.Escape {
			if protected {
				levelEscape[i] = fail
			} else {
				floorEscape[i] = fail
			}
			landing = key.Origin
		}
		a.Set(i, landing, a.At(i, landing)-fail)
	}

	var lu mat.LU
	lu.Factorize(a)

	solve := func(rhs []float64) (float64, error) {
		var x mat.VecDense
		if err := lu.SolveVecTo(&x, false, mat.NewVecDense(n, rhs)); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrUnreachableLevel, err)
		}
		v := x.AtVec(key.Origin)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return 0, ErrUnreachableLevel
		}
		return v, nil
	}

	var out Enhancement
	var err error
	if out.Actions, err = solve(ones); err != nil {
		return Enhancement{}, err
	}
	if out.Protects, err = solve(protectFail); err != nil {
		return Enhancement{}, err
	}
	if out.EscapesAtFloor, err = solve(floorEscape); err != nil {
		return Enhancement{}, err
	}
	if out.EscapesAtLevel, err = solve(levelEscape); err != nil {
		return Enhancement{}, err
	}
	if out.Actions <= 0 {
		return Enhancement{}, ErrUnreachableLevel
	}
	return out, nil
}

// MarkovObserver is notified of every cache lookup
type MarkovObserver interface {
	RecordMarkovLookup(hit bool)
}

type markovEntry struct {
	result Enhancement
	err    error
}

// MarkovCache memoizes SolveEnhancement per key. It must be invalidated when the
// success-rate table or the player profile changes.
type MarkovCache struct {
	mu       sync.Mutex
	entries  map[MarkovKey]markovEntry
	solves   int
	observer MarkovObserver
}

func NewMarkovCache() *MarkovCache {
	return &MarkovCache{entries: make(map[MarkovKey]markovEntry)}
}

// SetObserver installs a lookup observer, typically a metrics recorder
func (c *MarkovCache) SetObserver(observer MarkovObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = observer
}

// Lookup returns the cached expectations for key, solving the chain on a miss
func (c *MarkovCache) Lookup(key MarkovKey, rates []float64) (Enhancement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		c.observe(true)
		return entry.result, entry.err
	}
	c.observe(false)

	result, err := SolveEnhancement(key, rates)
	c.solves++
	c.entries[key] = markovEntry{result: result, err: err}
	return result, err
}

func (c *MarkovCache) observe(hit bool) {
	if c.observer != nil {
		c.observer.RecordMarkovLookup(hit)
	}
}

// Solves returns how many times a chain was actually solved
func (c *MarkovCache) Solves() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.solves
}

// Len returns the number of cached keys
func (c *MarkovCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Invalidate drops every cached result
func (c *MarkovCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[MarkovKey]markovEntry)
}
