package services

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/idleprofit-go/internal/application/common"
	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
)

// Row is one ranked leaderboard entry
type Row struct {
	calculator.Result
	Equipment bool                   `json:"equipment"`
	Jewelry   bool                   `json:"jewelry"`
	Charm     bool                   `json:"charm"`
	Favorite  bool                   `json:"favorite"`
	Storage   calculator.StorageItem `json:"storage"`
}

// SweepStats summarizes one sweep
type SweepStats struct {
	Kind      SweepKind
	Evaluated int
	Kept      int
	Failed    int
	Duration  time.Duration
}

// SweepObserver receives sweep statistics, typically a metrics collector
type SweepObserver interface {
	RecordSweep(stats SweepStats)
	RecordCandidateFailure(kind SweepKind, candidateKind string)
}

// Sweeper evaluates every candidate of a leaderboard and keeps the available ones
type Sweeper struct {
	observer SweepObserver
	clock    shared.Clock
}

// NewSweeper creates a sweeper; observer may be nil
func NewSweeper(observer SweepObserver, clock shared.Clock) *Sweeper {
	if clock == nil {
		clock = &shared.RealClock{}
	}
	return &Sweeper{observer: observer, clock: clock}
}

// Sweep evaluates the candidates of kind against env. A failing candidate is
// logged and skipped; only cancellation aborts the sweep.
func (s *Sweeper) Sweep(ctx context.Context, kind SweepKind, env calculator.Env) ([]Row, error) {
	if env.Catalog == nil {
		return nil, fmt.Errorf("sweep %s: no game data", kind)
	}
	return s.SweepCandidates(ctx, kind, env, Candidates(kind, env.Catalog))
}

// SweepCandidates evaluates an explicit candidate list, reported under kind
func (s *Sweeper) SweepCandidates(ctx context.Context, kind SweepKind, env calculator.Env, candidates []Candidate) ([]Row, error) {
	logger := common.LoggerFromContext(ctx)
	start := s.clock.Now()

	stats := SweepStats{Kind: kind}
	var rows []Row
	best := make(map[string]int)

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stats.Evaluated++

		row, ok, err := s.evaluate(candidate, env)
		if err != nil {
			stats.Failed++
			logger.Log("WARNING", "Skipping candidate", map[string]interface{}{
				"sweep":   string(kind),
				"kind":    candidate.Kind,
				"hrid":    candidate.Hrid,
				"project": candidate.Project,
				"action":  candidate.Action,
				"error":   err.Error(),
			})
			if s.observer != nil {
				s.observer.RecordCandidateFailure(kind, candidate.Kind)
			}
			continue
		}
		if !ok {
			continue
		}

		if candidate.Group == "" {
			rows = append(rows, row)
			continue
		}
		if i, seen := best[candidate.Group]; seen {
			if row.ProfitPH > rows[i].ProfitPH {
				rows[i] = row
			}
			continue
		}
		best[candidate.Group] = len(rows)
		rows = append(rows, row)
	}

	stats.Kept = len(rows)
	stats.Duration = s.clock.Now().Sub(start)
	if s.observer != nil {
		s.observer.RecordSweep(stats)
	}
	logger.Log("INFO", "Leaderboard sweep completed", map[string]interface{}{
		"sweep":       string(kind),
		"evaluated":   stats.Evaluated,
		"kept":        stats.Kept,
		"failed":      stats.Failed,
		"duration_ms": stats.Duration.Milliseconds(),
	})
	return rows, nil
}

// evaluate builds and runs one candidate, turning a panic into a CandidateError
func (s *Sweeper) evaluate(candidate Candidate, env calculator.Env) (row Row, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = shared.NewCandidateError(candidate.Kind, candidate.Hrid, candidate.Project, candidate.Action, fmt.Errorf("panic: %v", r))
		}
	}()

	if candidate.Viable != nil && !candidate.Viable(env) {
		return Row{}, false, nil
	}
	c, buildErr := candidate.Build(env)
	if buildErr != nil {
		return Row{}, false, shared.NewCandidateError(candidate.Kind, candidate.Hrid, candidate.Project, candidate.Action, buildErr)
	}
	if !c.Available() {
		return Row{}, false, nil
	}
	return NewRow(c), true, nil
}

// NewRow runs a calculator and classifies its item for filtering
func NewRow(c calculator.Calculator) Row {
	row := Row{Result: c.Run(), Storage: calculator.ToStorage(c)}
	if item := c.Item(); item != nil {
		row.Equipment = item.IsEquipment()
		row.Jewelry = item.IsJewelry()
		row.Charm = item.IsCharm()
	}
	return row
}
