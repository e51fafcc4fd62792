package services

import (
	"fmt"
	"math"
	"strconv"

	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
)

// SweepKind names one leaderboard
type SweepKind string

const (
	SweepAlchemy     SweepKind = "alchemy"
	SweepManufacture SweepKind = "manufacture"
	SweepGather      SweepKind = "gather"
	SweepChain       SweepKind = "chain"
	SweepEnhance     SweepKind = "enhance"
	SweepForge       SweepKind = "forge"
	SweepResale      SweepKind = "resale"
	SweepInherit     SweepKind = "inherit"
)

// SweepKinds lists every leaderboard in display order
var SweepKinds = []SweepKind{
	SweepAlchemy, SweepManufacture, SweepGather, SweepChain,
	SweepEnhance, SweepForge, SweepResale, SweepInherit,
}

// ParseSweepKind validates a leaderboard name
func ParseSweepKind(name string) (SweepKind, error) {
	for _, kind := range SweepKinds {
		if string(kind) == name {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown leaderboard %q", name)
}

// project is a display name paired with the action type it runs
type project struct {
	name   string
	action string
}

var (
	manufactureProjects = []project{
		{"Cheesesmithing", "cheesesmithing"},
		{"Crafting", "crafting"},
		{"Tailoring", "tailoring"},
		{"Cooking", "cooking"},
		{"Brewing", "brewing"},
	}
	gatherProjects = []project{
		{"Milking", "milking"},
		{"Foraging", "foraging"},
		{"Woodcutting", "woodcutting"},
	}
	// forgeProjects produce equipment that is worth enhancing
	forgeProjects = manufactureProjects[:3]
)

// maxChainSteps bounds an upgrade chain walk
const maxChainSteps = 10

// inheritMinItemLevel is the lowest item level worth crafting from an enhanced upgrade item;
// charms qualify at any level
const inheritMinItemLevel = 90

// Enhancement level grids. Origins above +0 are bought already enhanced and an
// escape level must stay below the origin.
var (
	enhanceOrigins = append([]int{0}, levels(5, 16)...)
	enhanceEscapes = append([]int{calculator.NoEscape, 0}, levels(5, 15)...)

	resaleTargets = []int{10, 12, 14, 16}
	resaleOrigins = []int{5, 7, 8, 10, 12, 14}
	resaleEscapes = []int{calculator.NoEscape, 0, 5, 7, 8, 10, 12, 14}
)

func levels(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for l := lo; l <= hi; l++ {
		out = append(out, l)
	}
	return out
}

// Candidate is one calculator a sweep evaluates. Candidates sharing a non-empty
// Group compete and only the most profitable available one is kept.
type Candidate struct {
	Kind    string
	Hrid    string
	Project string
	Action  string
	Group   string
	// Viable, when set, is checked before Build and rejects plans that cannot pay off
	Viable func(env calculator.Env) bool
	Build  func(env calculator.Env) (calculator.Calculator, error)
}

func single(cfg calculator.Config) Candidate {
	return Candidate{
		Kind:    string(cfg.Kind),
		Hrid:    cfg.Hrid,
		Project: cfg.ProjectName(),
		Action:  cfg.ActionType(),
		Build: func(env calculator.Env) (calculator.Calculator, error) {
			return calculator.New(env, cfg)
		},
	}
}

func branched(trunk, branches []calculator.Config, name, group string) Candidate {
	first := branches[0]
	return Candidate{
		Kind:    string(calculator.KindWorkflow),
		Hrid:    first.Hrid,
		Project: name,
		Action:  first.ActionType(),
		Group:   group,
		Build: func(env calculator.Env) (calculator.Calculator, error) {
			return calculator.NewBranchedWorkflow(env, trunk, branches, name)
		},
	}
}

func workflow(configs []calculator.Config, name, group string) Candidate {
	last := configs[len(configs)-1]
	return Candidate{
		Kind:    string(calculator.KindWorkflow),
		Hrid:    last.Hrid,
		Project: name,
		Action:  last.ActionType(),
		Group:   group,
		Build: func(env calculator.Env) (calculator.Calculator, error) {
			return calculator.NewWorkflow(env, configs, name)
		},
	}
}

// prunedBy makes a workflow candidate viable only when its enhance stage is available
// on its own, which the cheap profit bound decides before any chain is solved
func prunedBy(enhance calculator.Config, c Candidate) Candidate {
	c.Viable = func(env calculator.Env) bool {
		stage, err := calculator.New(env, enhance)
		return err != nil || stage.Available()
	}
	return c
}

// Candidates enumerates the search space of a leaderboard
func Candidates(kind SweepKind, catalog gamedata.Catalog) []Candidate {
	switch kind {
	case SweepAlchemy:
		return alchemyCandidates(catalog)
	case SweepManufacture:
		return projectCandidates(catalog, calculator.KindManufacture, manufactureProjects)
	case SweepGather:
		return projectCandidates(catalog, calculator.KindGather, gatherProjects)
	case SweepChain:
		return chainCandidates(catalog)
	case SweepEnhance:
		return enhanceCandidates(catalog)
	case SweepForge:
		return forgeCandidates(catalog)
	case SweepResale:
		return resaleCandidates(catalog)
	case SweepInherit:
		return inheritCandidates(catalog)
	}
	return nil
}

func alchemyCandidates(catalog gamedata.Catalog) []Candidate {
	var out []Candidate
	for _, item := range catalog.Items() {
		for rank := 0; rank <= 2; rank++ {
			for _, kind := range []calculator.Kind{calculator.KindTransmute, calculator.KindDecompose, calculator.KindCoinify} {
				out = append(out, single(calculator.Config{
					Kind:         kind,
					Hrid:         item.Hrid,
					CatalystRank: rank,
					EscapeLevel:  calculator.NoEscape,
				}))
			}
		}
	}
	return out
}

func projectCandidates(catalog gamedata.Catalog, kind calculator.Kind, projects []project) []Candidate {
	var out []Candidate
	for _, item := range catalog.Items() {
		for _, p := range projects {
			out = append(out, single(calculator.Config{
				Kind:        kind,
				Hrid:        item.Hrid,
				Project:     p.name,
				Action:      p.action,
				EscapeLevel: calculator.NoEscape,
			}))
		}
	}
	return out
}

func manufactureConfig(hrid string, p project) calculator.Config {
	return calculator.Config{
		Kind:        calculator.KindManufacture,
		Hrid:        hrid,
		Project:     p.name,
		Action:      p.action,
		EscapeLevel: calculator.NoEscape,
	}
}

// recipeFor finds the first manufacture project with a recipe producing hrid
func recipeFor(catalog gamedata.Catalog, hrid string) (project, *gamedata.Action, bool) {
	for _, p := range manufactureProjects {
		if action, ok := catalog.Action(gamedata.ActionHrid(p.action, gamedata.Key(hrid))); ok {
			return p, action, true
		}
	}
	return project{}, nil, false
}

// chainCandidates follows upgrade items backwards from every upgradable recipe and
// emits one workflow per prefix of the chain. Chains starting from the
// philosopher's stone are skipped.
func chainCandidates(catalog gamedata.Catalog) []Candidate {
	var out []Candidate
	for _, item := range catalog.Items() {
		for _, p := range manufactureProjects {
			action, ok := catalog.Action(gamedata.ActionHrid(p.action, item.Key()))
			if !ok || action.UpgradeItemHrid == "" || action.UpgradeItemHrid == gamedata.PhilosophersStoneHrid {
				continue
			}

			configs := []calculator.Config{manufactureConfig(item.Hrid, p)}
			for step := 0; step < maxChainSteps && action.UpgradeItemHrid != ""; step++ {
				prev, prevAction, found := recipeFor(catalog, action.UpgradeItemHrid)
				if !found {
					break
				}
				configs = append([]calculator.Config{manufactureConfig(action.UpgradeItemHrid, prev)}, configs...)
				out = append(out, workflow(configs, chainName(configs, p.name), ""))
				action = prevAction
			}
		}
	}
	return out
}

// chainName is "<steps>-step <project>", noting the first differing project in parentheses
func chainName(configs []calculator.Config, name string) string {
	out := strconv.Itoa(len(configs)) + "-step " + name
	for _, cfg := range configs {
		if cfg.Project != name {
			return out + " (" + cfg.Project + ")"
		}
	}
	return out
}

// protectRange starts protection at +2, or right above the escape level
func protectRange(target, escape int) (int, int) {
	return min(max(2, escape+1), target), target
}

// enhancePlans calls fn for every (origin, escape, protect) that can reach target
// from the given origins and escapes
func enhancePlans(target int, origins, escapes []int, fn func(origin, escape, protect int)) {
	for _, origin := range origins {
		if origin >= target {
			continue
		}
		for _, escape := range escapes {
			if escape != calculator.NoEscape && escape >= origin {
				continue
			}
			lo, hi := protectRange(target, escape)
			for protect := lo; protect <= hi; protect++ {
				fn(origin, escape, protect)
			}
		}
	}
}

func enhanceConfig(hrid string, target, protect, origin, escape int) calculator.Config {
	cfg := calculator.NewEnhanceConfig(hrid, target, protect, origin)
	cfg.EscapeLevel = escape
	return cfg
}

func levelName(origin, target int) string {
	return "+" + strconv.Itoa(origin) + " → +" + strconv.Itoa(target)
}

// enhanceCandidates pairs every enhancement plan with decomposing the result and
// keeps the best origin, escape, protect level and catalyst per (item, target)
func enhanceCandidates(catalog gamedata.Catalog) []Candidate {
	var out []Candidate
	for _, item := range catalog.Items() {
		if !item.IsEnhanceable() {
			continue
		}
		for target := 1; target <= gamedata.MaxEnhanceLevel; target++ {
			group := item.Hrid + "@" + strconv.Itoa(target)
			enhancePlans(target, enhanceOrigins, enhanceEscapes, func(origin, escape, protect int) {
				name := "Enhance & Decompose " + levelName(origin, target)
				enhance := enhanceConfig(item.Hrid, target, protect, origin, escape)
				for rank := 0; rank <= 2; rank++ {
					out = append(out, prunedBy(enhance, workflow([]calculator.Config{
						enhance,
						{
							Kind:         calculator.KindDecompose,
							Hrid:         item.Hrid,
							EnhanceLevel: target,
							CatalystRank: rank,
							EscapeLevel:  calculator.NoEscape,
						},
					}, name, group)))
				}
			})
		}
	}
	return out
}

// forgeCandidates crafts an item and enhances it for sale, competing per (item, target)
// with buying the item at any origin and enhancing it. A crafted item starts at +0,
// so only the bought path sweeps origins and escapes.
func forgeCandidates(catalog gamedata.Catalog) []Candidate {
	var out []Candidate
	for _, item := range catalog.Items() {
		if !item.IsEnhanceable() {
			continue
		}
		for target := 1; target <= gamedata.MaxEnhanceLevel; target++ {
			level := strconv.Itoa(target)
			enhancePlans(target, enhanceOrigins, enhanceEscapes, func(origin, escape, protect int) {
				enhance := enhanceConfig(item.Hrid, target, protect, origin, escape)
				plain := single(enhance)
				plain.Group = "buy:" + item.Hrid + "@" + level
				out = append(out, plain)
				if origin != 0 {
					return
				}

				for _, p := range forgeProjects {
					if _, ok := catalog.Action(gamedata.ActionHrid(p.action, item.Key())); !ok {
						continue
					}
					out = append(out, prunedBy(enhance, workflow(
						[]calculator.Config{manufactureConfig(item.Hrid, p), enhance},
						p.name+" & Enhance +"+level,
						"forge:"+item.Hrid+"@"+level,
					)))
				}
			})
		}
	}
	return out
}

// resaleCandidates buys an already enhanced item, pushes it higher and sells it,
// keeping the best plan per (item, target)
func resaleCandidates(catalog gamedata.Catalog) []Candidate {
	var out []Candidate
	for _, item := range catalog.Items() {
		if !item.IsEnhanceable() {
			continue
		}
		for _, target := range resaleTargets {
			group := item.Hrid + "@" + strconv.Itoa(target)
			enhancePlans(target, resaleOrigins, resaleEscapes, func(origin, escape, protect int) {
				cfg := enhanceConfig(item.Hrid, target, protect, origin, escape)
				cfg.Project = "Resale " + levelName(origin, target)
				c := single(cfg)
				c.Group = group
				out = append(out, c)
			})
		}
	}
	return out
}

// inheritCandidates crafts an item from an enhanced upgrade item, which carries part of
// its level over, and enhances the result for sale. A fractional carry-over lands on
// two neighbouring levels, each enhanced by its own branch.
// The best plan is kept per (item, inherited level, project, target).
func inheritCandidates(catalog gamedata.Catalog) []Candidate {
	var out []Candidate
	for _, item := range catalog.Items() {
		if !item.IsEnhanceable() || item.IsRefined() || (!item.IsCharm() && item.ItemLevel < inheritMinItemLevel) {
			continue
		}
		for _, p := range forgeProjects {
			action, ok := catalog.Action(gamedata.ActionHrid(p.action, item.Key()))
			if !ok || action.UpgradeItemHrid == "" {
				continue
			}
			for inherit := 1; inherit <= gamedata.MaxEnhanceLevel; inherit++ {
				craft := manufactureConfig(item.Hrid, p)
				craft.OriginLevel = inherit
				out = append(out, inheritPlans(item.Hrid, craft, p.name)...)
			}
		}
	}
	return out
}

func inheritPlans(hrid string, craft calculator.Config, projectName string) []Candidate {
	carried := calculator.InheritedLevel(craft.OriginLevel, false)
	origin := int(math.Floor(carried))
	fractional := carried > float64(origin)
	inherit := strconv.Itoa(craft.OriginLevel)

	var out []Candidate
	for target := origin + 1; target <= gamedata.MaxEnhanceLevel; target++ {
		level := strconv.Itoa(target)
		name := projectName + "+" + inherit + " Enhance+" + level
		group := hrid + "|" + inherit + "|" + projectName + "@" + level
		escapes := append([]int{calculator.NoEscape}, levels(0, origin-1)...)
		enhancePlans(target, []int{origin}, escapes, func(_, escape, protect int) {
			branches := []calculator.Config{enhanceConfig(hrid, target, protect, origin, escape)}
			if fractional && origin+1 < target {
				branches = append(branches, enhanceConfig(hrid, target, protect, origin+1, escape))
			}
			out = append(out, prunedBy(branches[0], branched([]calculator.Config{craft}, branches, name, group)))
		})
	}
	return out
}
