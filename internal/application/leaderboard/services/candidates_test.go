package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/services"
	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
	"github.com/andrescamacho/idleprofit-go/test/helpers"
)

func TestParseSweepKind(t *testing.T) {
	kind, err := services.ParseSweepKind("chain")
	require.NoError(t, err)
	assert.Equal(t, services.SweepChain, kind)

	_, err = services.ParseSweepKind("fishing")
	assert.Error(t, err)
}

func TestCandidates_AlchemyCoversEveryItemKindAndRank(t *testing.T) {
	// Arrange
	catalog := helpers.NewTestCatalog(t)

	// Act
	candidates := services.Candidates(services.SweepAlchemy, catalog)

	// Assert
	assert.Len(t, candidates, len(catalog.Items())*9)
	for _, c := range candidates {
		assert.Empty(t, c.Group)
	}
}

func TestCandidates_ChainWalksUpgradeItems(t *testing.T) {
	// Arrange
	catalog := helpers.NewTestCatalog(t)

	// Act
	candidates := services.Candidates(services.SweepChain, catalog)

	// Assert
	require.Len(t, candidates, 1)
	assert.Equal(t, helpers.VerdantCheeseSwordHrid, candidates[0].Hrid)
	assert.Equal(t, "2-step Cheesesmithing", candidates[0].Project)
	assert.Equal(t, string(calculator.KindWorkflow), candidates[0].Kind)

	c, err := candidates[0].Build(helpers.NewTestEnv(t, nil))
	require.NoError(t, err)
	w, ok := c.(*calculator.Workflow)
	require.True(t, ok)
	configs := w.StageConfigs()
	require.Len(t, configs, 2)
	assert.Equal(t, helpers.CheeseSwordHrid, configs[0].Hrid)
	assert.Equal(t, helpers.VerdantCheeseSwordHrid, configs[1].Hrid)
}

func TestCandidates_EnhanceGroupsByItemAndTarget(t *testing.T) {
	catalog := helpers.NewTestCatalog(t)

	candidates := services.Candidates(services.SweepEnhance, catalog)

	groups := make(map[string]int)
	for _, c := range candidates {
		require.NotEmpty(t, c.Group)
		groups[c.Group]++
	}
	// two enhanceable items, twenty targets each
	assert.Len(t, groups, 40)
	// target 1: protect 1 only, three catalyst ranks
	assert.Equal(t, 3, groups[helpers.CheeseSwordHrid+"@1"])
	// target 5: protect 2..5, three catalyst ranks
	assert.Equal(t, 12, groups[helpers.CheeseSwordHrid+"@5"])
}

func TestCandidates_ForgeNeedsARecipe(t *testing.T) {
	catalog := helpers.NewTestCatalog(t)

	candidates := services.Candidates(services.SweepForge, catalog)

	var forged, boughtAtZero int
	for _, c := range candidates {
		if c.Kind == string(calculator.KindWorkflow) {
			forged++
			assert.Contains(t, c.Project, "Cheesesmithing & Enhance +")
			continue
		}
		assert.Equal(t, string(calculator.KindEnhance), c.Kind)
		cfg := buildConfig(t, c)
		if cfg.OriginLevel == 0 {
			boughtAtZero++
		}
	}
	assert.Equal(t, boughtAtZero, forged, "both swords have a cheesesmithing recipe")
}

// buildConfig builds a single-calculator candidate against the fixtures and returns its config
func buildConfig(t *testing.T, c services.Candidate) calculator.Config {
	t.Helper()
	built, err := c.Build(helpers.NewTestEnv(t, nil))
	require.NoError(t, err)
	return built.Config()
}

// enhanceStages collects the enhance configs of every candidate, workflow stages included
func enhanceStages(t *testing.T, candidates []services.Candidate) []calculator.Config {
	t.Helper()
	env := helpers.NewTestEnv(t, nil)
	var out []calculator.Config
	for _, c := range candidates {
		built, err := c.Build(env)
		require.NoError(t, err)
		configs := []calculator.Config{built.Config()}
		if w, ok := built.(*calculator.Workflow); ok {
			configs = append(w.StageConfigs(), w.BranchConfigs()...)
		}
		for _, cfg := range configs {
			if cfg.Kind == calculator.KindEnhance {
				out = append(out, cfg)
			}
		}
	}
	return out
}

func TestCandidates_EnhanceSweepsOriginAndEscape(t *testing.T) {
	// Arrange
	catalog := helpers.NewTestCatalog(t)

	for _, kind := range []services.SweepKind{services.SweepEnhance, services.SweepForge, services.SweepResale} {
		t.Run(string(kind), func(t *testing.T) {
			// Act
			configs := enhanceStages(t, services.Candidates(kind, catalog))

			// Assert
			var raised, escaping int
			for _, cfg := range configs {
				assert.Less(t, cfg.OriginLevel, cfg.EnhanceLevel)
				if cfg.EscapeLevel != calculator.NoEscape {
					escaping++
					assert.Less(t, cfg.EscapeLevel, cfg.OriginLevel)
					assert.Greater(t, cfg.ProtectLevel, cfg.EscapeLevel)
				}
				if cfg.OriginLevel > 0 {
					raised++
				}
			}
			assert.Positive(t, raised)
			assert.Positive(t, escaping)
		})
	}
}

func TestCandidates_EnhanceKeepsOneGroupPerTarget(t *testing.T) {
	catalog := helpers.NewTestCatalog(t)

	candidates := services.Candidates(services.SweepEnhance, catalog)

	var found bool
	for _, c := range candidates {
		if c.Group == helpers.CheeseSwordHrid+"@10" && c.Project == "Enhance & Decompose +8 → +10" {
			found = true
			break
		}
	}
	assert.True(t, found, "a +8 origin competes in the +10 group")
}

func TestCandidates_ResaleTargets(t *testing.T) {
	catalog := helpers.NewTestCatalog(t)

	candidates := services.Candidates(services.SweepResale, catalog)

	groups := make(map[string]int)
	for _, c := range candidates {
		assert.Equal(t, string(calculator.KindEnhance), c.Kind)
		groups[c.Group]++
	}
	// two enhanceable items, four targets each
	assert.Len(t, groups, 8)
	assert.Contains(t, groups, helpers.VerdantCheeseSwordHrid+"@10")
	cfg := buildConfig(t, candidates[0])
	assert.Equal(t, "Resale +5 → +10", cfg.Project)
}

// inheritCatalog turns the verdant sword into a charm, which is worth inheriting into at any level
func inheritCatalog(t *testing.T) *gamedata.Snapshot {
	t.Helper()
	doc := helpers.TestGameDocument()
	verdant := doc.ItemDetailMap[helpers.VerdantCheeseSwordHrid]
	verdant.EquipmentDetail = &gamedata.EquipmentDetail{Type: gamedata.EquipmentCharm}
	doc.ItemDetailMap[helpers.VerdantCheeseSwordHrid] = verdant
	catalog, err := gamedata.NewSnapshot(doc)
	require.NoError(t, err)
	return catalog
}

func TestCandidates_InheritSkipsLowLevelItems(t *testing.T) {
	assert.Empty(t, services.Candidates(services.SweepInherit, helpers.NewTestCatalog(t)))
}

func TestCandidates_InheritSplitsFractionalLevels(t *testing.T) {
	// Arrange
	catalog := inheritCatalog(t)

	// Act
	candidates := services.Candidates(services.SweepInherit, catalog)

	// Assert
	require.NotEmpty(t, candidates)
	env := helpers.NewTestEnv(t, nil)
	var split, whole, escaping int
	for _, c := range candidates {
		assert.Equal(t, helpers.VerdantCheeseSwordHrid, c.Hrid)
		assert.Equal(t, string(calculator.KindWorkflow), c.Kind)
		if c.Project != "Cheesesmithing+3 Enhance+5" && c.Project != "Cheesesmithing+10 Enhance+12" {
			continue
		}
		built, err := c.Build(env)
		require.NoError(t, err)
		w := built.(*calculator.Workflow)
		trunk := w.StageConfigs()
		require.Len(t, trunk, 1)
		assert.Equal(t, calculator.KindManufacture, trunk[0].Kind)

		branches := w.BranchConfigs()
		switch trunk[0].OriginLevel {
		case 3:
			// +3 carries over as +2.1
			require.Len(t, branches, 2)
			assert.Equal(t, 2, branches[0].OriginLevel)
			assert.Equal(t, 3, branches[1].OriginLevel)
			split++
		case 10:
			// +10 carries over as exactly +7
			require.Len(t, branches, 1)
			assert.Equal(t, 7, branches[0].OriginLevel)
			whole++
		}
		for _, b := range branches {
			if b.EscapeLevel != calculator.NoEscape {
				escaping++
				assert.Less(t, b.EscapeLevel, branches[0].OriginLevel)
			}
		}
	}
	assert.Positive(t, split)
	assert.Positive(t, whole)
	assert.Positive(t, escaping)
}

func TestCandidates_InheritBranchedWorkflowIsAvailable(t *testing.T) {
	// Arrange
	catalog := inheritCatalog(t)
	env := helpers.NewTestEnv(t, nil)
	env.Catalog = catalog

	var candidate services.Candidate
	for _, c := range services.Candidates(services.SweepInherit, catalog) {
		if c.Project == "Cheesesmithing+3 Enhance+5" {
			candidate = c
			break
		}
	}
	require.NotNil(t, candidate.Build)

	// Act
	built, err := candidate.Build(env)
	require.NoError(t, err)

	// Assert
	require.True(t, built.Available())
	row := services.NewRow(built)
	assert.Len(t, row.Multipliers, 3)
	assert.Len(t, row.Storage.Branches, 2)
}

func TestCandidates_UnknownKind(t *testing.T) {
	assert.Empty(t, services.Candidates("fishing", helpers.NewTestCatalog(t)))
}
