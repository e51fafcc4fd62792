package bdd

import (
	"os"
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/idleprofit-go/test/bdd/steps"
	"github.com/andrescamacho/idleprofit-go/test/helpers"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			InitializeScenario(sc, t)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/domain", "features/application"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext, t testing.TB) {
	// Domain scenarios need no wiring
	steps.InitializeMarkovScenario(sc)

	// Application scenarios share one wired mediator per scenario
	steps.InitializeApplicationScenario(sc, t)
}

func TestMain(m *testing.M) {
	// One database for every scenario; tables are cleared before each one
	if err := helpers.InitializeSharedTestDB(); err != nil {
		panic("Failed to initialize shared test database: " + err.Error())
	}

	code := m.Run()
	_ = helpers.CloseSharedTestDB()
	os.Exit(code)
}
