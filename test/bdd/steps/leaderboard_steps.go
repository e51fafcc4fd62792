package steps

import (
	"fmt"

	"github.com/cucumber/godog"

	leaderboardQueries "github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/queries"
	"github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/services"
)

func registerLeaderboardSteps(sc *godog.ScenarioContext, ac *applicationContext) {
	sc.Step(`^I rank the "([^"]*)" leaderboard$`, ac.iRankTheLeaderboard)
	sc.Step(`^I rank the "([^"]*)" leaderboard filtered by name "([^"]*)"$`, ac.iRankTheLeaderboardFilteredByName)
	sc.Step(`^the leaderboard should not be empty$`, ac.theLeaderboardShouldNotBeEmpty)
	sc.Step(`^the leaderboard should be ordered by profit per hour$`, ac.theLeaderboardShouldBeOrderedByProfit)
	sc.Step(`^the leaderboard should contain only "([^"]*)"$`, ac.theLeaderboardShouldContainOnly)
	sc.Step(`^the leaderboard should come from the cache$`, ac.theLeaderboardShouldComeFromTheCache)
	sc.Step(`^the leaderboard should be swept again$`, ac.theLeaderboardShouldBeSweptAgain)
	sc.Step(`^the leaderboard row for "([^"]*)" should use a manual price$`, ac.theLeaderboardRowShouldUseAManualPrice)
	sc.Step(`^the leaderboard row for "([^"]*)" should be a favorite$`, ac.theLeaderboardRowShouldBeAFavorite)
}

func (ac *applicationContext) rank(kind string, filter services.Filter) error {
	response, err := ac.mediator.Send(ac.ctx, &leaderboardQueries.GetLeaderboardQuery{
		Kind:   services.SweepKind(kind),
		Filter: filter,
	})
	ac.err = err
	if err != nil {
		ac.leaderboard = nil
		return nil
	}
	ac.leaderboard = response.(*leaderboardQueries.LeaderboardResponse)
	return nil
}

func (ac *applicationContext) iRankTheLeaderboard(kind string) error {
	return ac.rank(kind, services.Filter{})
}

func (ac *applicationContext) iRankTheLeaderboardFilteredByName(kind, name string) error {
	return ac.rank(kind, services.Filter{Name: name})
}

func (ac *applicationContext) rows() ([]services.Row, error) {
	if ac.err != nil {
		return nil, fmt.Errorf("ranking failed: %w", ac.err)
	}
	if ac.leaderboard == nil {
		return nil, fmt.Errorf("no leaderboard was ranked")
	}
	return ac.leaderboard.Rows, nil
}

func (ac *applicationContext) theLeaderboardShouldNotBeEmpty() error {
	rows, err := ac.rows()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("expected leaderboard rows")
	}
	return nil
}

func (ac *applicationContext) theLeaderboardShouldBeOrderedByProfit() error {
	rows, err := ac.rows()
	if err != nil {
		return err
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].ProfitPH < rows[i].ProfitPH {
			return fmt.Errorf("row %d (%s, %.2f) ranks above %s (%.2f)",
				i-1, rows[i-1].Hrid, rows[i-1].ProfitPH, rows[i].Hrid, rows[i].ProfitPH)
		}
	}
	return nil
}

func (ac *applicationContext) theLeaderboardShouldContainOnly(item string) error {
	rows, err := ac.rows()
	if err != nil {
		return err
	}
	if len(rows) != 1 || rows[0].Hrid != itemHrid(item) {
		hrids := make([]string, len(rows))
		for i, r := range rows {
			hrids[i] = r.Hrid
		}
		return fmt.Errorf("expected only %s, got %v", itemHrid(item), hrids)
	}
	return nil
}

func (ac *applicationContext) theLeaderboardShouldComeFromTheCache() error {
	if _, err := ac.rows(); err != nil {
		return err
	}
	if !ac.leaderboard.Cached {
		return fmt.Errorf("expected the cached sweep to be reused")
	}
	return nil
}

func (ac *applicationContext) theLeaderboardShouldBeSweptAgain() error {
	if _, err := ac.rows(); err != nil {
		return err
	}
	if ac.leaderboard.Cached {
		return fmt.Errorf("expected a fresh sweep, got cached rows")
	}
	return nil
}

func (ac *applicationContext) findRow(item string) (services.Row, error) {
	rows, err := ac.rows()
	if err != nil {
		return services.Row{}, err
	}
	for _, row := range rows {
		if row.Hrid == itemHrid(item) {
			return row, nil
		}
	}
	return services.Row{}, fmt.Errorf("no leaderboard row for %s", itemHrid(item))
}

func (ac *applicationContext) theLeaderboardRowShouldUseAManualPrice(item string) error {
	row, err := ac.findRow(item)
	if err != nil {
		return err
	}
	if !row.HasManualPrice {
		return fmt.Errorf("expected %s to use a manual price", row.Hrid)
	}
	return nil
}

func (ac *applicationContext) theLeaderboardRowShouldBeAFavorite(item string) error {
	row, err := ac.findRow(item)
	if err != nil {
		return err
	}
	if !row.Favorite {
		return fmt.Errorf("expected %s to be marked as a favorite", row.Hrid)
	}
	return nil
}
